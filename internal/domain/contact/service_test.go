package contact_test

import (
	"context"
	"testing"

	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/repository"
	"github.com/nvollmar/pipeboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContactService_Create_DefaultsToProspect(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContactRepository{}
	activities := &mocks.ActivityRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)
	activities.On("Log", ctx, mock.Anything).Return(nil)

	svc := contact.NewService(repo, activities, nil)
	c, err := svc.Create(ctx, contact.CreateRequest{Name: "Grace Hopper", Role: "CTO"})
	require.NoError(t, err)
	require.Equal(t, pipeline.ContactProspect, c.Status)
	repo.AssertExpectations(t)
}

func TestContactService_Create_UnknownLeadLink(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContactRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrForeignKeyViolation)

	svc := contact.NewService(repo, nil, nil)
	leadID := "ghost"
	_, err := svc.Create(ctx, contact.CreateRequest{Name: "Grace", LeadID: &leadID})
	require.ErrorIs(t, err, contact.ErrUnknownLead)
}

func TestContactService_Create_RejectsLeadStatus(t *testing.T) {
	svc := contact.NewService(&mocks.ContactRepository{}, nil, nil)
	_, err := svc.Create(context.Background(), contact.CreateRequest{
		Name:   "Grace",
		Status: pipeline.LeadQualified,
	})
	require.ErrorIs(t, err, contact.ErrInvalidStatus)
}

func TestContactService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContactRepository{}
	repo.On("UpdateStatus", ctx, "c1", pipeline.ContactInProgress, mock.Anything).Return(nil)

	svc := contact.NewService(repo, nil, nil)
	require.NoError(t, svc.UpdateStatus(ctx, "c1", pipeline.ContactInProgress))
	repo.AssertExpectations(t)
}

func TestContactService_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContactRepository{}
	repo.On("UpdateStatus", ctx, "ghost", pipeline.ContactClosed, mock.Anything).Return(repository.ErrNotFound)

	svc := contact.NewService(repo, nil, nil)
	err := svc.UpdateStatus(ctx, "ghost", pipeline.ContactClosed)
	require.ErrorIs(t, err, contact.ErrContactNotFound)
}

func TestContactService_Items_CardDetail(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ContactRepository{}
	repo.On("List", ctx).Return([]contact.Contact{
		{ID: "c1", Name: "Grace", Role: "CTO", Company: "Navy", Status: pipeline.ContactProspect},
		{ID: "c2", Name: "Joan", Status: pipeline.ContactClosed},
	}, nil)

	svc := contact.NewService(repo, nil, nil)
	items, err := svc.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "CTO, Navy", items[0].Detail)
	require.Equal(t, pipeline.CollectionContacts, items[1].Collection)
	require.Empty(t, items[1].Detail)
}
