package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/repository/mocks"
)

func TestService_Recent_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, mock.MatchedBy(func(opts activity.ListOptions) bool {
		return opts.Limit == 50
	})).Return([]activity.Entry{}, nil)

	svc := activity.NewService(repo, nil)
	_, err := svc.Recent(ctx, activity.ListOptions{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFailureRecorder_BuffersAndLogs(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	repo.On("Log", mock.Anything, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeStageChangeFailed && e.Collection == pipeline.CollectionLeads
	})).Return(nil)

	buffer := pipeline.NewNotificationBuffer()
	recorder := &activity.FailureRecorder{
		Buffer:  buffer,
		Service: activity.NewService(repo, nil),
	}

	recorder.UpdateFailed(pipeline.CollectionLeads, "l1", pipeline.LeadNew, pipeline.LeadLost, errors.New("write failed"))

	notes := buffer.Drain()
	require.Len(t, notes, 1)
	require.Equal(t, "l1", notes[0].ItemID)
	require.Equal(t, pipeline.LeadNew, notes[0].From)
	require.Equal(t, pipeline.LeadLost, notes[0].To)
	repo.AssertExpectations(t)
}
