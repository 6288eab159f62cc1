package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/repository"
)

// Service handles contact business logic. Its UpdateStatus method is the
// update sink behind the contacts board.
type Service struct {
	repo     Repository
	activity ActivityLogger
	logger   *slog.Logger
}

// NewService creates a new contact service.
func NewService(repo Repository, activityLog ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, activity: activityLog, logger: logger}
}

// CreateRequest describes a contact creation request.
type CreateRequest struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Role    string
	LeadID  *string
	Status  pipeline.Status
}

// UpdateRequest describes a contact update request. Nil fields are left
// unchanged; status changes go through UpdateStatus.
type UpdateRequest struct {
	ID      string
	Name    *string
	Email   *string
	Phone   *string
	Company *string
	Role    *string
}

// Create creates a new contact, defaulting to the first pipeline stage.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Contact, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	status := req.Status
	if status == "" {
		status = pipeline.ContactProspect
	}
	if !pipeline.ValidStatus(pipeline.CollectionContacts, status) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	c := &Contact{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		Role:       req.Role,
		LeadID:     req.LeadID,
		Status:     status,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrUnknownLead
		}
		return nil, fmt.Errorf("creating contact: %w", err)
	}

	s.log(ctx, activity.TypeContactCreated, c.ID, fmt.Sprintf("created contact %q", c.Name))
	return c, nil
}

// Get returns a contact by ID.
func (s *Service) Get(ctx context.Context, id string) (*Contact, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("getting contact: %w", err)
	}
	return c, nil
}

// List returns all contacts in source order.
func (s *Service) List(ctx context.Context) ([]Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return contacts, nil
}

// Update modifies a contact's descriptive fields.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Contact, error) {
	if req.ID == "" {
		return nil, ErrInvalidInput
	}
	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidInput
		}
		updated.Name = *req.Name
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.Phone != nil {
		updated.Phone = *req.Phone
	}
	if req.Company != nil {
		updated.Company = *req.Company
	}
	if req.Role != nil {
		updated.Role = *req.Role
	}
	updated.ModifiedAt = time.Now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("updating contact: %w", err)
	}

	s.log(ctx, activity.TypeContactUpdated, updated.ID, fmt.Sprintf("updated contact %q", updated.Name))
	return &updated, nil
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("deleting contact: %w", err)
	}
	s.log(ctx, activity.TypeContactDeleted, id, "deleted contact")
	return nil
}

// UpdateStatus persists a status change for one contact. Writes only
// status and modified_at. Implements pipeline.Sink for the contacts
// board.
func (s *Service) UpdateStatus(ctx context.Context, id string, status pipeline.Status) error {
	if !pipeline.ValidStatus(pipeline.CollectionContacts, status) {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("updating contact status: %w", err)
	}
	s.log(ctx, activity.TypeStageChanged, id, fmt.Sprintf("contact moved to %s", status))
	return nil
}

// Items returns the current contact set as pipeline items. Implements
// pipeline.Source for the contacts board.
func (s *Service) Items(ctx context.Context) ([]pipeline.Item, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading board items: %w", err)
	}
	items := make([]pipeline.Item, 0, len(contacts))
	for i := range contacts {
		items = append(items, contacts[i].Card())
	}
	return items, nil
}

func (s *Service) log(ctx context.Context, typ activity.Type, id, summary string) {
	if s.activity == nil {
		return
	}
	itemID := id
	err := s.activity.Log(ctx, &activity.Entry{
		Collection: pipeline.CollectionContacts,
		ItemID:     &itemID,
		Type:       typ,
		Summary:    summary,
	})
	if err != nil {
		s.logger.Warn("failed to log activity", "contact", id, "type", typ, "error", err)
	}
}
