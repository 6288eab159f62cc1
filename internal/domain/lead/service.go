package lead

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

// Service handles lead business logic. Its UpdateStatus method is the
// update sink behind the leads board.
type Service struct {
	repo     Repository
	activity ActivityLogger
	logger   *slog.Logger
}

// NewService creates a new lead service.
func NewService(repo Repository, activityLog ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, activity: activityLog, logger: logger}
}

// CreateRequest describes a lead creation request.
type CreateRequest struct {
	Name    string
	Company string
	Email   string
	Phone   string
	Source  string
	Status  pipeline.Status
}

// UpdateRequest describes a lead update request. Nil fields are left
// unchanged; status changes go through UpdateStatus.
type UpdateRequest struct {
	ID      string
	Name    *string
	Company *string
	Email   *string
	Phone   *string
	Source  *string
}

// Create creates a new lead, defaulting to the first pipeline stage.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Lead, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	status := req.Status
	if status == "" {
		status = pipeline.LeadNew
	}
	if !pipeline.ValidStatus(pipeline.CollectionLeads, status) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	l := &Lead{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Company:    req.Company,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     req.Source,
		Status:     status,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("creating lead: %w", err)
	}

	s.log(ctx, activity.TypeLeadCreated, l.ID, fmt.Sprintf("created lead %q", l.Name))
	return l, nil
}

// Get returns a lead by ID.
func (s *Service) Get(ctx context.Context, id string) (*Lead, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	return l, nil
}

// List returns all leads in source order.
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return leads, nil
}

// Update modifies a lead's descriptive fields.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Lead, error) {
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
	if req.Company != nil {
		updated.Company = *req.Company
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.Phone != nil {
		updated.Phone = *req.Phone
	}
	if req.Source != nil {
		updated.Source = *req.Source
	}
	updated.ModifiedAt = time.Now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("updating lead: %w", err)
	}

	s.log(ctx, activity.TypeLeadUpdated, updated.ID, fmt.Sprintf("updated lead %q", updated.Name))
	return &updated, nil
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("deleting lead: %w", err)
	}
	s.log(ctx, activity.TypeLeadDeleted, id, "deleted lead")
	return nil
}

// UpdateStatus persists a status change for one lead. This is a
// field-targeted patch: nothing but status and modified_at is written, so
// it can never clobber concurrent edits to other fields. Implements
// pipeline.Sink for the leads board.
func (s *Service) UpdateStatus(ctx context.Context, id string, status pipeline.Status) error {
	if !pipeline.ValidStatus(pipeline.CollectionLeads, status) {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("updating lead status: %w", err)
	}
	s.log(ctx, activity.TypeStageChanged, id, fmt.Sprintf("lead moved to %s", status))
	return nil
}

// Items returns the current lead set as pipeline items. Implements
// pipeline.Source for the leads board.
func (s *Service) Items(ctx context.Context) ([]pipeline.Item, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading board items: %w", err)
	}
	items := make([]pipeline.Item, 0, len(leads))
	for i := range leads {
		items = append(items, leads[i].Card())
	}
	return items, nil
}

func (s *Service) log(ctx context.Context, typ activity.Type, id, summary string) {
	if s.activity == nil {
		return
	}
	itemID := id
	err := s.activity.Log(ctx, &activity.Entry{
		Collection: pipeline.CollectionLeads,
		ItemID:     &itemID,
		Type:       typ,
		Summary:    summary,
	})
	if err != nil {
		s.logger.Warn("failed to log activity", "lead", id, "type", typ, "error", err)
	}
}
