package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Log appends an entry to the activity log.
func (s *Service) Log(ctx context.Context, entry *Entry) error {
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Recent returns the most recent activity entries.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

// FailureRecorder forwards rollback notifications to a buffer and records
// them in the activity log, so a reverted drag is visible both in the
// notifications feed and in the audit trail.
type FailureRecorder struct {
	Buffer  *pipeline.NotificationBuffer
	Service *Service
	Logger  *slog.Logger
}

// UpdateFailed implements pipeline.Notifier.
func (r *FailureRecorder) UpdateFailed(collection pipeline.Collection, itemID string, from, to pipeline.Status, err error) {
	if r.Buffer != nil {
		r.Buffer.UpdateFailed(collection, itemID, from, to, err)
	}
	if r.Service == nil {
		return
	}
	id := itemID
	logErr := r.Service.Log(context.Background(), &Entry{
		Collection: collection,
		ItemID:     &id,
		Type:       TypeStageChangeFailed,
		Summary:    fmt.Sprintf("move %s -> %s reverted", from, to),
		Details:    err.Error(),
	})
	if logErr != nil && r.Logger != nil {
		r.Logger.Warn("failed to record rollback activity", "item", itemID, "error", logErr)
	}
}
