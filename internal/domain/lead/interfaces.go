package lead

import (
	"context"
	"time"

	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// Repository provides persistence for leads.
type Repository interface {
	Create(ctx context.Context, l *Lead) error
	Get(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, l *Lead) error
	UpdateStatus(ctx context.Context, id string, status pipeline.Status, modifiedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Lead, error)
}

// ActivityLogger records lead activities.
type ActivityLogger interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
