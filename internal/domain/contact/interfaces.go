package contact

import (
	"context"
	"time"

	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// Repository provides persistence for contacts.
type Repository interface {
	Create(ctx context.Context, c *Contact) error
	Get(ctx context.Context, id string) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	UpdateStatus(ctx context.Context, id string, status pipeline.Status, modifiedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Contact, error)
}

// ActivityLogger records contact activities.
type ActivityLogger interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
