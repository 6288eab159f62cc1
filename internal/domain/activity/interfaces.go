package activity

import "context"

// Repository persists activity entries.
type Repository interface {
	Log(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// ListOptions filters activity listings.
type ListOptions struct {
	Collection string
	ItemID     *string
	Type       *Type
	Limit      int
	Offset     int
}
