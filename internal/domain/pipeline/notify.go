package pipeline

import (
	"sync"
	"time"
)

// Notification records one rollback the user should see.
type Notification struct {
	Collection Collection `json:"collection"`
	ItemID     string     `json:"item_id"`
	From       Status     `json:"from"`
	To         Status     `json:"to"`
	Message    string     `json:"message"`
	At         time.Time  `json:"at"`
}

// NotificationBuffer collects failure notifications until the frontend
// drains them. Implements Notifier.
type NotificationBuffer struct {
	mu      sync.Mutex
	pending []Notification
}

// NewNotificationBuffer creates an empty buffer.
func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{}
}

// UpdateFailed records a persistence failure that forced a rollback.
func (b *NotificationBuffer) UpdateFailed(collection Collection, itemID string, from, to Status, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, Notification{
		Collection: collection,
		ItemID:     itemID,
		From:       from,
		To:         to,
		Message:    err.Error(),
		At:         time.Now(),
	})
}

// Drain returns and clears all pending notifications.
func (b *NotificationBuffer) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.pending
	b.pending = nil
	return pending
}
