package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Coordinator multiplexes the two boards under one drag context. It owns
// the single shared session, resolves which collection a gesture belongs
// to, and routes drops to that collection's reconciler. Malformed
// gestures and cross-collection drops are no-ops: logged for diagnostics,
// never surfaced to the user.
type Coordinator struct {
	boards      map[Collection]*Board
	reconcilers map[Collection]*Reconciler
	logger      *slog.Logger

	mu      sync.Mutex
	session Session
}

// NewCoordinator wires boards and reconcilers under one session. Both
// maps must cover the same collections.
func NewCoordinator(boards map[Collection]*Board, reconcilers map[Collection]*Reconciler, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		boards:      boards,
		reconcilers: reconcilers,
		logger:      logger,
	}
}

// Board returns the board for a collection.
func (c *Coordinator) Board(col Collection) (*Board, bool) {
	b, ok := c.boards[col]
	return b, ok
}

// Dragging reports whether a drag gesture is in progress.
func (c *Coordinator) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Active()
}

// StartDrag begins a gesture for an item. The owning collection is
// resolved by board membership. An unknown ID is fatal for this gesture
// only: logged and swallowed, the session stays idle. A start while
// another drag is active returns ErrDragInProgress and leaves the first
// gesture untouched.
func (c *Coordinator) StartDrag(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Active() {
		return ErrDragInProgress
	}
	for col, board := range c.boards {
		status, index, ok := board.Locate(itemID)
		if !ok {
			continue
		}
		return c.session.Start(itemID, col, status, index)
	}
	c.logger.Warn("drag start for unknown item", "item", itemID)
	return nil
}

// Hover records an advisory destination for the active drag.
func (c *Coordinator) Hover(columnID string, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Hover(columnID, index)
}

// Drop completes the active drag at a destination column and index. The
// destination collection is classified from the column identifier's
// prefix; a destination in the other collection rejects the drop, since
// an item can never change owning collection.
func (c *Coordinator) Drop(ctx context.Context, columnID string, index int) error {
	c.mu.Lock()
	drop, err := c.session.End()
	c.mu.Unlock()
	if err != nil {
		if errors.Is(err, ErrNoActiveDrag) {
			c.logger.Debug("drop without active drag", "column", columnID)
			return nil
		}
		return err
	}

	if columnID == "" {
		// Released outside any column: a cancellation, not an error.
		return nil
	}

	destCollection, destStatus, err := DecodeColumnID(columnID)
	if err != nil {
		c.logger.Warn("drop on undecodable column", "column", columnID, "item", drop.ItemID, "error", err)
		return nil
	}

	if destCollection != drop.OriginCollection {
		c.logger.Warn("cross-collection drop rejected",
			"item", drop.ItemID, "from", drop.OriginCollection, "to", destCollection)
		return nil
	}

	if destStatus == drop.OriginStatus && index == drop.OriginIndex {
		// Dropped back where it came from.
		return nil
	}

	if err := c.reconcilers[destCollection].Reconcile(ctx, drop.ItemID, drop.OriginStatus, destStatus); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			// The item vanished between start and drop, e.g. deleted
			// mid-drag. Malformed gesture, swallowed like an unknown start.
			return nil
		}
		return err
	}
	return nil
}

// CancelDrag aborts the active drag, if any.
func (c *Coordinator) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.session.End(); err != nil {
		c.logger.Debug("cancel without active drag")
	}
}
