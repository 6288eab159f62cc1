package pipeline

import (
	"context"
	"log/slog"
	"sync"
)

// Sink persists a status change for one item. Implementations must report
// failure distinctly from success; the reconciler never inspects failure
// detail beyond that.
type Sink interface {
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// Notifier receives the one user-visible error class: a persistence
// failure that forced a rollback.
type Notifier interface {
	UpdateFailed(collection Collection, itemID string, from, to Status, err error)
}

// Reconciler converts a validated drop into a persisted status change.
// The local mutation is applied synchronously before persistence is
// attempted; the sink call runs on its own goroutine so the board stays
// interactive while updates are in flight. On sink failure the item's
// status reverts to this call's own origin and the notifier is told once.
type Reconciler struct {
	board    *Board
	sink     Sink
	notifier Notifier
	logger   *slog.Logger

	inflight sync.WaitGroup
}

// NewReconciler creates a reconciler for one board.
func NewReconciler(board *Board, sink Sink, notifier Notifier, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		board:    board,
		sink:     sink,
		notifier: notifier,
		logger:   logger,
	}
}

// Reconcile applies a drop from origin to dest for one item. A
// same-status drop is a no-op: intra-column reorder is not a persisted
// attribute. Multiple calls may have sink writes outstanding at once;
// each carries its own origin and rolls back independently.
func (r *Reconciler) Reconcile(ctx context.Context, itemID string, origin, dest Status) error {
	if dest == origin {
		return nil
	}
	if !ValidStatus(r.board.Collection(), dest) {
		return ErrUnknownStatus
	}

	if _, ok := r.board.SetStatus(itemID, dest); !ok {
		r.logger.Warn("dropped item no longer on board", "collection", r.board.Collection(), "item", itemID)
		return ErrItemNotFound
	}

	// The sink call must outlive the gesture's request context. No
	// timeout is imposed: a hung sink leaves that item's optimistic
	// state un-reverted until it resolves, which is accepted behavior.
	sinkCtx := context.WithoutCancel(ctx)
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		err := r.sink.UpdateStatus(sinkCtx, itemID, dest)
		if err == nil {
			return
		}
		r.board.SetStatus(itemID, origin)
		r.logger.Warn("status update failed, reverted",
			"collection", r.board.Collection(), "item", itemID,
			"from", origin, "to", dest, "error", err)
		if r.notifier != nil {
			r.notifier.UpdateFailed(r.board.Collection(), itemID, origin, dest, err)
		}
	}()
	return nil
}

// Wait blocks until all outstanding sink calls have resolved. Used by
// shutdown and tests; gesture handling never waits on it.
func (r *Reconciler) Wait() {
	r.inflight.Wait()
}
