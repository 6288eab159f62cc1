package pipeline_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/stretchr/testify/require"
)

type sinkCall struct {
	id     string
	status pipeline.Status
}

// recordSink records UpdateStatus calls and optionally blocks each call
// until released, to observe optimistic state mid-flight.
type recordSink struct {
	mu    sync.Mutex
	calls []sinkCall
	errs  map[string]error
	gate  chan struct{}
}

func (s *recordSink) UpdateStatus(_ context.Context, id string, status pipeline.Status) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	s.calls = append(s.calls, sinkCall{id: id, status: status})
	s.mu.Unlock()
	if s.errs != nil {
		return s.errs[string(status)]
	}
	return nil
}

func (s *recordSink) Calls() []sinkCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkCall(nil), s.calls...)
}

func newLeadBoard(t *testing.T, items ...pipeline.Item) *pipeline.Board {
	t.Helper()
	board := pipeline.NewBoard(pipeline.CollectionLeads)
	require.NoError(t, board.Replace(items))
	return board
}

func TestReconciler_SameStatusIsNoOp(t *testing.T) {
	board := newLeadBoard(t, leadItem("l1", pipeline.LeadNew))
	sink := &recordSink{}
	rec := pipeline.NewReconciler(board, sink, nil, nil)

	err := rec.Reconcile(context.Background(), "l1", pipeline.LeadNew, pipeline.LeadNew)
	require.NoError(t, err)
	rec.Wait()
	require.Empty(t, sink.Calls())
}

func TestReconciler_OptimisticThenConfirm(t *testing.T) {
	board := newLeadBoard(t, leadItem("l1", pipeline.LeadNew))
	sink := &recordSink{gate: make(chan struct{})}
	rec := pipeline.NewReconciler(board, sink, nil, nil)

	err := rec.Reconcile(context.Background(), "l1", pipeline.LeadNew, pipeline.LeadQualified)
	require.NoError(t, err)

	// Displayed status changes before the sink resolves.
	got, ok := board.Get("l1")
	require.True(t, ok)
	require.Equal(t, pipeline.LeadQualified, got.Status)

	close(sink.gate)
	rec.Wait()

	// Success confirms the optimistic state: no further mutation.
	got, _ = board.Get("l1")
	require.Equal(t, pipeline.LeadQualified, got.Status)
	require.Equal(t, []sinkCall{{id: "l1", status: pipeline.LeadQualified}}, sink.Calls())
}

func TestReconciler_RollbackOnFailure(t *testing.T) {
	board := newLeadBoard(t, leadItem("l1", pipeline.LeadNew))
	sink := &recordSink{errs: map[string]error{string(pipeline.LeadQualified): errors.New("backend down")}}
	notifications := pipeline.NewNotificationBuffer()
	rec := pipeline.NewReconciler(board, sink, notifications, nil)

	err := rec.Reconcile(context.Background(), "l1", pipeline.LeadNew, pipeline.LeadQualified)
	require.NoError(t, err)
	rec.Wait()

	got, _ := board.Get("l1")
	require.Equal(t, pipeline.LeadNew, got.Status)

	pending := notifications.Drain()
	require.Len(t, pending, 1)
	require.Equal(t, pipeline.CollectionLeads, pending[0].Collection)
	require.Equal(t, "l1", pending[0].ItemID)
	require.Equal(t, pipeline.LeadNew, pending[0].From)
	require.Equal(t, pipeline.LeadQualified, pending[0].To)
	require.Contains(t, pending[0].Message, "backend down")
	require.Empty(t, notifications.Drain())
}

func TestReconciler_UnknownItem(t *testing.T) {
	board := newLeadBoard(t)
	sink := &recordSink{}
	rec := pipeline.NewReconciler(board, sink, nil, nil)

	err := rec.Reconcile(context.Background(), "ghost", pipeline.LeadNew, pipeline.LeadQualified)
	require.ErrorIs(t, err, pipeline.ErrItemNotFound)
	rec.Wait()
	require.Empty(t, sink.Calls())
}

func TestReconciler_RejectsForeignStatus(t *testing.T) {
	board := newLeadBoard(t, leadItem("l1", pipeline.LeadNew))
	sink := &recordSink{}
	rec := pipeline.NewReconciler(board, sink, nil, nil)

	err := rec.Reconcile(context.Background(), "l1", pipeline.LeadNew, pipeline.ContactProspect)
	require.ErrorIs(t, err, pipeline.ErrUnknownStatus)
	require.Empty(t, sink.Calls())
}

// A second drag on the same item may start before the first sink call
// resolves. Each call rolls back to its own origin independently;
// the last resolution wins the displayed status.
func TestReconciler_IndependentRollbackAcrossOverlappingDrags(t *testing.T) {
	board := newLeadBoard(t, leadItem("l1", pipeline.LeadNew))
	notifications := pipeline.NewNotificationBuffer()

	firstGate := make(chan struct{})
	first := &recordSink{
		gate: firstGate,
		errs: map[string]error{string(pipeline.LeadContacted): errors.New("timeout")},
	}
	firstRec := pipeline.NewReconciler(board, first, notifications, nil)

	second := &recordSink{}
	secondRec := pipeline.NewReconciler(board, second, notifications, nil)

	// First drag new -> contacted; its sink call hangs.
	require.NoError(t, firstRec.Reconcile(context.Background(), "l1", pipeline.LeadNew, pipeline.LeadContacted))

	// Second drag contacted -> qualified resolves successfully first.
	require.NoError(t, secondRec.Reconcile(context.Background(), "l1", pipeline.LeadContacted, pipeline.LeadQualified))
	secondRec.Wait()
	got, _ := board.Get("l1")
	require.Equal(t, pipeline.LeadQualified, got.Status)

	// The first call now fails and compensates to its own origin only.
	close(firstGate)
	firstRec.Wait()
	got, _ = board.Get("l1")
	require.Equal(t, pipeline.LeadNew, got.Status)

	require.Len(t, notifications.Drain(), 1)
}
