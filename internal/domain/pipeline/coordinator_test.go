package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	coordinator   *pipeline.Coordinator
	leads         *pipeline.Board
	contacts      *pipeline.Board
	leadSink      *recordSink
	contactSink   *recordSink
	leadRec       *pipeline.Reconciler
	contactRec    *pipeline.Reconciler
	notifications *pipeline.NotificationBuffer
}

func contactItem(id string, status pipeline.Status) pipeline.Item {
	return pipeline.Item{ID: id, Collection: pipeline.CollectionContacts, Status: status, Title: "Contact " + id}
}

func newFixture(t *testing.T, leadItems, contactItems []pipeline.Item) *fixture {
	t.Helper()

	leads := pipeline.NewBoard(pipeline.CollectionLeads)
	require.NoError(t, leads.Replace(leadItems))
	contacts := pipeline.NewBoard(pipeline.CollectionContacts)
	require.NoError(t, contacts.Replace(contactItems))

	notifications := pipeline.NewNotificationBuffer()
	leadSink := &recordSink{}
	contactSink := &recordSink{}
	leadRec := pipeline.NewReconciler(leads, leadSink, notifications, nil)
	contactRec := pipeline.NewReconciler(contacts, contactSink, notifications, nil)

	coordinator := pipeline.NewCoordinator(
		map[pipeline.Collection]*pipeline.Board{
			pipeline.CollectionLeads:    leads,
			pipeline.CollectionContacts: contacts,
		},
		map[pipeline.Collection]*pipeline.Reconciler{
			pipeline.CollectionLeads:    leadRec,
			pipeline.CollectionContacts: contactRec,
		},
		nil,
	)

	return &fixture{
		coordinator:   coordinator,
		leads:         leads,
		contacts:      contacts,
		leadSink:      leadSink,
		contactSink:   contactSink,
		leadRec:       leadRec,
		contactRec:    contactRec,
		notifications: notifications,
	}
}

func (f *fixture) wait() {
	f.leadRec.Wait()
	f.contactRec.Wait()
}

func TestCoordinator_ValidDropMovesAndPersists(t *testing.T) {
	f := newFixture(t,
		[]pipeline.Item{leadItem("l1", pipeline.LeadNew)},
		[]pipeline.Item{contactItem("c1", pipeline.ContactProspect)},
	)
	ctx := context.Background()

	require.NoError(t, f.coordinator.StartDrag("l1"))
	f.coordinator.Hover("leads-contacted", 0)
	require.NoError(t, f.coordinator.Drop(ctx, "leads-qualified", 0))

	got, _ := f.leads.Get("l1")
	require.Equal(t, pipeline.LeadQualified, got.Status)

	f.wait()
	require.Equal(t, []sinkCall{{id: "l1", status: pipeline.LeadQualified}}, f.leadSink.Calls())
	require.Empty(t, f.contactSink.Calls())
	require.False(t, f.coordinator.Dragging())
}

func TestCoordinator_CrossCollectionDropIsNoOp(t *testing.T) {
	f := newFixture(t,
		[]pipeline.Item{leadItem("l1", pipeline.LeadNew)},
		[]pipeline.Item{contactItem("c1", pipeline.ContactProspect)},
	)
	ctx := context.Background()

	// Contact dragged onto a leads column: never mutates, never persists.
	require.NoError(t, f.coordinator.StartDrag("c1"))
	require.NoError(t, f.coordinator.Drop(ctx, "leads-contacted", 0))
	f.wait()

	got, _ := f.contacts.Get("c1")
	require.Equal(t, pipeline.ContactProspect, got.Status)
	require.Empty(t, f.leadSink.Calls())
	require.Empty(t, f.contactSink.Calls())
	require.False(t, f.coordinator.Dragging())
}

func TestCoordinator_DropOnOriginIsNoOp(t *testing.T) {
	f := newFixture(t,
		[]pipeline.Item{leadItem("l1", pipeline.LeadNew), leadItem("l2", pipeline.LeadNew)},
		nil,
	)
	ctx := context.Background()

	// Same column, same index: idempotent no-op.
	require.NoError(t, f.coordinator.StartDrag("l2"))
	require.NoError(t, f.coordinator.Drop(ctx, "leads-new", 1))
	f.wait()
	require.Empty(t, f.leadSink.Calls())

	// Same column, different index: a pure reorder, which is not a
	// persisted attribute either.
	require.NoError(t, f.coordinator.StartDrag("l2"))
	require.NoError(t, f.coordinator.Drop(ctx, "leads-new", 0))
	f.wait()
	require.Empty(t, f.leadSink.Calls())
}

func TestCoordinator_DropWithoutDestinationCancels(t *testing.T) {
	f := newFixture(t, []pipeline.Item{leadItem("l1", pipeline.LeadNew)}, nil)
	ctx := context.Background()

	require.NoError(t, f.coordinator.StartDrag("l1"))
	require.NoError(t, f.coordinator.Drop(ctx, "", 0))
	f.wait()

	got, _ := f.leads.Get("l1")
	require.Equal(t, pipeline.LeadNew, got.Status)
	require.Empty(t, f.leadSink.Calls())
	require.False(t, f.coordinator.Dragging())
}

func TestCoordinator_DropOnUndecodableColumnSwallowed(t *testing.T) {
	f := newFixture(t, []pipeline.Item{leadItem("l1", pipeline.LeadNew)}, nil)
	ctx := context.Background()

	require.NoError(t, f.coordinator.StartDrag("l1"))
	require.NoError(t, f.coordinator.Drop(ctx, "garbage", 0))
	f.wait()

	got, _ := f.leads.Get("l1")
	require.Equal(t, pipeline.LeadNew, got.Status)
	require.Empty(t, f.leadSink.Calls())
}

func TestCoordinator_UnknownItemStartSwallowed(t *testing.T) {
	f := newFixture(t, []pipeline.Item{leadItem("l1", pipeline.LeadNew)}, nil)

	require.NoError(t, f.coordinator.StartDrag("ghost"))
	require.False(t, f.coordinator.Dragging())

	// The board is still draggable afterwards.
	require.NoError(t, f.coordinator.StartDrag("l1"))
	require.True(t, f.coordinator.Dragging())
}

func TestCoordinator_SecondDragRejectedFirstUnaffected(t *testing.T) {
	f := newFixture(t,
		[]pipeline.Item{leadItem("l1", pipeline.LeadNew), leadItem("l2", pipeline.LeadContacted)},
		nil,
	)
	ctx := context.Background()

	require.NoError(t, f.coordinator.StartDrag("l1"))
	require.ErrorIs(t, f.coordinator.StartDrag("l2"), pipeline.ErrDragInProgress)

	// The first gesture completes with its own origin intact.
	require.NoError(t, f.coordinator.Drop(ctx, "leads-qualified", 0))
	f.wait()

	require.Equal(t, []sinkCall{{id: "l1", status: pipeline.LeadQualified}}, f.leadSink.Calls())
	got, _ := f.leads.Get("l2")
	require.Equal(t, pipeline.LeadContacted, got.Status)
}

func TestCoordinator_DropAfterItemRemovedIsNoOp(t *testing.T) {
	f := newFixture(t, []pipeline.Item{leadItem("l1", pipeline.LeadNew)}, nil)
	ctx := context.Background()

	require.NoError(t, f.coordinator.StartDrag("l1"))

	// The item is deleted while the drag is in flight; a board refresh
	// drops it from the view before the gesture completes.
	require.NoError(t, f.leads.Replace(nil))

	require.NoError(t, f.coordinator.Drop(ctx, "leads-contacted", 0))
	f.wait()

	require.Empty(t, f.leadSink.Calls())
	require.False(t, f.coordinator.Dragging())
}

func TestCoordinator_DropWithoutActiveDrag(t *testing.T) {
	f := newFixture(t, []pipeline.Item{leadItem("l1", pipeline.LeadNew)}, nil)
	require.NoError(t, f.coordinator.Drop(context.Background(), "leads-qualified", 0))
	f.wait()
	require.Empty(t, f.leadSink.Calls())
}

func TestCoordinator_CancelDrag(t *testing.T) {
	f := newFixture(t, []pipeline.Item{leadItem("l1", pipeline.LeadNew)}, nil)

	require.NoError(t, f.coordinator.StartDrag("l1"))
	f.coordinator.CancelDrag()
	require.False(t, f.coordinator.Dragging())

	// Cancelling twice is harmless.
	f.coordinator.CancelDrag()
}

// The worked example from the product brief: lead L1 moves from "new" to
// "qualified"; on persistence failure it snaps back and the user is told
// exactly once.
func TestCoordinator_LeadDragFailureSnapsBack(t *testing.T) {
	f := newFixture(t, []pipeline.Item{leadItem("L1", pipeline.LeadNew)}, nil)
	f.leadSink.errs = map[string]error{string(pipeline.LeadQualified): errors.New("persist failed")}
	ctx := context.Background()

	require.NoError(t, f.coordinator.StartDrag("L1"))
	require.NoError(t, f.coordinator.Drop(ctx, "leads-qualified", 0))

	got, _ := f.leads.Get("L1")
	require.Equal(t, pipeline.LeadQualified, got.Status)

	f.wait()
	got, _ = f.leads.Get("L1")
	require.Equal(t, pipeline.LeadNew, got.Status)
	require.Len(t, f.notifications.Drain(), 1)
}
