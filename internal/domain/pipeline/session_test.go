package pipeline_test

import (
	"testing"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	var s pipeline.Session
	require.False(t, s.Active())

	require.NoError(t, s.Start("l1", pipeline.CollectionLeads, pipeline.LeadNew, 2))
	require.True(t, s.Active())

	id, ok := s.ItemID()
	require.True(t, ok)
	require.Equal(t, "l1", id)

	drop, err := s.End()
	require.NoError(t, err)
	require.Equal(t, "l1", drop.ItemID)
	require.Equal(t, pipeline.CollectionLeads, drop.OriginCollection)
	require.Equal(t, pipeline.LeadNew, drop.OriginStatus)
	require.Equal(t, 2, drop.OriginIndex)

	// Terminal states return to Idle with all fields cleared.
	require.False(t, s.Active())
	_, ok = s.ItemID()
	require.False(t, ok)
	col, idx := s.Hovering()
	require.Empty(t, col)
	require.Zero(t, idx)
}

func TestSession_SecondStartRejected(t *testing.T) {
	var s pipeline.Session
	require.NoError(t, s.Start("l1", pipeline.CollectionLeads, pipeline.LeadNew, 0))

	err := s.Start("l2", pipeline.CollectionLeads, pipeline.LeadContacted, 0)
	require.ErrorIs(t, err, pipeline.ErrDragInProgress)

	// The first gesture is untouched.
	drop, err := s.End()
	require.NoError(t, err)
	require.Equal(t, "l1", drop.ItemID)
	require.Equal(t, pipeline.LeadNew, drop.OriginStatus)
}

func TestSession_HoverAdvisoryOnly(t *testing.T) {
	var s pipeline.Session

	// Hover before a drag starts is ignored.
	s.Hover("leads-qualified", 3)
	col, _ := s.Hovering()
	require.Empty(t, col)

	require.NoError(t, s.Start("l1", pipeline.CollectionLeads, pipeline.LeadNew, 0))
	s.Hover("leads-qualified", 3)
	s.Hover("leads-lost", 0)
	col, idx := s.Hovering()
	require.Equal(t, "leads-lost", col)
	require.Equal(t, 0, idx)

	// Hover never changes the recorded origin.
	drop, err := s.End()
	require.NoError(t, err)
	require.Equal(t, pipeline.LeadNew, drop.OriginStatus)
}

func TestSession_EndWithoutDrag(t *testing.T) {
	var s pipeline.Session
	_, err := s.End()
	require.ErrorIs(t, err, pipeline.ErrNoActiveDrag)
}
