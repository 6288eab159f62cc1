package pipeline_test

import (
	"testing"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/stretchr/testify/require"
)

func leadItem(id string, status pipeline.Status) pipeline.Item {
	return pipeline.Item{ID: id, Collection: pipeline.CollectionLeads, Status: status, Title: "Lead " + id}
}

func TestBoard_ColumnsPartition(t *testing.T) {
	board := pipeline.NewBoard(pipeline.CollectionLeads)
	err := board.Replace([]pipeline.Item{
		leadItem("l1", pipeline.LeadNew),
		leadItem("l2", pipeline.LeadQualified),
		leadItem("l3", pipeline.LeadNew),
		leadItem("l4", pipeline.LeadLost),
	})
	require.NoError(t, err)

	cols := board.Columns()
	require.Len(t, cols, len(pipeline.Statuses(pipeline.CollectionLeads)))

	byStatus := map[pipeline.Status][]string{}
	total := 0
	for _, col := range cols {
		require.Equal(t, pipeline.ColumnID(pipeline.CollectionLeads, col.Status), col.ID)
		for _, item := range col.Items {
			require.Equal(t, col.Status, item.Status)
			byStatus[col.Status] = append(byStatus[col.Status], item.ID)
			total++
		}
	}
	// Every item in exactly one column, source order preserved within a column.
	require.Equal(t, 4, total)
	require.Equal(t, []string{"l1", "l3"}, byStatus[pipeline.LeadNew])
	require.Equal(t, []string{"l2"}, byStatus[pipeline.LeadQualified])
	require.Equal(t, []string{"l4"}, byStatus[pipeline.LeadLost])
}

func TestBoard_ReplaceRejectsWrongCollection(t *testing.T) {
	board := pipeline.NewBoard(pipeline.CollectionLeads)
	err := board.Replace([]pipeline.Item{
		{ID: "c1", Collection: pipeline.CollectionContacts, Status: pipeline.ContactProspect},
	})
	require.ErrorIs(t, err, pipeline.ErrUnknownCollection)
}

func TestBoard_ReplaceRejectsUnknownStatus(t *testing.T) {
	board := pipeline.NewBoard(pipeline.CollectionLeads)
	err := board.Replace([]pipeline.Item{
		{ID: "l1", Collection: pipeline.CollectionLeads, Status: "archived"},
	})
	require.ErrorIs(t, err, pipeline.ErrUnknownStatus)
}

func TestBoard_SetStatusTouchesOnlyStatus(t *testing.T) {
	board := pipeline.NewBoard(pipeline.CollectionLeads)
	item := leadItem("l1", pipeline.LeadNew)
	item.Detail = "Acme Corp"
	require.NoError(t, board.Replace([]pipeline.Item{item}))

	prev, ok := board.SetStatus("l1", pipeline.LeadQualified)
	require.True(t, ok)
	require.Equal(t, pipeline.LeadNew, prev)

	got, ok := board.Get("l1")
	require.True(t, ok)
	require.Equal(t, pipeline.LeadQualified, got.Status)
	require.Equal(t, "Acme Corp", got.Detail)
	require.Equal(t, "Lead l1", got.Title)
}

func TestBoard_SetStatusUnknownItem(t *testing.T) {
	board := pipeline.NewBoard(pipeline.CollectionLeads)
	_, ok := board.SetStatus("ghost", pipeline.LeadNew)
	require.False(t, ok)
}

func TestBoard_LocateIndexWithinColumn(t *testing.T) {
	board := pipeline.NewBoard(pipeline.CollectionLeads)
	require.NoError(t, board.Replace([]pipeline.Item{
		leadItem("l1", pipeline.LeadNew),
		leadItem("l2", pipeline.LeadContacted),
		leadItem("l3", pipeline.LeadNew),
	}))

	status, idx, ok := board.Locate("l3")
	require.True(t, ok)
	require.Equal(t, pipeline.LeadNew, status)
	require.Equal(t, 1, idx)

	status, idx, ok = board.Locate("l2")
	require.True(t, ok)
	require.Equal(t, pipeline.LeadContacted, status)
	require.Equal(t, 0, idx)

	_, _, ok = board.Locate("ghost")
	require.False(t, ok)
}
