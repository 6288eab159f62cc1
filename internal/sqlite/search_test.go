package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

func TestSearchRepository_FindsAcrossCollections(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	leads := NewLeadRepository(db)
	contacts := NewContactRepository(db)
	search := NewSearchRepository(db)

	l := newLead("Ada Lovelace", pipeline.LeadNew)
	l.Company = "Analytical Engines"
	require.NoError(t, leads.Create(ctx, l))

	c := newContact("Charles Babbage", pipeline.ContactProspect)
	c.Company = "Analytical Engines"
	require.NoError(t, contacts.Create(ctx, c))

	results, err := search.Search(ctx, "analytical", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	seen := map[pipeline.Collection]bool{}
	for _, r := range results {
		seen[r.Collection] = true
	}
	require.True(t, seen[pipeline.CollectionLeads])
	require.True(t, seen[pipeline.CollectionContacts])
}

func TestSearchRepository_PrefixMatch(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	leads := NewLeadRepository(db)
	search := NewSearchRepository(db)

	require.NoError(t, leads.Create(ctx, newLead("Katherine Johnson", pipeline.LeadContacted)))

	results, err := search.Search(ctx, "kath", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Katherine Johnson", results[0].Title)
}

func TestSearchRepository_ReflectsUpdates(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	leads := NewLeadRepository(db)
	search := NewSearchRepository(db)

	l := newLead("Ada", pipeline.LeadNew)
	require.NoError(t, leads.Create(ctx, l))

	l.Company = "Babbage Works"
	require.NoError(t, leads.Update(ctx, l))

	results, err := search.Search(ctx, "babbage", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, l.ID, results[0].ID)

	require.NoError(t, leads.Delete(ctx, l.ID))
	results, err = search.Search(ctx, "babbage", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchRepository_EmptyQuery(t *testing.T) {
	db := NewTestDB(t)
	search := NewSearchRepository(db)

	results, err := search.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchRepository_QuotesSpecialSyntax(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	search := NewSearchRepository(db)

	_, err := search.Search(ctx, `"unbalanced AND (syntax`, 10)
	require.NoError(t, err)
}
