package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/nvollmar/pipeboard/internal/repository"
)

// SearchRepository implements full-text search over leads and contacts
// using the SQLite FTS5 tables maintained by triggers.
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search queries both collections and merges results by rank.
// FTS5 rank is negative; lower values are better matches.
func (r *SearchRepository) Search(ctx context.Context, query string, limit int) ([]repository.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	ftsQuery := escapeFTSQuery(query)

	sqlQuery := `
		SELECT * FROM (
			SELECT 'leads' AS collection, l.id, l.name AS title,
			       snippet(leads_fts, -1, '[', ']', '...', 12) AS snip,
			       leads_fts.rank AS rank
			FROM leads_fts
			JOIN leads l ON l.rowid = leads_fts.rowid
			WHERE leads_fts MATCH ?
			UNION ALL
			SELECT 'contacts' AS collection, c.id, c.name AS title,
			       snippet(contacts_fts, -1, '[', ']', '...', 12) AS snip,
			       contacts_fts.rank AS rank
			FROM contacts_fts
			JOIN contacts c ON c.rowid = contacts_fts.rowid
			WHERE contacts_fts MATCH ?
		)
		ORDER BY rank
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, sqlQuery, ftsQuery, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer rows.Close()

	var results []repository.SearchResult
	for rows.Next() {
		var sr repository.SearchResult
		if err := rows.Scan(&sr.Collection, &sr.ID, &sr.Title, &sr.Snippet, &sr.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, sr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search rows: %w", err)
	}
	return results, nil
}

// escapeFTSQuery quotes each term so user input cannot inject FTS5
// query syntax. Terms are matched as prefixes.
func escapeFTSQuery(query string) string {
	terms := strings.Fields(query)
	escaped := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, `""`)
		escaped = append(escaped, `"`+term+`"*`)
	}
	return strings.Join(escaped, " ")
}
