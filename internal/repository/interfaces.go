package repository

import (
	"context"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// SearchResult represents a full-text search hit across both collections
type SearchResult struct {
	Collection pipeline.Collection `json:"collection"`
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Snippet    string              `json:"snippet,omitempty"`
	Rank       float64             `json:"rank"`
}

// SearchRepository manages full-text search over leads and contacts
type SearchRepository interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
