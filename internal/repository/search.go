package repository

import (
	"context"

	"ifinsure/internal/model"
)

// SearchRepository defines data access for the denormalized search index
// and query history.
type SearchRepository interface {
	// Upsert inserts or replaces the entry for (entity type, entity id).
	Upsert(ctx context.Context, e *model.SearchEntry) (*model.SearchEntry, error)
	DeleteEntity(ctx context.Context, entityType, entityID string) error

	// Query matches title, keywords and content case-insensitively,
	// ordered by weight then recency.
	Query(ctx context.Context, q string, limit int) ([]model.SearchEntry, error)

	RecordHistory(ctx context.Context, h *model.SearchHistory) error
	RecentQueries(ctx context.Context, userID string, limit int) ([]model.SearchHistory, error)
}
