package repository

import (
	"context"
	"time"

	"ifinsure/internal/model"
)

// TrashFilter narrows trash listings. A non-empty TrashedByID limits the
// view to one user's deletions.
type TrashFilter struct {
	EntityType  string
	TrashedByID string
}

// TrashRepository defines data access for the trash registry.
type TrashRepository interface {
	// Upsert inserts or replaces the registry row for the entity.
	Upsert(ctx context.Context, e *model.TrashEntry) (*model.TrashEntry, error)
	FindByEntity(ctx context.Context, entityType, entityID string) (*model.TrashEntry, error)
	List(ctx context.Context, f TrashFilter, pq PageQuery) (*PageResult[model.TrashEntry], error)
	Delete(ctx context.Context, entityType, entityID string) error
	ListExpired(ctx context.Context, now time.Time, limit int) ([]model.TrashEntry, error)
	Stats(ctx context.Context, f TrashFilter, now time.Time) (*model.TrashStats, error)
}
