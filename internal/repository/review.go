package repository

import (
	"context"

	"ifinsure/internal/model"
)

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	UserID string
	Status string
}

// ReviewRepository defines data access for user reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *model.UserReview) (*model.UserReview, error)
	FindByID(ctx context.Context, id string) (*model.UserReview, error)
	List(ctx context.Context, f ReviewFilter, pq PageQuery) (*PageResult[model.UserReview], error)
	Update(ctx context.Context, r *model.UserReview) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error

	// ListPublished returns approved, active, untrashed reviews.
	ListPublished(ctx context.Context, limit int) ([]model.UserReview, error)
}
