package repository

import (
	"context"
	"time"

	"ifinsure/internal/model"
)

// UserFilter narrows user listings.
type UserFilter struct {
	UserType   string
	Search     string
	ActiveOnly bool
}

// UserRepository defines data access for user accounts. SQL only, no
// business logic.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, f UserFilter, pq PageQuery) (*PageResult[model.User], error)
	Update(ctx context.Context, u *model.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool) error

	// CountByType returns user counts keyed by user type.
	CountByType(ctx context.Context) (map[string]int, error)
}

// ProfileRepository defines data access for the one-to-one user profile.
type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
}
