package repository

import (
	"context"
	"time"

	"ifinsure/internal/model"
)

// PolicyFilter narrows policy listings.
type PolicyFilter struct {
	CustomerID string
	AgentID    string
	ProductID  string
	Status     string
}

// PolicyRepository defines data access for policies.
type PolicyRepository interface {
	Create(ctx context.Context, p *model.Policy) (*model.Policy, error)
	FindByID(ctx context.Context, id string) (*model.Policy, error)
	FindByNumber(ctx context.Context, number string) (*model.Policy, error)
	List(ctx context.Context, f PolicyFilter, pq PageQuery) (*PageResult[model.Policy], error)
	Update(ctx context.Context, p *model.Policy) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error

	// NextSequence returns the next ordinal for numbers sharing prefix.
	NextSequence(ctx context.Context, prefix string) (int, error)

	// ListExpiring returns active policies ending within the window.
	ListExpiring(ctx context.Context, from, to time.Time) ([]model.Policy, error)

	// MarkExpired flips active policies past their end date to expired
	// and returns the affected ids.
	MarkExpired(ctx context.Context, now time.Time) ([]string, error)

	// CountByStatus returns policy counts keyed by status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	ApplicantID     string
	AssignedAgentID string
	Status          string
	PaymentStatus   string
}

// ApplicationRepository defines data access for policy applications.
type ApplicationRepository interface {
	Create(ctx context.Context, a *model.PolicyApplication) (*model.PolicyApplication, error)
	FindByID(ctx context.Context, id string) (*model.PolicyApplication, error)
	FindByNumber(ctx context.Context, number string) (*model.PolicyApplication, error)
	List(ctx context.Context, f ApplicationFilter, pq PageQuery) (*PageResult[model.PolicyApplication], error)
	Update(ctx context.Context, a *model.PolicyApplication) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
	NextSequence(ctx context.Context, prefix string) (int, error)
}

// PolicyDocumentRepository defines data access for policy documents.
type PolicyDocumentRepository interface {
	Create(ctx context.Context, d *model.PolicyDocument) (*model.PolicyDocument, error)
	FindByID(ctx context.Context, id string) (*model.PolicyDocument, error)
	ListByPolicy(ctx context.Context, policyID string) ([]model.PolicyDocument, error)
	Delete(ctx context.Context, id string) error
}
