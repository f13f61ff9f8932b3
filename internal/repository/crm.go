package repository

import (
	"context"

	"ifinsure/internal/model"
)

// ProviderRepository defines data access for insurance providers.
type ProviderRepository interface {
	Create(ctx context.Context, p *model.InsuranceProvider) (*model.InsuranceProvider, error)
	FindByID(ctx context.Context, id string) (*model.InsuranceProvider, error)
	FindByCode(ctx context.Context, code string) (*model.InsuranceProvider, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.InsuranceProvider], error)
	Update(ctx context.Context, p *model.InsuranceProvider) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}

// CategoryRepository defines data access for product categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.ProductCategory) (*model.ProductCategory, error)
	FindByID(ctx context.Context, id string) (*model.ProductCategory, error)
	List(ctx context.Context, includeInactive bool) ([]model.ProductCategory, error)
	Update(ctx context.Context, c *model.ProductCategory) error
	Delete(ctx context.Context, id string) error
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	ProviderID   string
	CategoryID   string
	FeaturedOnly bool
	ActiveOnly   bool
	Search       string
}

// ProductRepository defines data access for insurance products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.InsuranceProduct) (*model.InsuranceProduct, error)
	FindByID(ctx context.Context, id string) (*model.InsuranceProduct, error)
	FindByCode(ctx context.Context, code string) (*model.InsuranceProduct, error)
	List(ctx context.Context, f ProductFilter, pq PageQuery) (*PageResult[model.InsuranceProduct], error)
	Update(ctx context.Context, p *model.InsuranceProduct) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}

// LeadFilter narrows lead listings.
type LeadFilter struct {
	Status          string
	AssignedAgentID string
	Search          string
}

// LeadRepository defines data access for sales leads.
type LeadRepository interface {
	Create(ctx context.Context, l *model.Lead) (*model.Lead, error)
	FindByID(ctx context.Context, id string) (*model.Lead, error)
	List(ctx context.Context, f LeadFilter, pq PageQuery) (*PageResult[model.Lead], error)
	Update(ctx context.Context, l *model.Lead) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}
