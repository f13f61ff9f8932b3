package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Create(ctx context.Context, p *model.InsuranceProvider) (*model.InsuranceProvider, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsuranceProvider), args.Error(1)
}

func (m *MockProviderRepository) FindByID(ctx context.Context, id string) (*model.InsuranceProvider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsuranceProvider), args.Error(1)
}

func (m *MockProviderRepository) FindByCode(ctx context.Context, code string) (*model.InsuranceProvider, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsuranceProvider), args.Error(1)
}

func (m *MockProviderRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.InsuranceProvider], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.InsuranceProvider]), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, p *model.InsuranceProvider) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProviderRepository) Trash(ctx context.Context, id string, tr model.Trashable) error {
	args := m.Called(ctx, id, tr)
	return args.Error(0)
}

func (m *MockProviderRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProviderRepository) Purge(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *model.ProductCategory) (*model.ProductCategory, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id string) (*model.ProductCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductCategory), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, includeInactive bool) ([]model.ProductCategory, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductCategory), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *model.ProductCategory) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.InsuranceProduct) (*model.InsuranceProduct, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsuranceProduct), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*model.InsuranceProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsuranceProduct), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*model.InsuranceProduct, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InsuranceProduct), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, f repository.ProductFilter, pq repository.PageQuery) (*repository.PageResult[model.InsuranceProduct], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.InsuranceProduct]), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.InsuranceProduct) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Trash(ctx context.Context, id string, tr model.Trashable) error {
	args := m.Called(ctx, id, tr)
	return args.Error(0)
}

func (m *MockProductRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Purge(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, f repository.LeadFilter, pq repository.PageQuery) (*repository.PageResult[model.Lead], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Lead]), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, l *model.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepository) Trash(ctx context.Context, id string, tr model.Trashable) error {
	args := m.Called(ctx, id, tr)
	return args.Error(0)
}

func (m *MockLeadRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) Purge(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
