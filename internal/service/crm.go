package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

var ErrLeadConverted = errors.New("lead is already converted")

// QuoteResult is the premium quote for a product and coverage amount.
type QuoteResult struct {
	ProductID      string                            `json:"product_id"`
	Coverage       decimal.Decimal                   `json:"coverage"`
	Premium        decimal.Decimal                   `json:"premium"`
	UpfrontDue     decimal.Decimal                   `json:"upfront_due"`
	Breakdown      model.ApplicationPaymentBreakdown `json:"breakdown"`
	CommissionRate decimal.Decimal                   `json:"commission_rate"`
}

// ProviderListResult is the service-level DTO for a provider page.
type ProviderListResult struct {
	Items []model.InsuranceProvider `json:"data"`
	Total int                       `json:"total"`
}

// ProductListResult is the service-level DTO for a product page.
type ProductListResult struct {
	Items []model.InsuranceProduct `json:"data"`
	Total int                      `json:"total"`
}

// LeadListResult is the service-level DTO for a lead page.
type LeadListResult struct {
	Items []model.Lead `json:"data"`
	Total int          `json:"total"`
}

// CRMService covers providers, product catalog and the sales funnel.
type CRMService interface {
	CreateProvider(ctx context.Context, p *model.InsuranceProvider) (*model.InsuranceProvider, error)
	GetProvider(ctx context.Context, id string) (*model.InsuranceProvider, error)
	ListProviders(ctx context.Context, limit, offset int) (*ProviderListResult, error)
	UpdateProvider(ctx context.Context, p *model.InsuranceProvider) (*model.InsuranceProvider, error)
	TrashProvider(ctx context.Context, id, actorID, reason string) error

	CreateCategory(ctx context.Context, c *model.ProductCategory) (*model.ProductCategory, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]model.ProductCategory, error)
	UpdateCategory(ctx context.Context, c *model.ProductCategory) (*model.ProductCategory, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p *model.InsuranceProduct) (*model.InsuranceProduct, error)
	GetProduct(ctx context.Context, id string) (*model.InsuranceProduct, error)
	ListProducts(ctx context.Context, f repository.ProductFilter, limit, offset int) (*ProductListResult, error)
	UpdateProduct(ctx context.Context, p *model.InsuranceProduct) (*model.InsuranceProduct, error)
	TrashProduct(ctx context.Context, id, actorID, reason string) error

	// Quote prices a product for a coverage amount, including what is
	// payable upfront at application time.
	Quote(ctx context.Context, productID string, coverage decimal.Decimal) (*QuoteResult, error)

	CreateLead(ctx context.Context, l *model.Lead) (*model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, f repository.LeadFilter, limit, offset int) (*LeadListResult, error)
	UpdateLead(ctx context.Context, l *model.Lead) (*model.Lead, error)
	MarkLeadContacted(ctx context.Context, id, notes string) (*model.Lead, error)
	ConvertLead(ctx context.Context, id, userID string) (*model.Lead, error)
	TrashLead(ctx context.Context, id, actorID, reason string) error

	RegisterTrashHandlers(trash TrashService)
	RegisterSearchIndexer(ix Indexer)
}

type crmService struct {
	providers  repository.ProviderRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	leads      repository.LeadRepository
	trash      TrashRecorder
	search     Indexer
	now        func() time.Time
}

// NewCRMService constructs a new CRMService.
func NewCRMService(
	providers repository.ProviderRepository,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	leads repository.LeadRepository,
	trash TrashRecorder,
) CRMService {
	return &crmService{
		providers:  providers,
		categories: categories,
		products:   products,
		leads:      leads,
		trash:      trash,
		now:        time.Now,
	}
}

func (s *crmService) CreateProvider(ctx context.Context, p *model.InsuranceProvider) (*model.InsuranceProvider, error) {
	if p.Name == "" || p.Code == "" {
		return nil, fmt.Errorf("%w: name and code", ErrValidation)
	}
	if _, err := s.providers.FindByCode(ctx, p.Code); err == nil {
		return nil, ErrCodeTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if p.ProviderType == "" {
		p.ProviderType = model.ProviderUnderwriter
	}
	if p.Country == "" {
		p.Country = "Kenya"
	}
	p.IsActive = true
	created, err := s.providers.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.indexProvider(ctx, created)
	return created, nil
}

func (s *crmService) GetProvider(ctx context.Context, id string) (*model.InsuranceProvider, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.providers.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (s *crmService) ListProviders(ctx context.Context, limit, offset int) (*ProviderListResult, error) {
	res, err := s.providers.List(ctx, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &ProviderListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *crmService) UpdateProvider(ctx context.Context, p *model.InsuranceProvider) (*model.InsuranceProvider, error) {
	if _, err := s.GetProvider(ctx, p.ID); err != nil {
		return nil, err
	}
	if err := s.providers.Update(ctx, p); err != nil {
		return nil, err
	}
	s.indexProvider(ctx, p)
	return p, nil
}

func (s *crmService) TrashProvider(ctx context.Context, id, actorID, reason string) error {
	p, err := s.GetProvider(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.providers.Trash(ctx, id, tr); err != nil {
		return err
	}
	s.deindex(ctx, model.EntityProvider, id)
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityProvider,
		EntityID:   id,
		Title:      p.Name,
		Subtitle:   p.Code,
		Icon:       "shield",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   p,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *crmService) CreateCategory(ctx context.Context, c *model.ProductCategory) (*model.ProductCategory, error) {
	if c.Name == "" || c.Code == "" {
		return nil, fmt.Errorf("%w: name and code", ErrValidation)
	}
	c.IsActive = true
	return s.categories.Create(ctx, c)
}

func (s *crmService) ListCategories(ctx context.Context, includeInactive bool) ([]model.ProductCategory, error) {
	return s.categories.List(ctx, includeInactive)
}

func (s *crmService) UpdateCategory(ctx context.Context, c *model.ProductCategory) (*model.ProductCategory, error) {
	if c.ID == "" {
		return nil, ErrIDRequired
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (s *crmService) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.categories.Delete(ctx, id)
}

func (s *crmService) CreateProduct(ctx context.Context, p *model.InsuranceProduct) (*model.InsuranceProduct, error) {
	if p.Name == "" || p.Code == "" || p.ProviderID == "" {
		return nil, fmt.Errorf("%w: name, code and provider_id", ErrValidation)
	}
	if _, err := s.GetProvider(ctx, p.ProviderID); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByCode(ctx, p.Code); err == nil {
		return nil, ErrCodeTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if p.ApplicationPaymentMode == "" {
		p.ApplicationPaymentMode = model.PaymentModeConvenienceOnly
	}
	if p.ConvenienceFeeType == "" {
		p.ConvenienceFeeType = model.FeeTypeFixed
	}
	if p.CommissionType == "" {
		p.CommissionType = model.FeeTypePercentage
	}
	if p.DefaultDurationMonths <= 0 {
		p.DefaultDurationMonths = 12
	}
	p.IsActive = true
	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.indexProduct(ctx, created)
	return created, nil
}

func (s *crmService) GetProduct(ctx context.Context, id string) (*model.InsuranceProduct, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (s *crmService) ListProducts(ctx context.Context, f repository.ProductFilter, limit, offset int) (*ProductListResult, error) {
	res, err := s.products.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *crmService) UpdateProduct(ctx context.Context, p *model.InsuranceProduct) (*model.InsuranceProduct, error) {
	if _, err := s.GetProduct(ctx, p.ID); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.indexProduct(ctx, p)
	return p, nil
}

func (s *crmService) TrashProduct(ctx context.Context, id, actorID, reason string) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.products.Trash(ctx, id, tr); err != nil {
		return err
	}
	s.deindex(ctx, model.EntityProduct, id)
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityProduct,
		EntityID:   id,
		Title:      p.Name,
		Subtitle:   p.Code,
		Icon:       "package",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   p,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *crmService) Quote(ctx context.Context, productID string, coverage decimal.Decimal) (*QuoteResult, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if coverage.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if coverage.LessThan(product.MinSumInsured) {
		return nil, fmt.Errorf("%w: coverage below the product minimum", ErrValidation)
	}
	if product.MaxSumInsured != nil && coverage.GreaterThan(*product.MaxSumInsured) {
		return nil, fmt.Errorf("%w: coverage above the product maximum", ErrValidation)
	}

	provider, err := s.GetProvider(ctx, product.ProviderID)
	if err != nil {
		return nil, err
	}
	premium := product.CalculatePremium(coverage)
	due, breakdown := product.ApplicationPaymentAmount(premium)
	return &QuoteResult{
		ProductID:      product.ID,
		Coverage:       coverage,
		Premium:        premium,
		UpfrontDue:     due,
		Breakdown:      breakdown,
		CommissionRate: product.EffectiveCommissionRate(provider.DefaultCommissionRate),
	}, nil
}

func (s *crmService) CreateLead(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	if l.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrValidation)
	}
	if l.Email == "" && l.Phone == "" {
		return nil, fmt.Errorf("%w: email or phone", ErrValidation)
	}
	l.Status = model.LeadNew
	created, err := s.leads.Create(ctx, l)
	if err != nil {
		return nil, err
	}
	s.indexLead(ctx, created)
	return created, nil
}

func (s *crmService) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	l, err := s.leads.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return l, nil
}

func (s *crmService) ListLeads(ctx context.Context, f repository.LeadFilter, limit, offset int) (*LeadListResult, error) {
	res, err := s.leads.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &LeadListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *crmService) UpdateLead(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	current, err := s.GetLead(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if current.Status == model.LeadConverted {
		return nil, ErrLeadConverted
	}
	if err := s.leads.Update(ctx, l); err != nil {
		return nil, err
	}
	s.indexLead(ctx, l)
	return l, nil
}

func (s *crmService) MarkLeadContacted(ctx context.Context, id, notes string) (*model.Lead, error) {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == model.LeadConverted {
		return nil, ErrLeadConverted
	}
	now := s.now()
	lead.LastContactedAt = &now
	if lead.Status == model.LeadNew {
		lead.Status = model.LeadContacted
	}
	if notes != "" {
		lead.Notes = notes
	}
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *crmService) ConvertLead(ctx context.Context, id, userID string) (*model.Lead, error) {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == model.LeadConverted {
		return nil, ErrLeadConverted
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id", ErrValidation)
	}
	lead.Status = model.LeadConverted
	lead.ConvertedUserID = &userID
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *crmService) TrashLead(ctx context.Context, id, actorID, reason string) error {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.leads.Trash(ctx, id, tr); err != nil {
		return err
	}
	s.deindex(ctx, model.EntityLead, id)
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityLead,
		EntityID:   id,
		Title:      lead.Name,
		Subtitle:   lead.Status,
		Icon:       "user-plus",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   lead,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

// RegisterTrashHandlers wires restore and purge for the CRM entity types
// into the trash registry.
func (s *crmService) RegisterTrashHandlers(trash TrashService) {
	trash.RegisterHandler(model.EntityProvider, TrashHandler{
		Restore: s.providers.Restore,
		Purge:   s.providers.Purge,
	})
	trash.RegisterHandler(model.EntityProduct, TrashHandler{
		Restore: s.products.Restore,
		Purge:   s.products.Purge,
	})
	trash.RegisterHandler(model.EntityLead, TrashHandler{
		Restore: s.leads.Restore,
		Purge:   s.leads.Purge,
	})
}

// RegisterSearchIndexer wires the search index refresh hooks. Index
// maintenance is best effort: a failed refresh never fails the write
// that triggered it.
func (s *crmService) RegisterSearchIndexer(ix Indexer) {
	s.search = ix
}

func (s *crmService) indexProvider(ctx context.Context, p *model.InsuranceProvider) {
	if s.search == nil {
		return
	}
	_ = s.search.Index(ctx, IndexInput{
		EntityType: model.EntityProvider,
		EntityID:   p.ID,
		Title:      p.Name,
		Subtitle:   p.Code,
		Keywords:   p.Code + " " + p.Country,
		Icon:       "shield",
		URL:        "/api/v1/crm/providers/" + p.ID,
		Visibility: model.VisibilityInternal,
		Weight:     5,
	})
}

func (s *crmService) indexProduct(ctx context.Context, p *model.InsuranceProduct) {
	if s.search == nil {
		return
	}
	visibility := model.VisibilityInternal
	if p.IsActive {
		visibility = model.VisibilityPublic
	}
	_ = s.search.Index(ctx, IndexInput{
		EntityType: model.EntityProduct,
		EntityID:   p.ID,
		Title:      p.Name,
		Subtitle:   p.Code,
		Content:    p.Description,
		Keywords:   p.Code,
		Icon:       "package",
		URL:        "/api/v1/crm/products/" + p.ID,
		Visibility: visibility,
		Weight:     10,
	})
}

func (s *crmService) indexLead(ctx context.Context, l *model.Lead) {
	if s.search == nil {
		return
	}
	_ = s.search.Index(ctx, IndexInput{
		EntityType: model.EntityLead,
		EntityID:   l.ID,
		Title:      l.Name,
		Subtitle:   l.Status,
		Keywords:   l.Email + " " + l.Phone,
		Icon:       "user-plus",
		URL:        "/api/v1/crm/leads/" + l.ID,
		Visibility: model.VisibilityInternal,
		Weight:     3,
	})
}

func (s *crmService) deindex(ctx context.Context, entityType, entityID string) {
	if s.search == nil {
		return
	}
	_ = s.search.Deindex(ctx, entityType, entityID)
}
