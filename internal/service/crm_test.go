package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	repoMocks "ifinsure/internal/repository/mocks"
)

func newCRMFixture() (*crmService, *repoMocks.MockProviderRepository, *repoMocks.MockProductRepository, *repoMocks.MockLeadRepository, *mockTrashRecorder) {
	providers := &repoMocks.MockProviderRepository{}
	categories := &repoMocks.MockCategoryRepository{}
	products := &repoMocks.MockProductRepository{}
	leads := &repoMocks.MockLeadRepository{}
	trash := &mockTrashRecorder{}
	svc := NewCRMService(providers, categories, products, leads, trash).(*crmService)
	return svc, providers, products, leads, trash
}

func TestCreateProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and index refresh", func(t *testing.T) {
		svc, providers, _, _, _ := newCRMFixture()
		ix := &recordingIndexer{}
		svc.RegisterSearchIndexer(ix)

		providers.On("FindByCode", ctx, "JUB").Return(nil, sql.ErrNoRows)
		providers.On("Create", ctx, mock.Anything).Return(&model.InsuranceProvider{
			ID:   "prov-1",
			Name: "Jubilee",
			Code: "JUB",
		}, nil)

		created, err := svc.CreateProvider(ctx, &model.InsuranceProvider{Name: "Jubilee", Code: "JUB"})
		assert.NoError(t, err)
		assert.Equal(t, "prov-1", created.ID)
		if assert.Len(t, ix.indexed, 1) {
			assert.Equal(t, model.EntityProvider, ix.indexed[0].EntityType)
			assert.Equal(t, "Jubilee", ix.indexed[0].Title)
		}

		passed := providers.Calls[1].Arguments.Get(1).(*model.InsuranceProvider)
		assert.Equal(t, model.ProviderUnderwriter, passed.ProviderType)
		assert.Equal(t, "Kenya", passed.Country)
		assert.True(t, passed.IsActive)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc, providers, _, _, _ := newCRMFixture()
		providers.On("FindByCode", ctx, "JUB").Return(&model.InsuranceProvider{ID: "prov-1"}, nil)

		_, err := svc.CreateProvider(ctx, &model.InsuranceProvider{Name: "Jubilee", Code: "JUB"})
		assert.ErrorIs(t, err, ErrCodeTaken)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _, _, _ := newCRMFixture()
		_, err := svc.CreateProvider(ctx, &model.InsuranceProvider{Name: "Jubilee"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	product := &model.InsuranceProduct{
		ID:                     "prod-1",
		ProviderID:             "prov-1",
		BasePremium:            decimal.NewFromInt(5000),
		MinSumInsured:          decimal.NewFromInt(100000),
		ApplicationPaymentMode: model.PaymentModeConvenienceOnly,
		ConvenienceFee:         decimal.NewFromInt(250),
		ConvenienceFeeType:     model.FeeTypeFixed,
	}
	provider := &model.InsuranceProvider{
		ID:                    "prov-1",
		DefaultCommissionRate: decimal.NewFromInt(10),
	}

	t.Run("scales premium from minimum sum insured", func(t *testing.T) {
		svc, providers, products, _, _ := newCRMFixture()
		products.On("FindByID", ctx, "prod-1").Return(product, nil)
		providers.On("FindByID", ctx, "prov-1").Return(provider, nil)

		q, err := svc.Quote(ctx, "prod-1", decimal.NewFromInt(200000))
		assert.NoError(t, err)
		assert.True(t, q.Premium.Equal(decimal.NewFromInt(10000)), "premium %s", q.Premium)
		assert.True(t, q.UpfrontDue.Equal(decimal.NewFromInt(250)), "upfront %s", q.UpfrontDue)
		assert.True(t, q.CommissionRate.Equal(decimal.NewFromInt(10)))
	})

	t.Run("coverage below minimum", func(t *testing.T) {
		svc, _, products, _, _ := newCRMFixture()
		products.On("FindByID", ctx, "prod-1").Return(product, nil)

		_, err := svc.Quote(ctx, "prod-1", decimal.NewFromInt(50000))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestConvertLead(t *testing.T) {
	ctx := context.Background()

	t.Run("marks converted", func(t *testing.T) {
		svc, _, _, leads, _ := newCRMFixture()
		leads.On("FindByID", ctx, "lead-1").Return(&model.Lead{ID: "lead-1", Name: "Jane", Status: model.LeadContacted}, nil)
		leads.On("Update", ctx, mock.Anything).Return(nil)

		lead, err := svc.ConvertLead(ctx, "lead-1", "user-9")
		assert.NoError(t, err)
		assert.Equal(t, model.LeadConverted, lead.Status)
		if assert.NotNil(t, lead.ConvertedUserID) {
			assert.Equal(t, "user-9", *lead.ConvertedUserID)
		}
	})

	t.Run("already converted", func(t *testing.T) {
		svc, _, _, leads, _ := newCRMFixture()
		leads.On("FindByID", ctx, "lead-1").Return(&model.Lead{ID: "lead-1", Status: model.LeadConverted}, nil)

		_, err := svc.ConvertLead(ctx, "lead-1", "user-9")
		assert.ErrorIs(t, err, ErrLeadConverted)
	})
}

func TestTrashProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, products, _, trash := newCRMFixture()
	ix := &recordingIndexer{}
	svc.RegisterSearchIndexer(ix)

	products.On("FindByID", ctx, "prod-1").Return(&model.InsuranceProduct{ID: "prod-1", Name: "Motor Gold", Code: "MG"}, nil)
	products.On("Trash", ctx, "prod-1", mock.Anything).Return(nil)
	trash.On("Record", ctx, mock.MatchedBy(func(in RecordTrashInput) bool {
		return in.EntityType == model.EntityProduct && in.EntityID == "prod-1" && in.Title == "Motor Gold"
	})).Return(nil)

	assert.NoError(t, svc.TrashProduct(ctx, "prod-1", "adm", "discontinued"))
	assert.Equal(t, []string{model.EntityProduct + "/prod-1"}, ix.deindexed)
	trash.AssertExpectations(t)
	products.AssertExpectations(t)
}
