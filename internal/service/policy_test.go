package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ifinsure/internal/model"
	repoMocks "ifinsure/internal/repository/mocks"
)

// fakeInvoiceIssuer captures the invoices approval raises.
type fakeInvoiceIssuer struct {
	inputs []CreateInvoiceInput
	err    error
}

func (f *fakeInvoiceIssuer) CreateInvoice(_ context.Context, in CreateInvoiceInput) (*model.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &model.Invoice{ID: "inv-1", Amount: in.Amount}, nil
}

func TestCreateApplication(t *testing.T) {
	ctx := context.Background()
	product := &model.InsuranceProduct{
		ID:                     "prod-1",
		BasePremium:            decimal.NewFromInt(5000),
		MinSumInsured:          decimal.NewFromInt(100000),
		DefaultDurationMonths:  12,
		ApplicationPaymentMode: model.PaymentModeConvenienceOnly,
		ConvenienceFee:         decimal.NewFromInt(250),
		ConvenienceFeeType:     model.FeeTypeFixed,
	}

	products := &repoMocks.MockProductRepository{}
	applications := &repoMocks.MockApplicationRepository{}
	svc := NewPolicyService(nil, applications, nil, products, nil, nil, quietNotifier(), nil, &mockTrashRecorder{}, nil).(*policyService)
	svc.now = fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	products.On("FindByID", ctx, "prod-1").Return(product, nil)
	applications.On("NextSequence", ctx, "APP-202603-").Return(7, nil)
	applications.On("Create", ctx, mock.Anything).Return(&model.PolicyApplication{ID: "app-1"}, nil)

	_, err := svc.CreateApplication(ctx, CreateApplicationInput{
		ApplicantID:       "cust-1",
		ProductID:         "prod-1",
		RequestedCoverage: decimal.NewFromInt(200000),
	})
	require.NoError(t, err)

	passed := applications.Calls[1].Arguments.Get(1).(*model.PolicyApplication)
	assert.Equal(t, "APP-202603-00007", passed.ApplicationNumber)
	assert.Equal(t, model.ApplicationDraft, passed.Status)
	assert.Equal(t, 12, passed.RequestedTermMonths)
	require.NotNil(t, passed.CalculatedPremium)
	assert.True(t, passed.CalculatedPremium.Equal(decimal.NewFromInt(10000)), "premium %s", passed.CalculatedPremium)
	assert.True(t, passed.TotalPaymentDue.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, model.AppPaymentPending, passed.PaymentStatus)
}

func TestApproveApplication(t *testing.T) {
	ctx := context.Background()
	premium := decimal.NewFromInt(12000)

	newFixture := func(app *model.PolicyApplication) (*policyService, *repoMocks.MockPolicyRepository, *repoMocks.MockApplicationRepository, *fakeInvoiceIssuer) {
		policies := &repoMocks.MockPolicyRepository{}
		applications := &repoMocks.MockApplicationRepository{}
		billing := &fakeInvoiceIssuer{}
		svc := NewPolicyService(policies, applications, nil, nil, nil, nil, quietNotifier(), billing, &mockTrashRecorder{}, nil).(*policyService)
		svc.now = fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
		applications.On("FindByID", ctx, app.ID).Return(app, nil)
		return svc, policies, applications, billing
	}

	t.Run("issues policy and first invoice", func(t *testing.T) {
		app := &model.PolicyApplication{
			ID:                  "app-1",
			ApplicationNumber:   "APP-202603-00007",
			ApplicantID:         "cust-1",
			ProductID:           "prod-1",
			Status:              model.ApplicationUnderReview,
			PaymentStatus:       model.AppPaymentPaid,
			CalculatedPremium:   &premium,
			RequestedCoverage:   decimal.NewFromInt(200000),
			RequestedTermMonths: 12,
		}
		svc, policies, applications, billing := newFixture(app)

		policies.On("NextSequence", ctx, "POL-202603-").Return(1, nil)
		policies.On("Create", ctx, mock.Anything).Return(&model.Policy{
			ID:            "pol-1",
			PolicyNumber:  "POL-202603-00001",
			CustomerID:    "cust-1",
			PremiumAmount: premium,
		}, nil)
		applications.On("Update", ctx, mock.Anything).Return(nil)

		approved, err := svc.ApproveApplication(ctx, "app-1", "agent-1")
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationApproved, approved.Status)
		require.NotNil(t, approved.PolicyID)
		assert.Equal(t, "pol-1", *approved.PolicyID)

		issued := policies.Calls[1].Arguments.Get(1).(*model.Policy)
		assert.Equal(t, "POL-202603-00001", issued.PolicyNumber)
		assert.Equal(t, model.PolicyActive, issued.Status)
		assert.Equal(t, time.Date(2027, 3, 10, 9, 0, 0, 0, time.UTC), issued.EndDate)

		require.Len(t, billing.inputs, 1)
		assert.True(t, billing.inputs[0].Amount.Equal(premium))
		assert.Equal(t, "pol-1", *billing.inputs[0].PolicyID)
	})

	t.Run("outstanding payment blocks approval", func(t *testing.T) {
		app := &model.PolicyApplication{
			ID:              "app-2",
			Status:          model.ApplicationSubmitted,
			PaymentStatus:   model.AppPaymentPending,
			TotalPaymentDue: decimal.NewFromInt(250),
		}
		svc, _, _, _ := newFixture(app)

		_, err := svc.ApproveApplication(ctx, "app-2", "agent-1")
		assert.ErrorIs(t, err, ErrPaymentOutstanding)
	})

	t.Run("draft cannot be approved", func(t *testing.T) {
		app := &model.PolicyApplication{ID: "app-3", Status: model.ApplicationDraft}
		svc, _, _, _ := newFixture(app)

		_, err := svc.ApproveApplication(ctx, "app-3", "agent-1")
		assert.ErrorIs(t, err, ErrNotSubmitted)
	})
}

func TestExpireDue(t *testing.T) {
	ctx := context.Background()
	policies := &repoMocks.MockPolicyRepository{}
	notifier := quietNotifier()
	svc := NewPolicyService(policies, nil, nil, nil, nil, nil, notifier, nil, &mockTrashRecorder{}, nil)

	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	policies.On("MarkExpired", ctx, now).Return([]string{"pol-1", "pol-2"}, nil)
	policies.On("FindByID", ctx, "pol-1").Return(&model.Policy{ID: "pol-1", CustomerID: "c1", PolicyNumber: "POL-1"}, nil)
	policies.On("FindByID", ctx, "pol-2").Return(&model.Policy{ID: "pol-2", CustomerID: "c2", PolicyNumber: "POL-2"}, nil)

	n, err := svc.ExpireDue(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}
