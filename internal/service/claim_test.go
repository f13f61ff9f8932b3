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

// fakeTicketCreator captures the tickets claim submission opens.
type fakeTicketCreator struct {
	inputs []CreateTicketInput
	ticket *model.Ticket
	err    error
}

func (f *fakeTicketCreator) CreateTicket(_ context.Context, in CreateTicketInput) (*model.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return f.ticket, nil
}

func TestCreateClaim(t *testing.T) {
	ctx := context.Background()
	policy := &model.Policy{
		ID:             "pol-1",
		StartDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		CoverageAmount: decimal.NewFromInt(500000),
	}

	newFixture := func() (*claimService, *repoMocks.MockClaimRepository, *repoMocks.MockPolicyRepository) {
		claims := &repoMocks.MockClaimRepository{}
		policies := &repoMocks.MockPolicyRepository{}
		svc := NewClaimService(claims, nil, nil, policies, nil, nil, quietNotifier(), &mockTrashRecorder{}, nil).(*claimService)
		svc.now = fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
		return svc, claims, policies
	}

	t.Run("numbers monthly and derives priority", func(t *testing.T) {
		svc, claims, policies := newFixture()
		policies.On("FindByID", ctx, "pol-1").Return(policy, nil)
		claims.On("NextSequence", ctx, "CLM-202603-").Return(3, nil)
		claims.On("Create", ctx, mock.Anything).Return(&model.Claim{ID: "clm-1"}, nil)

		_, err := svc.CreateClaim(ctx, CreateClaimInput{
			PolicyID:            "pol-1",
			ClaimantID:          "cust-1",
			IncidentDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			IncidentDescription: "rear-end collision",
			ClaimedAmount:       decimal.NewFromInt(120000),
		})
		require.NoError(t, err)

		passed := claims.Calls[1].Arguments.Get(1).(*model.Claim)
		assert.Equal(t, "CLM-202603-00003", passed.ClaimNumber)
		assert.Equal(t, model.ClaimDraft, passed.Status)
		assert.Equal(t, model.PriorityHigh, passed.Priority)
	})

	t.Run("incident outside policy term", func(t *testing.T) {
		svc, _, policies := newFixture()
		policies.On("FindByID", ctx, "pol-1").Return(policy, nil)

		_, err := svc.CreateClaim(ctx, CreateClaimInput{
			PolicyID:            "pol-1",
			ClaimantID:          "cust-1",
			IncidentDate:        time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			IncidentDescription: "burst pipe",
			ClaimedAmount:       decimal.NewFromInt(10000),
		})
		assert.ErrorIs(t, err, ErrPolicyNotCovering)
	})

	t.Run("claimed amount above coverage", func(t *testing.T) {
		svc, _, policies := newFixture()
		policies.On("FindByID", ctx, "pol-1").Return(policy, nil)

		_, err := svc.CreateClaim(ctx, CreateClaimInput{
			PolicyID:            "pol-1",
			ClaimantID:          "cust-1",
			IncidentDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			IncidentDescription: "total loss",
			ClaimedAmount:       decimal.NewFromInt(900000),
		})
		assert.ErrorIs(t, err, ErrCoverageExceeded)
	})
}

func TestSubmitClaim_OpensWorkflowTicket(t *testing.T) {
	ctx := context.Background()
	adjuster := "agent-7"
	claims := &repoMocks.MockClaimRepository{}
	workflow := &fakeTicketCreator{ticket: &model.Ticket{ID: "tkt-1", AssignedToID: &adjuster}}
	svc := NewClaimService(claims, nil, nil, nil, workflow, nil, quietNotifier(), &mockTrashRecorder{}, nil).(*claimService)
	svc.now = fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	claim := &model.Claim{
		ID:            "clm-1",
		ClaimNumber:   "CLM-202603-00003",
		ClaimantID:    "cust-1",
		Status:        model.ClaimDraft,
		ClaimedAmount: decimal.NewFromInt(120000),
	}
	claims.On("FindByID", ctx, "clm-1").Return(claim, nil)
	claims.On("Update", ctx, mock.Anything).Return(nil)

	submitted, err := svc.SubmitClaim(ctx, "clm-1")
	require.NoError(t, err)

	// Auto-assignment succeeded, so the claim moves straight to review.
	assert.Equal(t, model.ClaimUnderReview, submitted.Status)
	require.NotNil(t, submitted.AssignedAdjusterID)
	assert.Equal(t, adjuster, *submitted.AssignedAdjusterID)

	require.Len(t, workflow.inputs, 1)
	assert.Equal(t, model.TicketTypeClaim, workflow.inputs[0].TicketType)
	assert.Equal(t, model.EntityClaim, workflow.inputs[0].EntityType)
	assert.True(t, workflow.inputs[0].AutoAssign)
}

func TestApproveClaim(t *testing.T) {
	ctx := context.Background()

	newFixture := func(claim *model.Claim) (*claimService, *repoMocks.MockClaimRepository) {
		claims := &repoMocks.MockClaimRepository{}
		svc := NewClaimService(claims, nil, nil, nil, nil, nil, quietNotifier(), &mockTrashRecorder{}, nil).(*claimService)
		svc.now = fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
		claims.On("FindByID", ctx, claim.ID).Return(claim, nil)
		claims.On("Update", ctx, mock.Anything).Return(nil).Maybe()
		return svc, claims
	}

	t.Run("full approval", func(t *testing.T) {
		svc, _ := newFixture(&model.Claim{ID: "clm-1", Status: model.ClaimUnderReview, ClaimedAmount: decimal.NewFromInt(100000)})
		approved, err := svc.ApproveClaim(ctx, "clm-1", "agent-1", decimal.NewFromInt(100000))
		require.NoError(t, err)
		assert.Equal(t, model.ClaimApproved, approved.Status)
	})

	t.Run("partial approval", func(t *testing.T) {
		svc, _ := newFixture(&model.Claim{ID: "clm-2", Status: model.ClaimInvestigating, ClaimedAmount: decimal.NewFromInt(100000)})
		approved, err := svc.ApproveClaim(ctx, "clm-2", "agent-1", decimal.NewFromInt(60000))
		require.NoError(t, err)
		assert.Equal(t, model.ClaimPartiallyApproved, approved.Status)
	})

	t.Run("exceeding claimed amount", func(t *testing.T) {
		svc, _ := newFixture(&model.Claim{ID: "clm-3", Status: model.ClaimUnderReview, ClaimedAmount: decimal.NewFromInt(100000)})
		_, err := svc.ApproveClaim(ctx, "clm-3", "agent-1", decimal.NewFromInt(150000))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("settled claim", func(t *testing.T) {
		svc, _ := newFixture(&model.Claim{ID: "clm-4", Status: model.ClaimPaid, ClaimedAmount: decimal.NewFromInt(100000)})
		_, err := svc.ApproveClaim(ctx, "clm-4", "agent-1", decimal.NewFromInt(100000))
		assert.ErrorIs(t, err, ErrClaimSettled)
	})
}

func TestPayClaim_CreditsClaimantWallet(t *testing.T) {
	ctx := context.Background()
	amount := decimal.NewFromInt(60000)
	claims := &repoMocks.MockClaimRepository{}
	wallet := &mockWalletSvc{}
	svc := NewClaimService(claims, nil, nil, nil, nil, wallet, quietNotifier(), &mockTrashRecorder{}, nil).(*claimService)
	svc.now = fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	claim := &model.Claim{
		ID:             "clm-1",
		ClaimNumber:    "CLM-202603-00003",
		ClaimantID:     "cust-1",
		Status:         model.ClaimApproved,
		ClaimedAmount:  amount,
		ApprovedAmount: &amount,
	}
	claims.On("FindByID", ctx, "clm-1").Return(claim, nil)
	claims.On("Update", ctx, mock.Anything).Return(nil)
	wallet.On("GetByUser", ctx, "cust-1").Return(&model.Wallet{ID: "wal-1", UserID: "cust-1"}, nil)
	wallet.On("Credit", ctx, "wal-1", amount, model.TxnClaimPayout, mock.Anything, "CLM-202603-00003").
		Return(&model.WalletTransaction{ID: "txn-1"}, nil)

	paid, err := svc.PayClaim(ctx, "clm-1")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimPaid, paid.Status)
	wallet.AssertExpectations(t)
}
