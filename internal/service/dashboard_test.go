package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
	"ifinsure/internal/repository/mocks"
)

type dashboardFixture struct {
	users         *mocks.MockUserRepository
	tickets       *mocks.MockTicketRepository
	policies      *mocks.MockPolicyRepository
	claims        *mocks.MockClaimRepository
	invoices      *mocks.MockInvoiceRepository
	notifications *mocks.MockNotificationRepository
	wallets       *mocks.MockWalletRepository
	svc           DashboardService
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		users:         new(mocks.MockUserRepository),
		tickets:       new(mocks.MockTicketRepository),
		policies:      new(mocks.MockPolicyRepository),
		claims:        new(mocks.MockClaimRepository),
		invoices:      new(mocks.MockInvoiceRepository),
		notifications: new(mocks.MockNotificationRepository),
		wallets:       new(mocks.MockWalletRepository),
	}
	f.svc = NewDashboardService(f.users, f.tickets, f.policies, f.claims, f.invoices, f.notifications, f.wallets)
	return f
}

func TestDashboardSummary(t *testing.T) {
	t.Run("aggregates all counters", func(t *testing.T) {
		f := newDashboardFixture()
		f.users.On("CountByType", mock.Anything).
			Return(map[string]int{model.UserTypeCustomer: 120, model.UserTypeAgent: 8}, nil).Once()
		f.tickets.On("CountByStatus", mock.Anything).
			Return(map[string]int{model.TicketAssigned: 5}, nil).Once()
		f.policies.On("CountByStatus", mock.Anything).
			Return(map[string]int{model.PolicyActive: 74}, nil).Once()
		f.claims.On("CountByStatus", mock.Anything).
			Return(map[string]int{model.ClaimApproved: 3}, nil).Once()

		sum, err := f.svc.Summary(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 120, sum.UsersByType[model.UserTypeCustomer])
		assert.Equal(t, 5, sum.TicketsByStatus[model.TicketAssigned])
		assert.Equal(t, 74, sum.PoliciesByStatus[model.PolicyActive])
		assert.Equal(t, 3, sum.ClaimsByStatus[model.ClaimApproved])
		f.users.AssertExpectations(t)
	})

	t.Run("propagates counter errors", func(t *testing.T) {
		f := newDashboardFixture()
		f.users.On("CountByType", mock.Anything).
			Return(nil, errors.New("db down")).Once()

		sum, err := f.svc.Summary(context.Background())

		assert.Error(t, err)
		assert.Nil(t, sum)
	})
}

func TestCustomerOverview(t *testing.T) {
	t.Run("counts only the caller's records", func(t *testing.T) {
		f := newDashboardFixture()
		f.policies.On("List", mock.Anything,
			repository.PolicyFilter{CustomerID: "u1", Status: model.PolicyActive}, mock.Anything).
			Return(&repository.PageResult[model.Policy]{Total: 2}, nil).Once()
		f.claims.On("List", mock.Anything,
			repository.ClaimFilter{ClaimantID: "u1"}, mock.Anything).
			Return(&repository.PageResult[model.Claim]{Total: 1}, nil).Once()
		f.invoices.On("List", mock.Anything,
			repository.InvoiceFilter{CustomerID: "u1", Status: model.InvoicePending}, mock.Anything).
			Return(&repository.PageResult[model.Invoice]{Total: 3}, nil).Once()
		f.notifications.On("CountUnread", mock.Anything, "u1").Return(4, nil).Once()
		f.wallets.On("FindByUserID", mock.Anything, "u1").
			Return(&model.Wallet{ID: "w1", UserID: "u1", Balance: decimal.NewFromInt(500), Currency: "KES"}, nil).Once()

		ov, err := f.svc.CustomerOverview(context.Background(), "u1")

		assert.NoError(t, err)
		assert.Equal(t, 2, ov.ActivePolicies)
		assert.Equal(t, 1, ov.TotalClaims)
		assert.Equal(t, 3, ov.PendingInvoices)
		assert.Equal(t, 4, ov.UnreadNotifications)
		assert.True(t, ov.WalletBalance.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "KES", ov.WalletCurrency)
	})

	t.Run("missing wallet leaves a zero balance", func(t *testing.T) {
		f := newDashboardFixture()
		f.policies.On("List", mock.Anything, mock.Anything, mock.Anything).
			Return(&repository.PageResult[model.Policy]{}, nil).Once()
		f.claims.On("List", mock.Anything, mock.Anything, mock.Anything).
			Return(&repository.PageResult[model.Claim]{}, nil).Once()
		f.invoices.On("List", mock.Anything, mock.Anything, mock.Anything).
			Return(&repository.PageResult[model.Invoice]{}, nil).Once()
		f.notifications.On("CountUnread", mock.Anything, "u2").Return(0, nil).Once()
		f.wallets.On("FindByUserID", mock.Anything, "u2").
			Return(nil, errors.New("not found")).Once()

		ov, err := f.svc.CustomerOverview(context.Background(), "u2")

		assert.NoError(t, err)
		assert.True(t, ov.WalletBalance.IsZero())
	})

	t.Run("requires a user id", func(t *testing.T) {
		f := newDashboardFixture()

		_, err := f.svc.CustomerOverview(context.Background(), "")

		assert.ErrorIs(t, err, ErrIDRequired)
	})
}
