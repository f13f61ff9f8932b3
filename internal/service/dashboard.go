package service

import (
	"context"

	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// DashboardSummary aggregates the counters shown on the back-office
// landing screen.
type DashboardSummary struct {
	UsersByType      map[string]int `json:"users_by_type"`
	TicketsByStatus  map[string]int `json:"tickets_by_status"`
	PoliciesByStatus map[string]int `json:"policies_by_status"`
	ClaimsByStatus   map[string]int `json:"claims_by_status"`
}

// CustomerOverview is the customer-facing slice of the same screen:
// only the caller's own records are counted.
type CustomerOverview struct {
	ActivePolicies      int             `json:"active_policies"`
	TotalClaims         int             `json:"total_claims"`
	PendingInvoices     int             `json:"pending_invoices"`
	UnreadNotifications int             `json:"unread_notifications"`
	WalletBalance       decimal.Decimal `json:"wallet_balance"`
	WalletCurrency      string          `json:"wallet_currency"`
}

// DashboardService assembles cross-domain aggregates.
type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
	CustomerOverview(ctx context.Context, userID string) (*CustomerOverview, error)
}

type dashboardService struct {
	users         repository.UserRepository
	tickets       repository.TicketRepository
	policies      repository.PolicyRepository
	claims        repository.ClaimRepository
	invoices      repository.InvoiceRepository
	notifications repository.NotificationRepository
	wallets       repository.WalletRepository
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(
	users repository.UserRepository,
	tickets repository.TicketRepository,
	policies repository.PolicyRepository,
	claims repository.ClaimRepository,
	invoices repository.InvoiceRepository,
	notifications repository.NotificationRepository,
	wallets repository.WalletRepository,
) DashboardService {
	return &dashboardService{
		users:         users,
		tickets:       tickets,
		policies:      policies,
		claims:        claims,
		invoices:      invoices,
		notifications: notifications,
		wallets:       wallets,
	}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	users, err := s.users.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := s.policies.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := s.claims.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardSummary{
		UsersByType:      users,
		TicketsByStatus:  tickets,
		PoliciesByStatus: policies,
		ClaimsByStatus:   claims,
	}, nil
}

func (s *dashboardService) CustomerOverview(ctx context.Context, userID string) (*CustomerOverview, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}

	// Only the totals matter, so each list is capped at one row.
	one := repository.PageQuery{Limit: 1}

	policies, err := s.policies.List(ctx, repository.PolicyFilter{CustomerID: userID, Status: model.PolicyActive}, one)
	if err != nil {
		return nil, err
	}
	claims, err := s.claims.List(ctx, repository.ClaimFilter{ClaimantID: userID}, one)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.List(ctx, repository.InvoiceFilter{CustomerID: userID, Status: model.InvoicePending}, one)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &CustomerOverview{
		ActivePolicies:      policies.Total,
		TotalClaims:         claims.Total,
		PendingInvoices:     invoices.Total,
		UnreadNotifications: unread,
	}

	// A wallet always exists for provisioned accounts; tolerate its
	// absence for legacy rows.
	if w, err := s.wallets.FindByUserID(ctx, userID); err == nil {
		out.WalletBalance = w.Balance
		out.WalletCurrency = w.Currency
	}
	return out, nil
}
