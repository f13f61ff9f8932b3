package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	InvoiceDraft     = "draft"
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoicePartial   = "partial"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

// Invoice bills a customer, usually for a policy premium installment.
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    string          `json:"customer_id"`
	PolicyID      *string         `json:"policy_id,omitempty"`
	Status        string          `json:"status"`
	IssuedDate    time.Time       `json:"issued_date"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Description   string          `json:"description,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Trashable
}

// Balance is the amount still owed.
func (i *Invoice) Balance() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// IsOverdue ignores settled and cancelled invoices.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status == InvoicePaid || i.Status == InvoiceCancelled {
		return false
	}
	return i.DueDate.Before(truncateToDay(now))
}

// RecomputeStatus derives the status from payments and the due date.
// Cancelled invoices keep their status.
func (i *Invoice) RecomputeStatus(now time.Time) {
	if i.Status == InvoiceCancelled {
		return
	}
	switch {
	case i.PaidAmount.GreaterThanOrEqual(i.Amount):
		i.Status = InvoicePaid
	case i.PaidAmount.IsPositive():
		i.Status = InvoicePartial
	case i.IsOverdue(now):
		i.Status = InvoiceOverdue
	default:
		i.Status = InvoicePending
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Payment methods.
const (
	PaymentMethodMpesa    = "mpesa"
	PaymentMethodCard     = "card"
	PaymentMethodBank     = "bank_transfer"
	PaymentMethodCash     = "cash"
	PaymentMethodCheque   = "cheque"
	PaymentMethodWallet   = "wallet"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentReversed  = "reversed"
)

// Payment is money received against an invoice. TransactionID carries the
// external reference (an M-Pesa receipt, card gateway id, or wallet
// transaction reference).
type Payment struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	InvoiceID     string          `json:"invoice_id"`
	ReceivedByID  *string         `json:"received_by_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
