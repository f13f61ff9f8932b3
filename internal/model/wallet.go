package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supported wallet currencies.
const (
	CurrencyKES = "KES"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
)

// Wallet holds a user's balance. One wallet per user, created with the
// account. Balance mutations happen only through the wallet service so
// every movement leaves a ledger row.
type Wallet struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanDebit reports whether the balance covers the amount.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// Wallet transaction types.
const (
	TxnCredit         = "credit"
	TxnDebit          = "debit"
	TxnDeposit        = "deposit"
	TxnWithdrawal     = "withdrawal"
	TxnPayment        = "payment"
	TxnRefund         = "refund"
	TxnTransferIn     = "transfer_in"
	TxnTransferOut    = "transfer_out"
	TxnPremiumPayment = "premium_payment"
	TxnClaimPayout    = "claim_payout"
	TxnAdjustment     = "adjustment"
)

// Wallet transaction statuses.
const (
	TxnStatusPending   = "pending"
	TxnStatusCompleted = "completed"
	TxnStatusFailed    = "failed"
	TxnStatusReversed  = "reversed"
)

// WalletTransaction is an immutable ledger row. Amount is signed: credits
// positive, debits negative. BalanceAfter snapshots the balance so the
// ledger audits without replay.
type WalletTransaction struct {
	ID           string          `json:"id"`
	WalletID     string          `json:"wallet_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description,omitempty"`
	Reference    string          `json:"reference,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IsCredit reports a positive movement.
func (t *WalletTransaction) IsCredit() bool { return !t.Amount.IsNegative() }
