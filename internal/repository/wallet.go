package repository

import (
	"context"

	"ifinsure/internal/model"
)

// WalletRepository defines data access for wallets and their ledger.
// Balance mutations are atomic: the balance update and the ledger row
// land in the same statement or transaction.
type WalletRepository interface {
	Create(ctx context.Context, w *model.Wallet) (*model.Wallet, error)
	FindByID(ctx context.Context, id string) (*model.Wallet, error)
	FindByUserID(ctx context.Context, userID string) (*model.Wallet, error)
	SetActive(ctx context.Context, id string, active bool) error

	// ApplyTransaction moves the balance by txn.Amount (signed) and
	// records the ledger row. The update is conditional on the balance
	// staying non-negative; sql.ErrNoRows signals insufficient funds.
	ApplyTransaction(ctx context.Context, txn *model.WalletTransaction) (*model.WalletTransaction, error)

	// Transfer applies a debit and a credit in one database transaction.
	Transfer(ctx context.Context, debit, credit *model.WalletTransaction) error

	ListTransactions(ctx context.Context, walletID string, pq PageQuery) (*PageResult[model.WalletTransaction], error)
}
