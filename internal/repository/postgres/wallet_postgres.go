package postgres

import (
	"context"
	"database/sql"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// WalletPostgres is a PostgreSQL implementation of repository.WalletRepository.
type WalletPostgres struct {
	db *sql.DB
}

func NewWalletPostgres(db *sql.DB) *WalletPostgres {
	return &WalletPostgres{db: db}
}

var _ repository.WalletRepository = (*WalletPostgres)(nil)

const walletColumns = `id, user_id, balance, currency, is_active, created_at, updated_at`

func scanWallet(row interface{ Scan(...any) error }) (*model.Wallet, error) {
	var w model.Wallet
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Balance,
		&w.Currency,
		&w.IsActive,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletPostgres) Create(ctx context.Context, w *model.Wallet) (*model.Wallet, error) {
	const q = `
		INSERT INTO wallets (user_id, balance, currency, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + walletColumns
	return scanWallet(r.db.QueryRowContext(ctx, q, w.UserID, w.Balance, w.Currency, w.IsActive))
}

func (r *WalletPostgres) FindByID(ctx context.Context, id string) (*model.Wallet, error) {
	const q = `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return scanWallet(r.db.QueryRowContext(ctx, q, id))
}

func (r *WalletPostgres) FindByUserID(ctx context.Context, userID string) (*model.Wallet, error) {
	const q = `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	return scanWallet(r.db.QueryRowContext(ctx, q, userID))
}

func (r *WalletPostgres) SetActive(ctx context.Context, id string, active bool) error {
	const q = `UPDATE wallets SET is_active = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, active)
	return err
}

const txnColumns = `id, wallet_id, txn_type, amount, balance_after, description, reference, status, created_at`

func scanTxn(row interface{ Scan(...any) error }) (*model.WalletTransaction, error) {
	var t model.WalletTransaction
	err := row.Scan(
		&t.ID,
		&t.WalletID,
		&t.Type,
		&t.Amount,
		&t.BalanceAfter,
		&t.Description,
		&t.Reference,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// applyTxn moves the balance by txn.Amount and writes the ledger row, both
// inside the given querier. The conditional update keeps the balance
// non-negative; sql.ErrNoRows surfaces when funds are insufficient.
func applyTxn(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, txn *model.WalletTransaction) (*model.WalletTransaction, error) {
	const update = `
		UPDATE wallets
		SET balance = balance + $2, updated_at = now()
		WHERE id = $1 AND is_active AND balance + $2 >= 0
		RETURNING balance
	`
	var balance string
	if err := q.QueryRowContext(ctx, update, txn.WalletID, txn.Amount).Scan(&balance); err != nil {
		return nil, err
	}

	const insert = `
		INSERT INTO wallet_transactions (wallet_id, txn_type, amount, balance_after, description, reference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + txnColumns
	return scanTxn(q.QueryRowContext(ctx, insert,
		txn.WalletID, txn.Type, txn.Amount, balance, txn.Description, txn.Reference, txn.Status))
}

// ApplyTransaction atomically moves the balance and records the ledger row.
func (r *WalletPostgres) ApplyTransaction(ctx context.Context, txn *model.WalletTransaction) (*model.WalletTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out, err := applyTxn(ctx, tx, txn)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer applies the debit and the credit in a single transaction so a
// failed credit rolls the debit back.
func (r *WalletPostgres) Transfer(ctx context.Context, debit, credit *model.WalletTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := applyTxn(ctx, tx, debit); err != nil {
		return err
	}
	if _, err := applyTxn(ctx, tx, credit); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *WalletPostgres) ListTransactions(ctx context.Context, walletID string, pq repository.PageQuery) (*repository.PageResult[model.WalletTransaction], error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = $1`, walletID).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txnColumns+` FROM wallet_transactions WHERE wallet_id = $1
			ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		walletID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WalletTransaction, 0)
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.WalletTransaction]{Items: items, Total: total}, nil
}
