package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ifinsure/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func txnRow(txn *model.WalletTransaction, balanceAfter string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "wallet_id", "txn_type", "amount", "balance_after", "description", "reference", "status", "created_at",
	}).AddRow("t1", txn.WalletID, txn.Type, txn.Amount, balanceAfter, txn.Description, txn.Reference, txn.Status, time.Now())
}

func TestWalletPostgres_FindByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewWalletPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM wallets WHERE user_id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "currency", "is_active", "created_at", "updated_at"}).
			AddRow("w1", "u1", "150.50", "KES", true, time.Now(), time.Now()))

	w, err := repo.FindByUserID(context.Background(), "u1")

	assert.NoError(t, err)
	assert.Equal(t, "w1", w.ID)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("150.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletPostgres_ApplyTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewWalletPostgres(db)
	ctx := context.Background()

	txn := &model.WalletTransaction{
		WalletID:  "w1",
		Type:      model.TxnDeposit,
		Amount:    decimal.NewFromInt(100),
		Reference: "PAY-01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Status:    model.TxnStatusCompleted,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE wallets").
			WithArgs(txn.WalletID, txn.Amount).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("250"))
		mock.ExpectQuery("INSERT INTO wallet_transactions").
			WithArgs(txn.WalletID, txn.Type, txn.Amount, "250", txn.Description, txn.Reference, txn.Status).
			WillReturnRows(txnRow(txn, "250"))
		mock.ExpectCommit()

		out, err := repo.ApplyTransaction(ctx, txn)

		assert.NoError(t, err)
		assert.True(t, out.BalanceAfter.Equal(decimal.NewFromInt(250)))
	})

	t.Run("insufficient funds rolls back", func(t *testing.T) {
		// The guarded update matches no row when the debit would go negative.
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE wallets").
			WithArgs(txn.WalletID, txn.Amount).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		out, err := repo.ApplyTransaction(ctx, txn)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, out)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletPostgres_Transfer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewWalletPostgres(db)
	ctx := context.Background()

	debit := &model.WalletTransaction{
		WalletID: "w1",
		Type:     model.TxnTransferOut,
		Amount:   decimal.NewFromInt(-40),
		Status:   model.TxnStatusCompleted,
	}
	credit := &model.WalletTransaction{
		WalletID: "w2",
		Type:     model.TxnTransferIn,
		Amount:   decimal.NewFromInt(40),
		Status:   model.TxnStatusCompleted,
	}

	t.Run("both legs commit together", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE wallets").
			WithArgs(debit.WalletID, debit.Amount).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("60"))
		mock.ExpectQuery("INSERT INTO wallet_transactions").
			WithArgs(debit.WalletID, debit.Type, debit.Amount, "60", debit.Description, debit.Reference, debit.Status).
			WillReturnRows(txnRow(debit, "60"))
		mock.ExpectQuery("UPDATE wallets").
			WithArgs(credit.WalletID, credit.Amount).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("40"))
		mock.ExpectQuery("INSERT INTO wallet_transactions").
			WithArgs(credit.WalletID, credit.Type, credit.Amount, "40", credit.Description, credit.Reference, credit.Status).
			WillReturnRows(txnRow(credit, "40"))
		mock.ExpectCommit()

		assert.NoError(t, repo.Transfer(ctx, debit, credit))
	})

	t.Run("failed credit rolls the debit back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE wallets").
			WithArgs(debit.WalletID, debit.Amount).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("60"))
		mock.ExpectQuery("INSERT INTO wallet_transactions").
			WithArgs(debit.WalletID, debit.Type, debit.Amount, "60", debit.Description, debit.Reference, debit.Status).
			WillReturnRows(txnRow(debit, "60"))
		mock.ExpectQuery("UPDATE wallets").
			WithArgs(credit.WalletID, credit.Amount).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Transfer(ctx, debit, credit), sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
