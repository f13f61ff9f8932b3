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

func activeWallet(id string) *model.Wallet {
	return &model.Wallet{ID: id, UserID: "u-" + id, Balance: decimal.NewFromInt(1000), Currency: model.CurrencyKES, IsActive: true}
}

func TestWalletService_Deposit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		amount     decimal.Decimal
		setupMocks func(m *repoMocks.MockWalletRepository)
		wantErr    error
	}{
		{
			name:   "happy path",
			amount: decimal.NewFromInt(500),
			setupMocks: func(m *repoMocks.MockWalletRepository) {
				m.On("FindByID", ctx, "w1").Return(activeWallet("w1"), nil)
				m.On("ApplyTransaction", ctx, mock.MatchedBy(func(txn *model.WalletTransaction) bool {
					return txn.Type == model.TxnDeposit &&
						txn.Amount.Equal(decimal.NewFromInt(500)) &&
						txn.Status == model.TxnStatusCompleted &&
						txn.Reference != ""
				})).Return(&model.WalletTransaction{ID: "t1", BalanceAfter: decimal.NewFromInt(1500)}, nil)
			},
		},
		{
			name:       "zero amount",
			amount:     decimal.Zero,
			setupMocks: func(m *repoMocks.MockWalletRepository) {},
			wantErr:    ErrInvalidAmount,
		},
		{
			name:       "negative amount",
			amount:     decimal.NewFromInt(-500),
			setupMocks: func(m *repoMocks.MockWalletRepository) {},
			wantErr:    ErrInvalidAmount,
		},
		{
			name:   "inactive wallet",
			amount: decimal.NewFromInt(10),
			setupMocks: func(m *repoMocks.MockWalletRepository) {
				w := activeWallet("w1")
				w.IsActive = false
				m.On("FindByID", ctx, "w1").Return(w, nil)
			},
			wantErr: ErrWalletInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &repoMocks.MockWalletRepository{}
			tt.setupMocks(repo)
			svc := NewWalletService(repo)

			txn, err := svc.Deposit(ctx, "w1", tt.amount, "top up")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, txn)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, txn)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestWalletService_Withdraw_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	repo := &repoMocks.MockWalletRepository{}
	repo.On("FindByID", ctx, "w1").Return(activeWallet("w1"), nil)
	repo.On("ApplyTransaction", ctx, mock.MatchedBy(func(txn *model.WalletTransaction) bool {
		return txn.Amount.Equal(decimal.NewFromInt(-5000)) && txn.Type == model.TxnWithdrawal
	})).Return(nil, sql.ErrNoRows)

	svc := NewWalletService(repo)
	_, err := svc.Withdraw(ctx, "w1", decimal.NewFromInt(5000), "cash out")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

// A negative amount must be rejected before the sign flip, otherwise
// Withdraw(-100) would credit the wallet under a withdrawal ledger row.
func TestWalletService_NegativeAmountRejected(t *testing.T) {
	ctx := context.Background()
	neg := decimal.NewFromInt(-100)

	repo := &repoMocks.MockWalletRepository{}
	svc := NewWalletService(repo)

	_, err := svc.Withdraw(ctx, "w1", neg, "cash out")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Deposit(ctx, "w1", neg, "top up")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Pay(ctx, "w1", neg, model.TxnPremiumPayment, "premium", "INV-202608-00001")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Credit(ctx, "w1", neg, model.TxnRefund, "refund", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.ErrorIs(t, svc.Transfer(ctx, "w1", "w2", neg, "x"), ErrInvalidAmount)

	// No movement may reach the repository.
	repo.AssertNotCalled(t, "ApplyTransaction", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func TestWalletService_Pay_DebitsSignedAmount(t *testing.T) {
	ctx := context.Background()
	repo := &repoMocks.MockWalletRepository{}
	repo.On("FindByID", ctx, "w1").Return(activeWallet("w1"), nil)
	repo.On("ApplyTransaction", ctx, mock.MatchedBy(func(txn *model.WalletTransaction) bool {
		return txn.Type == model.TxnPremiumPayment &&
			txn.Amount.Equal(decimal.NewFromInt(-250)) &&
			txn.Reference == "INV-202608-00001"
	})).Return(&model.WalletTransaction{ID: "t1"}, nil)

	svc := NewWalletService(repo)
	txn, err := svc.Pay(ctx, "w1", decimal.NewFromInt(250), model.TxnPremiumPayment, "premium", "INV-202608-00001")
	assert.NoError(t, err)
	assert.NotNil(t, txn)
	repo.AssertExpectations(t)
}

func TestWalletService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("same wallet rejected", func(t *testing.T) {
		svc := NewWalletService(&repoMocks.MockWalletRepository{})
		err := svc.Transfer(ctx, "w1", "w1", decimal.NewFromInt(10), "x")
		assert.ErrorIs(t, err, ErrSameWallet)
	})

	t.Run("currency mismatch rejected", func(t *testing.T) {
		repo := &repoMocks.MockWalletRepository{}
		from := activeWallet("w1")
		to := activeWallet("w2")
		to.Currency = model.CurrencyUSD
		repo.On("FindByID", ctx, "w1").Return(from, nil)
		repo.On("FindByID", ctx, "w2").Return(to, nil)

		svc := NewWalletService(repo)
		err := svc.Transfer(ctx, "w1", "w2", decimal.NewFromInt(10), "x")
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("debit and credit share a reference", func(t *testing.T) {
		repo := &repoMocks.MockWalletRepository{}
		repo.On("FindByID", ctx, "w1").Return(activeWallet("w1"), nil)
		repo.On("FindByID", ctx, "w2").Return(activeWallet("w2"), nil)
		repo.On("Transfer", ctx,
			mock.MatchedBy(func(d *model.WalletTransaction) bool {
				return d.WalletID == "w1" && d.Type == model.TxnTransferOut && d.Amount.Equal(decimal.NewFromInt(-100))
			}),
			mock.MatchedBy(func(c *model.WalletTransaction) bool {
				return c.WalletID == "w2" && c.Type == model.TxnTransferIn && c.Amount.Equal(decimal.NewFromInt(100))
			}),
		).Run(func(args mock.Arguments) {
			d := args.Get(1).(*model.WalletTransaction)
			c := args.Get(2).(*model.WalletTransaction)
			assert.Equal(t, d.Reference, c.Reference)
			assert.NotEmpty(t, d.Reference)
		}).Return(nil)

		svc := NewWalletService(repo)
		err := svc.Transfer(ctx, "w1", "w2", decimal.NewFromInt(100), "settlement")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
