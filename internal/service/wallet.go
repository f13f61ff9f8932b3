package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
	"ifinsure/internal/reference"
	"ifinsure/internal/repository"
)

var (
	ErrWalletInactive    = errors.New("wallet is not active")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSameWallet        = errors.New("cannot transfer to the same wallet")
	ErrCurrencyMismatch  = errors.New("wallet currencies differ")
)

// LedgerResult is the service-level DTO for a transaction page.
type LedgerResult struct {
	Items []model.WalletTransaction `json:"data"`
	Total int                       `json:"total"`
}

// WalletService owns all balance movements. Every mutation takes the
// atomic repository path, so a ledger row exists for each movement and
// the balance can never go negative.
type WalletService interface {
	Get(ctx context.Context, id string) (*model.Wallet, error)
	GetByUser(ctx context.Context, userID string) (*model.Wallet, error)
	SetActive(ctx context.Context, id string, active bool) error

	Deposit(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*model.WalletTransaction, error)
	Withdraw(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*model.WalletTransaction, error)

	// Pay debits the wallet for a named purpose, e.g. a premium or an
	// invoice, recording the external reference on the ledger row.
	Pay(ctx context.Context, walletID string, amount decimal.Decimal, txnType, description, ref string) (*model.WalletTransaction, error)
	Credit(ctx context.Context, walletID string, amount decimal.Decimal, txnType, description, ref string) (*model.WalletTransaction, error)
	Transfer(ctx context.Context, fromWalletID, toWalletID string, amount decimal.Decimal, description string) error

	Ledger(ctx context.Context, walletID string, limit, offset int) (*LedgerResult, error)
}

type walletService struct {
	wallets repository.WalletRepository
}

// NewWalletService constructs a new WalletService.
func NewWalletService(wallets repository.WalletRepository) WalletService {
	return &walletService{wallets: wallets}
}

func (s *walletService) Get(ctx context.Context, id string) (*model.Wallet, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	w, err := s.wallets.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return w, nil
}

func (s *walletService) GetByUser(ctx context.Context, userID string) (*model.Wallet, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	w, err := s.wallets.FindByUserID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return w, nil
}

func (s *walletService) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.wallets.SetActive(ctx, id, active)
}

func (s *walletService) Deposit(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*model.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.apply(ctx, walletID, amount, model.TxnDeposit, description, reference.WalletTxn())
}

func (s *walletService) Withdraw(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*model.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.apply(ctx, walletID, amount.Neg(), model.TxnWithdrawal, description, reference.WalletTxn())
}

func (s *walletService) Pay(ctx context.Context, walletID string, amount decimal.Decimal, txnType, description, ref string) (*model.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if txnType == "" {
		txnType = model.TxnPayment
	}
	if ref == "" {
		ref = reference.WalletTxn()
	}
	return s.apply(ctx, walletID, amount.Neg(), txnType, description, ref)
}

func (s *walletService) Credit(ctx context.Context, walletID string, amount decimal.Decimal, txnType, description, ref string) (*model.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if txnType == "" {
		txnType = model.TxnCredit
	}
	if ref == "" {
		ref = reference.WalletTxn()
	}
	return s.apply(ctx, walletID, amount, txnType, description, ref)
}

// apply validates the wallet and runs the movement through the atomic
// repository path. The amount arrives signed.
func (s *walletService) apply(ctx context.Context, walletID string, amount decimal.Decimal, txnType, description, ref string) (*model.WalletTransaction, error) {
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	wallet, err := s.Get(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive {
		return nil, ErrWalletInactive
	}
	txn, err := s.wallets.ApplyTransaction(ctx, &model.WalletTransaction{
		WalletID:    walletID,
		Type:        txnType,
		Amount:      amount,
		Description: description,
		Reference:   ref,
		Status:      model.TxnStatusCompleted,
	})
	if err != nil {
		// The conditional update matches no row when the balance
		// cannot cover the debit.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	return txn, nil
}

func (s *walletService) Transfer(ctx context.Context, fromWalletID, toWalletID string, amount decimal.Decimal, description string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if fromWalletID == toWalletID {
		return ErrSameWallet
	}
	from, err := s.Get(ctx, fromWalletID)
	if err != nil {
		return err
	}
	to, err := s.Get(ctx, toWalletID)
	if err != nil {
		return err
	}
	if !from.IsActive || !to.IsActive {
		return ErrWalletInactive
	}
	if from.Currency != to.Currency {
		return ErrCurrencyMismatch
	}

	ref := reference.WalletTxn()
	debit := &model.WalletTransaction{
		WalletID:    fromWalletID,
		Type:        model.TxnTransferOut,
		Amount:      amount.Neg(),
		Description: fmt.Sprintf("Transfer out: %s", description),
		Reference:   ref,
		Status:      model.TxnStatusCompleted,
	}
	credit := &model.WalletTransaction{
		WalletID:    toWalletID,
		Type:        model.TxnTransferIn,
		Amount:      amount,
		Description: fmt.Sprintf("Transfer in: %s", description),
		Reference:   ref,
		Status:      model.TxnStatusCompleted,
	}
	if err := s.wallets.Transfer(ctx, debit, credit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInsufficientFunds
		}
		return err
	}
	return nil
}

func (s *walletService) Ledger(ctx context.Context, walletID string, limit, offset int) (*LedgerResult, error) {
	if _, err := s.Get(ctx, walletID); err != nil {
		return nil, err
	}
	res, err := s.wallets.ListTransactions(ctx, walletID, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &LedgerResult{Items: res.Items, Total: res.Total}, nil
}
