package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// Test doubles for cross-service dependencies. The repository mocks live
// in repository/mocks; these cover the service-to-service seams.

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, in NotifyInput) ([]model.Notification, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *mockNotifier) ListByRecipient(ctx context.Context, recipientID string, f repository.NotificationFilter, limit, offset int) (*NotificationListResult, error) {
	args := m.Called(ctx, recipientID, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*NotificationListResult), args.Error(1)
}

func (m *mockNotifier) MarkRead(ctx context.Context, id, recipientID string) error {
	return m.Called(ctx, id, recipientID).Error(0)
}

func (m *mockNotifier) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotifier) Archive(ctx context.Context, id, recipientID string) error {
	return m.Called(ctx, id, recipientID).Error(0)
}

func (m *mockNotifier) GetPreferences(ctx context.Context, userID string) (*model.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationPreference), args.Error(1)
}

func (m *mockNotifier) SavePreferences(ctx context.Context, p *model.NotificationPreference) (*model.NotificationPreference, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationPreference), args.Error(1)
}

// quietNotifier accepts every dispatch. Most tests only need the calls
// to succeed.
func quietNotifier() *mockNotifier {
	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	return n
}

type mockTrashRecorder struct {
	mock.Mock
}

func (m *mockTrashRecorder) Record(ctx context.Context, in RecordTrashInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockTrashRecorder) Remove(ctx context.Context, entityType, entityID string) error {
	return m.Called(ctx, entityType, entityID).Error(0)
}

type mockWalletSvc struct {
	mock.Mock
}

func (m *mockWalletSvc) Get(ctx context.Context, id string) (*model.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wallet), args.Error(1)
}

func (m *mockWalletSvc) GetByUser(ctx context.Context, userID string) (*model.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wallet), args.Error(1)
}

func (m *mockWalletSvc) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockWalletSvc) Deposit(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*model.WalletTransaction, error) {
	args := m.Called(ctx, walletID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WalletTransaction), args.Error(1)
}

func (m *mockWalletSvc) Withdraw(ctx context.Context, walletID string, amount decimal.Decimal, description string) (*model.WalletTransaction, error) {
	args := m.Called(ctx, walletID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WalletTransaction), args.Error(1)
}

func (m *mockWalletSvc) Pay(ctx context.Context, walletID string, amount decimal.Decimal, txnType, description, ref string) (*model.WalletTransaction, error) {
	args := m.Called(ctx, walletID, amount, txnType, description, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WalletTransaction), args.Error(1)
}

func (m *mockWalletSvc) Credit(ctx context.Context, walletID string, amount decimal.Decimal, txnType, description, ref string) (*model.WalletTransaction, error) {
	args := m.Called(ctx, walletID, amount, txnType, description, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WalletTransaction), args.Error(1)
}

func (m *mockWalletSvc) Transfer(ctx context.Context, fromWalletID, toWalletID string, amount decimal.Decimal, description string) error {
	return m.Called(ctx, fromWalletID, toWalletID, amount, description).Error(0)
}

func (m *mockWalletSvc) Ledger(ctx context.Context, walletID string, limit, offset int) (*LedgerResult, error) {
	args := m.Called(ctx, walletID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LedgerResult), args.Error(1)
}

// fixedClock pins service time in tests.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// recordingIndexer captures index refreshes so tests can assert the
// hooks fired without a real search backend.
type recordingIndexer struct {
	indexed   []IndexInput
	deindexed []string
}

func (r *recordingIndexer) Index(_ context.Context, in IndexInput) error {
	r.indexed = append(r.indexed, in)
	return nil
}

func (r *recordingIndexer) Deindex(_ context.Context, entityType, entityID string) error {
	r.deindexed = append(r.deindexed, entityType+"/"+entityID)
	return nil
}
