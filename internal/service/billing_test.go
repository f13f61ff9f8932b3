package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	repoMocks "ifinsure/internal/repository/mocks"
)

func newBillingService(t *testing.T) (BillingService, *repoMocks.MockInvoiceRepository, *repoMocks.MockPaymentRepository, *mockWalletSvc) {
	t.Helper()
	invoices := &repoMocks.MockInvoiceRepository{}
	payments := &repoMocks.MockPaymentRepository{}
	wallet := &mockWalletSvc{}
	svc := NewBillingService(invoices, payments, wallet, quietNotifier(), &mockTrashRecorder{})
	svc.(*billingService).now = fixedClock(time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC))
	return svc, invoices, payments, wallet
}

func TestCreateInvoice_NumbersMonthly(t *testing.T) {
	ctx := context.Background()
	svc, invoices, _, _ := newBillingService(t)

	invoices.On("NextSequence", ctx, "INV-202608-").Return(7, nil)
	invoices.On("Create", ctx, mock.MatchedBy(func(i *model.Invoice) bool {
		return i.InvoiceNumber == "INV-202608-00007" &&
			i.Status == model.InvoicePending &&
			i.Amount.Equal(decimal.NewFromInt(12000))
	})).Return(&model.Invoice{ID: "i1", InvoiceNumber: "INV-202608-00007", CustomerID: "c1", Amount: decimal.NewFromInt(12000)}, nil)

	inv, err := svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerID: "c1",
		Amount:     decimal.NewFromInt(12000),
	})
	assert.NoError(t, err)
	assert.Equal(t, "INV-202608-00007", inv.InvoiceNumber)
	invoices.AssertExpectations(t)
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()

	invoice := func(status string, amount, paid int64) *model.Invoice {
		return &model.Invoice{
			ID:            "i1",
			InvoiceNumber: "INV-202608-00001",
			CustomerID:    "c1",
			Status:        status,
			Amount:        decimal.NewFromInt(amount),
			PaidAmount:    decimal.NewFromInt(paid),
			DueDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("cash payment settles the invoice", func(t *testing.T) {
		svc, invoices, payments, _ := newBillingService(t)
		invoices.On("FindByID", ctx, "i1").Return(invoice(model.InvoicePartial, 1000, 400), nil)
		payments.On("Create", ctx, mock.MatchedBy(func(p *model.Payment) bool {
			return p.Method == model.PaymentMethodCash && p.Status == model.PaymentCompleted && p.Reference != ""
		})).Return(&model.Payment{ID: "p1", Reference: "PAY-X"}, nil)
		invoices.On("Update", ctx, mock.MatchedBy(func(i *model.Invoice) bool {
			return i.Status == model.InvoicePaid && i.PaidAmount.Equal(decimal.NewFromInt(1000))
		})).Return(nil)

		_, err := svc.RecordPayment(ctx, RecordPaymentInput{
			InvoiceID: "i1",
			Amount:    decimal.NewFromInt(600),
			Method:    model.PaymentMethodCash,
		})
		assert.NoError(t, err)
		invoices.AssertExpectations(t)
	})

	t.Run("wallet payment debits the customer wallet", func(t *testing.T) {
		svc, invoices, payments, wallet := newBillingService(t)
		invoices.On("FindByID", ctx, "i1").Return(invoice(model.InvoicePending, 1000, 0), nil)
		wallet.On("GetByUser", ctx, "c1").Return(&model.Wallet{ID: "w1", UserID: "c1"}, nil)
		wallet.On("Pay", ctx, "w1", decimal.NewFromInt(1000), model.TxnPremiumPayment, mock.Anything, "INV-202608-00001").
			Return(&model.WalletTransaction{ID: "t1", Reference: "WTX-1"}, nil)
		payments.On("Create", ctx, mock.MatchedBy(func(p *model.Payment) bool {
			return p.Method == model.PaymentMethodWallet && p.TransactionID == "WTX-1"
		})).Return(&model.Payment{ID: "p1", Reference: "PAY-Y"}, nil)
		invoices.On("Update", ctx, mock.Anything).Return(nil)

		_, err := svc.RecordPayment(ctx, RecordPaymentInput{
			InvoiceID: "i1",
			Amount:    decimal.NewFromInt(1000),
			Method:    model.PaymentMethodWallet,
		})
		assert.NoError(t, err)
		wallet.AssertExpectations(t)
	})

	t.Run("insufficient wallet funds bubble up", func(t *testing.T) {
		svc, invoices, _, wallet := newBillingService(t)
		invoices.On("FindByID", ctx, "i1").Return(invoice(model.InvoicePending, 1000, 0), nil)
		wallet.On("GetByUser", ctx, "c1").Return(&model.Wallet{ID: "w1", UserID: "c1"}, nil)
		wallet.On("Pay", ctx, "w1", decimal.NewFromInt(1000), model.TxnPremiumPayment, mock.Anything, "INV-202608-00001").
			Return(nil, ErrInsufficientFunds)

		_, err := svc.RecordPayment(ctx, RecordPaymentInput{
			InvoiceID: "i1",
			Amount:    decimal.NewFromInt(1000),
			Method:    model.PaymentMethodWallet,
		})
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		svc, invoices, _, _ := newBillingService(t)
		invoices.On("FindByID", ctx, "i1").Return(invoice(model.InvoicePartial, 1000, 900), nil)

		_, err := svc.RecordPayment(ctx, RecordPaymentInput{
			InvoiceID: "i1",
			Amount:    decimal.NewFromInt(500),
			Method:    model.PaymentMethodCash,
		})
		assert.ErrorIs(t, err, ErrOverpayment)
	})

	t.Run("cancelled invoice rejected", func(t *testing.T) {
		svc, invoices, _, _ := newBillingService(t)
		invoices.On("FindByID", ctx, "i1").Return(invoice(model.InvoiceCancelled, 1000, 0), nil)

		_, err := svc.RecordPayment(ctx, RecordPaymentInput{
			InvoiceID: "i1",
			Amount:    decimal.NewFromInt(100),
			Method:    model.PaymentMethodCash,
		})
		assert.ErrorIs(t, err, ErrInvoiceCancelled)
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		svc, _, _, _ := newBillingService(t)
		_, err := svc.RecordPayment(ctx, RecordPaymentInput{
			InvoiceID: "i1",
			Amount:    decimal.NewFromInt(100),
			Method:    "crypto",
		})
		assert.ErrorIs(t, err, ErrUnknownMethod)
	})
}

func TestMarkOverdue_NotifiesCustomers(t *testing.T) {
	ctx := context.Background()
	invoices := &repoMocks.MockInvoiceRepository{}
	notifier := &mockNotifier{}
	svc := NewBillingService(invoices, &repoMocks.MockPaymentRepository{}, &mockWalletSvc{}, notifier, &mockTrashRecorder{})

	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	invoices.On("MarkOverdue", ctx, today).Return([]string{"i1"}, nil)
	invoices.On("FindByID", ctx, "i1").Return(&model.Invoice{
		ID: "i1", InvoiceNumber: "INV-202607-00003", CustomerID: "c1",
		DueDate: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
	}, nil)
	notifier.On("Notify", ctx, mock.MatchedBy(func(in NotifyInput) bool {
		return in.RecipientID == "c1" && in.Event == model.EventPaymentOverdue
	})).Return(nil, nil)

	n, err := svc.MarkOverdue(ctx, today)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	notifier.AssertExpectations(t)
}
