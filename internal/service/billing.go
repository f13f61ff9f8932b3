package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
	"ifinsure/internal/reference"
	"ifinsure/internal/repository"
)

var (
	ErrInvoiceSettled   = errors.New("invoice is already settled")
	ErrInvoiceCancelled = errors.New("invoice is cancelled")
	ErrOverpayment      = errors.New("payment exceeds the invoice balance")
	ErrUnknownMethod    = errors.New("unknown payment method")
)

// CreateInvoiceInput carries the fields needed to raise an invoice.
type CreateInvoiceInput struct {
	CustomerID  string          `json:"customer_id"`
	PolicyID    *string         `json:"policy_id"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
}

// RecordPaymentInput carries the fields of an incoming payment. For the
// wallet method the customer's wallet is debited as part of recording.
type RecordPaymentInput struct {
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes"`
	ReceivedByID  *string         `json:"received_by_id"`
}

// InvoiceListResult is the service-level DTO for an invoice page.
type InvoiceListResult struct {
	Items []model.Invoice `json:"data"`
	Total int             `json:"total"`
}

// BillingService raises invoices and records payments against them. The
// invoice status is derived from its payments; the overdue sweep runs
// from the background worker.
type BillingService interface {
	CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, f repository.InvoiceFilter, limit, offset int) (*InvoiceListResult, error)
	CancelInvoice(ctx context.Context, id string) (*model.Invoice, error)
	TrashInvoice(ctx context.Context, id, actorID, reason string) error

	RecordPayment(ctx context.Context, in RecordPaymentInput) (*model.Payment, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	ListPayments(ctx context.Context, invoiceID string) ([]model.Payment, error)

	// MarkOverdue flips pending invoices past their due date and
	// notifies the customers. Returns the number flipped.
	MarkOverdue(ctx context.Context, today time.Time) (int, error)

	RegisterTrashHandlers(trash TrashService)
}

type billingService struct {
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
	wallet   WalletService
	notifier NotificationService
	trash    TrashRecorder
	now      func() time.Time
}

// NewBillingService constructs a new BillingService.
func NewBillingService(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	wallet WalletService,
	notifier NotificationService,
	trash TrashRecorder,
) BillingService {
	return &billingService{
		invoices: invoices,
		payments: payments,
		wallet:   wallet,
		notifier: notifier,
		trash:    trash,
		now:      time.Now,
	}
}

func (s *billingService) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*model.Invoice, error) {
	if in.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer_id", ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	now := s.now()
	if in.DueDate.IsZero() {
		in.DueDate = now.AddDate(0, 0, 30)
	}
	seq, err := s.invoices.NextSequence(ctx, reference.MonthlyPrefix("INV", now))
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoices.Create(ctx, &model.Invoice{
		InvoiceNumber: reference.Monthly("INV", now, seq),
		CustomerID:    in.CustomerID,
		PolicyID:      in.PolicyID,
		Status:        model.InvoicePending,
		IssuedDate:    now,
		DueDate:       in.DueDate,
		Amount:        in.Amount,
		PaidAmount:    decimal.Zero,
		Description:   in.Description,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}

	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: invoice.CustomerID,
		Type:        model.NotifyInfo,
		Event:       model.EventPaymentDue,
		Title:       "New invoice",
		Message:     fmt.Sprintf("Invoice %s for %s %s is due %s", invoice.InvoiceNumber, model.CurrencyKES, invoice.Amount.StringFixed(2), invoice.DueDate.Format("2 Jan 2006")),
		Icon:        "invoice",
		EntityType:  model.EntityInvoice,
		EntityID:    invoice.ID,
	})
	return invoice, nil
}

func (s *billingService) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return invoice, nil
}

func (s *billingService) ListInvoices(ctx context.Context, f repository.InvoiceFilter, limit, offset int) (*InvoiceListResult, error) {
	res, err := s.invoices.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *billingService) CancelInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == model.InvoicePaid {
		return nil, ErrInvoiceSettled
	}
	invoice.Status = model.InvoiceCancelled
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *billingService) TrashInvoice(ctx context.Context, id, actorID, reason string) error {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.invoices.Trash(ctx, id, tr); err != nil {
		return err
	}
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityInvoice,
		EntityID:   id,
		Title:      invoice.InvoiceNumber,
		Subtitle:   invoice.Amount.StringFixed(2),
		Icon:       "invoice",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   invoice,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *billingService) RecordPayment(ctx context.Context, in RecordPaymentInput) (*model.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !validPaymentMethod(in.Method) {
		return nil, ErrUnknownMethod
	}
	invoice, err := s.GetInvoice(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case model.InvoiceCancelled:
		return nil, ErrInvoiceCancelled
	case model.InvoicePaid:
		return nil, ErrInvoiceSettled
	}
	if in.Amount.GreaterThan(invoice.Balance()) {
		return nil, ErrOverpayment
	}

	txnID := in.TransactionID
	if in.Method == model.PaymentMethodWallet {
		wallet, err := s.wallet.GetByUser(ctx, invoice.CustomerID)
		if err != nil {
			return nil, err
		}
		txn, err := s.wallet.Pay(ctx, wallet.ID, in.Amount, model.TxnPremiumPayment,
			fmt.Sprintf("Payment for invoice %s", invoice.InvoiceNumber), invoice.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		txnID = txn.Reference
	}

	payment, err := s.payments.Create(ctx, &model.Payment{
		Reference:     reference.Payment(),
		InvoiceID:     invoice.ID,
		ReceivedByID:  in.ReceivedByID,
		Amount:        in.Amount,
		Method:        in.Method,
		Status:        model.PaymentCompleted,
		TransactionID: txnID,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}

	invoice.PaidAmount = invoice.PaidAmount.Add(in.Amount)
	invoice.RecomputeStatus(s.now())
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}

	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: invoice.CustomerID,
		Type:        model.NotifySuccess,
		Event:       model.EventPaymentReceived,
		Title:       "Payment received",
		Message:     fmt.Sprintf("Payment %s of %s %s applied to invoice %s", payment.Reference, model.CurrencyKES, in.Amount.StringFixed(2), invoice.InvoiceNumber),
		Icon:        "payment",
		EntityType:  model.EntityInvoice,
		EntityID:    invoice.ID,
	})
	return payment, nil
}

func (s *billingService) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (s *billingService) ListPayments(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	if invoiceID == "" {
		return nil, ErrIDRequired
	}
	return s.payments.ListByInvoice(ctx, invoiceID)
}

func (s *billingService) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	ids, err := s.invoices.MarkOverdue(ctx, today)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		invoice, err := s.invoices.FindByID(ctx, id)
		if err != nil {
			continue
		}
		_, _ = s.notifier.Notify(ctx, NotifyInput{
			RecipientID: invoice.CustomerID,
			Type:        model.NotifyWarning,
			Event:       model.EventPaymentOverdue,
			Title:       "Invoice overdue",
			Message:     fmt.Sprintf("Invoice %s was due %s", invoice.InvoiceNumber, invoice.DueDate.Format("2 Jan 2006")),
			Icon:        "alert",
			EntityType:  model.EntityInvoice,
			EntityID:    invoice.ID,
		})
	}
	return len(ids), nil
}

// RegisterTrashHandlers wires invoice restore and purge into the trash
// registry.
func (s *billingService) RegisterTrashHandlers(trash TrashService) {
	trash.RegisterHandler(model.EntityInvoice, TrashHandler{
		Restore: s.invoices.Restore,
		Purge:   s.invoices.Purge,
	})
}

func validPaymentMethod(m string) bool {
	switch m {
	case model.PaymentMethodMpesa, model.PaymentMethodCard, model.PaymentMethodBank,
		model.PaymentMethodCash, model.PaymentMethodCheque, model.PaymentMethodWallet:
		return true
	}
	return false
}
