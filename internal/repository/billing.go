package repository

import (
	"context"
	"time"

	"ifinsure/internal/model"
)

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	CustomerID string
	PolicyID   string
	Status     string
}

// InvoiceRepository defines data access for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, i *model.Invoice) (*model.Invoice, error)
	FindByID(ctx context.Context, id string) (*model.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*model.Invoice, error)
	List(ctx context.Context, f InvoiceFilter, pq PageQuery) (*PageResult[model.Invoice], error)
	Update(ctx context.Context, i *model.Invoice) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
	NextSequence(ctx context.Context, prefix string) (int, error)

	// MarkOverdue flips unpaid invoices past due to overdue and returns
	// the affected ids.
	MarkOverdue(ctx context.Context, today time.Time) ([]string, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindByReference(ctx context.Context, ref string) (*model.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
}
