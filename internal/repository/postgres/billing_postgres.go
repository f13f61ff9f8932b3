package postgres

import (
	"context"
	"database/sql"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// InvoicePostgres is a PostgreSQL implementation of repository.InvoiceRepository.
type InvoicePostgres struct {
	db *sql.DB
}

func NewInvoicePostgres(db *sql.DB) *InvoicePostgres {
	return &InvoicePostgres{db: db}
}

var _ repository.InvoiceRepository = (*InvoicePostgres)(nil)

const invoiceColumns = `id, invoice_number, customer_id, policy_id, status, issued_date, due_date,
	amount, paid_amount, description, notes,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (*model.Invoice, error) {
	var i model.Invoice
	err := row.Scan(
		&i.ID,
		&i.InvoiceNumber,
		&i.CustomerID,
		&i.PolicyID,
		&i.Status,
		&i.IssuedDate,
		&i.DueDate,
		&i.Amount,
		&i.PaidAmount,
		&i.Description,
		&i.Notes,
		&i.TrashedAt,
		&i.TrashedByID,
		&i.TrashReason,
		&i.PermanentDeleteAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InvoicePostgres) Create(ctx context.Context, i *model.Invoice) (*model.Invoice, error) {
	const q = `
		INSERT INTO invoices (invoice_number, customer_id, policy_id, status, issued_date, due_date,
			amount, paid_amount, description, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + invoiceColumns
	return scanInvoice(r.db.QueryRowContext(ctx, q,
		i.InvoiceNumber, i.CustomerID, i.PolicyID, i.Status, i.IssuedDate, i.DueDate,
		i.Amount, i.PaidAmount, i.Description, i.Notes))
}

func (r *InvoicePostgres) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.db.QueryRowContext(ctx, q, id))
}

func (r *InvoicePostgres) FindByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	return scanInvoice(r.db.QueryRowContext(ctx, q, number))
}

func (r *InvoicePostgres) List(ctx context.Context, f repository.InvoiceFilter, pq repository.PageQuery) (*repository.PageResult[model.Invoice], error) {
	const where = `
		WHERE trashed_at IS NULL
		AND ($1 = '' OR customer_id::text = $1)
		AND ($2 = '' OR policy_id::text = $2)
		AND ($3 = '' OR status = $3)
	`
	args := []any{f.CustomerID, f.PolicyID, f.Status}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices`+where+` ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Invoice, 0)
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Invoice]{Items: items, Total: total}, nil
}

func (r *InvoicePostgres) Update(ctx context.Context, i *model.Invoice) error {
	const q = `
		UPDATE invoices
		SET status = $2, due_date = $3, amount = $4, paid_amount = $5,
			description = $6, notes = $7, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		i.ID, i.Status, i.DueDate, i.Amount, i.PaidAmount, i.Description, i.Notes)
	return err
}

func (r *InvoicePostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "invoices", id, tr)
}

func (r *InvoicePostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "invoices", id)
}

func (r *InvoicePostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "invoices", id)
}

func (r *InvoicePostgres) NextSequence(ctx context.Context, prefix string) (int, error) {
	const q = `SELECT COUNT(*) FROM invoices WHERE invoice_number LIKE $1 || '%'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, prefix).Scan(&n); err != nil {
		return 0, err
	}
	return n + 1, nil
}

func (r *InvoicePostgres) MarkOverdue(ctx context.Context, today time.Time) ([]string, error) {
	const q = `
		UPDATE invoices
		SET status = 'overdue', updated_at = now()
		WHERE trashed_at IS NULL AND status IN ('pending', 'partial') AND due_date < $1
		RETURNING id
	`
	rows, err := r.db.QueryContext(ctx, q, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PaymentPostgres is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentPostgres struct {
	db *sql.DB
}

func NewPaymentPostgres(db *sql.DB) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

const paymentColumns = `id, reference, invoice_id, received_by, amount, method, status,
	transaction_id, notes, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID,
		&p.Reference,
		&p.InvoiceID,
		&p.ReceivedByID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentPostgres) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		INSERT INTO payments (reference, invoice_id, received_by, amount, method, status, transaction_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + paymentColumns
	return scanPayment(r.db.QueryRowContext(ctx, q,
		p.Reference, p.InvoiceID, p.ReceivedByID, p.Amount, p.Method, p.Status, p.TransactionID, p.Notes))
}

func (r *PaymentPostgres) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.db.QueryRowContext(ctx, q, id))
}

func (r *PaymentPostgres) FindByReference(ctx context.Context, ref string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1`
	return scanPayment(r.db.QueryRowContext(ctx, q, ref))
}

func (r *PaymentPostgres) ListByInvoice(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r *PaymentPostgres) Update(ctx context.Context, p *model.Payment) error {
	const q = `
		UPDATE payments
		SET status = $2, transaction_id = $3, notes = $4, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Status, p.TransactionID, p.Notes)
	return err
}
