package postgres

import (
	"context"
	"database/sql"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// PolicyPostgres is a PostgreSQL implementation of repository.PolicyRepository.
type PolicyPostgres struct {
	db *sql.DB
}

func NewPolicyPostgres(db *sql.DB) *PolicyPostgres {
	return &PolicyPostgres{db: db}
}

var _ repository.PolicyRepository = (*PolicyPostgres)(nil)

const policyColumns = `id, policy_number, customer_id, product_id, agent_id, status,
	start_date, end_date, premium_amount, coverage_amount, payment_frequency,
	beneficiary_name, beneficiary_relationship, beneficiary_phone, notes,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanPolicy(row interface{ Scan(...any) error }) (*model.Policy, error) {
	var p model.Policy
	err := row.Scan(
		&p.ID,
		&p.PolicyNumber,
		&p.CustomerID,
		&p.ProductID,
		&p.AgentID,
		&p.Status,
		&p.StartDate,
		&p.EndDate,
		&p.PremiumAmount,
		&p.CoverageAmount,
		&p.PaymentFrequency,
		&p.BeneficiaryName,
		&p.BeneficiaryRelationship,
		&p.BeneficiaryPhone,
		&p.Notes,
		&p.TrashedAt,
		&p.TrashedByID,
		&p.TrashReason,
		&p.PermanentDeleteAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PolicyPostgres) Create(ctx context.Context, p *model.Policy) (*model.Policy, error) {
	const q = `
		INSERT INTO policies (policy_number, customer_id, product_id, agent_id, status,
			start_date, end_date, premium_amount, coverage_amount, payment_frequency,
			beneficiary_name, beneficiary_relationship, beneficiary_phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + policyColumns
	return scanPolicy(r.db.QueryRowContext(ctx, q,
		p.PolicyNumber, p.CustomerID, p.ProductID, p.AgentID, p.Status,
		p.StartDate, p.EndDate, p.PremiumAmount, p.CoverageAmount, p.PaymentFrequency,
		p.BeneficiaryName, p.BeneficiaryRelationship, p.BeneficiaryPhone, p.Notes))
}

func (r *PolicyPostgres) FindByID(ctx context.Context, id string) (*model.Policy, error) {
	const q = `SELECT ` + policyColumns + ` FROM policies WHERE id = $1`
	return scanPolicy(r.db.QueryRowContext(ctx, q, id))
}

func (r *PolicyPostgres) FindByNumber(ctx context.Context, number string) (*model.Policy, error) {
	const q = `SELECT ` + policyColumns + ` FROM policies WHERE policy_number = $1`
	return scanPolicy(r.db.QueryRowContext(ctx, q, number))
}

func (r *PolicyPostgres) List(ctx context.Context, f repository.PolicyFilter, pq repository.PageQuery) (*repository.PageResult[model.Policy], error) {
	const where = `
		WHERE trashed_at IS NULL
		AND ($1 = '' OR customer_id::text = $1)
		AND ($2 = '' OR agent_id::text = $2)
		AND ($3 = '' OR product_id::text = $3)
		AND ($4 = '' OR status = $4)
	`
	args := []any{f.CustomerID, f.AgentID, f.ProductID, f.Status}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM policies`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+policyColumns+` FROM policies`+where+` ORDER BY created_at DESC, id DESC LIMIT $5 OFFSET $6`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Policy, 0)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Policy]{Items: items, Total: total}, nil
}

func (r *PolicyPostgres) Update(ctx context.Context, p *model.Policy) error {
	const q = `
		UPDATE policies
		SET agent_id = $2, status = $3, start_date = $4, end_date = $5, premium_amount = $6,
			coverage_amount = $7, payment_frequency = $8, beneficiary_name = $9,
			beneficiary_relationship = $10, beneficiary_phone = $11, notes = $12, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.AgentID, p.Status, p.StartDate, p.EndDate, p.PremiumAmount,
		p.CoverageAmount, p.PaymentFrequency, p.BeneficiaryName,
		p.BeneficiaryRelationship, p.BeneficiaryPhone, p.Notes)
	return err
}

func (r *PolicyPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "policies", id, tr)
}

func (r *PolicyPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "policies", id)
}

func (r *PolicyPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "policies", id)
}

// NextSequence counts existing numbers under the prefix, including
// trashed rows so numbers are never reissued.
func (r *PolicyPostgres) NextSequence(ctx context.Context, prefix string) (int, error) {
	const q = `SELECT COUNT(*) FROM policies WHERE policy_number LIKE $1 || '%'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, prefix).Scan(&n); err != nil {
		return 0, err
	}
	return n + 1, nil
}

func (r *PolicyPostgres) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Policy, error) {
	const q = `
		SELECT ` + policyColumns + `
		FROM policies
		WHERE trashed_at IS NULL AND status = 'active' AND end_date >= $1 AND end_date <= $2
		ORDER BY end_date
	`
	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Policy, 0)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r *PolicyPostgres) MarkExpired(ctx context.Context, now time.Time) ([]string, error) {
	const q = `
		UPDATE policies
		SET status = 'expired', updated_at = now()
		WHERE trashed_at IS NULL AND status = 'active' AND end_date < $1
		RETURNING id
	`
	rows, err := r.db.QueryContext(ctx, q, now)
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

func (r *PolicyPostgres) CountByStatus(ctx context.Context) (map[string]int, error) {
	const q = `SELECT status, COUNT(*) FROM policies WHERE trashed_at IS NULL GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}

// ApplicationPostgres is a PostgreSQL implementation of repository.ApplicationRepository.
type ApplicationPostgres struct {
	db *sql.DB
}

func NewApplicationPostgres(db *sql.DB) *ApplicationPostgres {
	return &ApplicationPostgres{db: db}
}

var _ repository.ApplicationRepository = (*ApplicationPostgres)(nil)

const applicationColumns = `id, application_number, applicant_id, product_id, assigned_agent_id, status,
	requested_coverage, requested_term_months, payment_frequency, calculated_premium,
	beneficiary_name, beneficiary_relationship, beneficiary_phone,
	submitted_at, reviewed_at, reviewed_by, rejection_reason, notes, policy_id,
	payment_status, convenience_fee_amount, premium_amount, total_payment_due, amount_paid,
	payment_reference, paid_at,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (*model.PolicyApplication, error) {
	var a model.PolicyApplication
	err := row.Scan(
		&a.ID,
		&a.ApplicationNumber,
		&a.ApplicantID,
		&a.ProductID,
		&a.AssignedAgentID,
		&a.Status,
		&a.RequestedCoverage,
		&a.RequestedTermMonths,
		&a.PaymentFrequency,
		&a.CalculatedPremium,
		&a.BeneficiaryName,
		&a.BeneficiaryRelationship,
		&a.BeneficiaryPhone,
		&a.SubmittedAt,
		&a.ReviewedAt,
		&a.ReviewedByID,
		&a.RejectionReason,
		&a.Notes,
		&a.PolicyID,
		&a.PaymentStatus,
		&a.ConvenienceFeeAmount,
		&a.PremiumAmount,
		&a.TotalPaymentDue,
		&a.AmountPaid,
		&a.PaymentReference,
		&a.PaidAt,
		&a.TrashedAt,
		&a.TrashedByID,
		&a.TrashReason,
		&a.PermanentDeleteAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationPostgres) Create(ctx context.Context, a *model.PolicyApplication) (*model.PolicyApplication, error) {
	const q = `
		INSERT INTO policy_applications (application_number, applicant_id, product_id, assigned_agent_id,
			status, requested_coverage, requested_term_months, payment_frequency, calculated_premium,
			beneficiary_name, beneficiary_relationship, beneficiary_phone, notes,
			payment_status, convenience_fee_amount, premium_amount, total_payment_due)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + applicationColumns
	return scanApplication(r.db.QueryRowContext(ctx, q,
		a.ApplicationNumber, a.ApplicantID, a.ProductID, a.AssignedAgentID,
		a.Status, a.RequestedCoverage, a.RequestedTermMonths, a.PaymentFrequency, a.CalculatedPremium,
		a.BeneficiaryName, a.BeneficiaryRelationship, a.BeneficiaryPhone, a.Notes,
		a.PaymentStatus, a.ConvenienceFeeAmount, a.PremiumAmount, a.TotalPaymentDue))
}

func (r *ApplicationPostgres) FindByID(ctx context.Context, id string) (*model.PolicyApplication, error) {
	const q = `SELECT ` + applicationColumns + ` FROM policy_applications WHERE id = $1`
	return scanApplication(r.db.QueryRowContext(ctx, q, id))
}

func (r *ApplicationPostgres) FindByNumber(ctx context.Context, number string) (*model.PolicyApplication, error) {
	const q = `SELECT ` + applicationColumns + ` FROM policy_applications WHERE application_number = $1`
	return scanApplication(r.db.QueryRowContext(ctx, q, number))
}

func (r *ApplicationPostgres) List(ctx context.Context, f repository.ApplicationFilter, pq repository.PageQuery) (*repository.PageResult[model.PolicyApplication], error) {
	const where = `
		WHERE trashed_at IS NULL
		AND ($1 = '' OR applicant_id::text = $1)
		AND ($2 = '' OR assigned_agent_id::text = $2)
		AND ($3 = '' OR status = $3)
		AND ($4 = '' OR payment_status = $4)
	`
	args := []any{f.ApplicantID, f.AssignedAgentID, f.Status, f.PaymentStatus}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM policy_applications`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM policy_applications`+where+` ORDER BY created_at DESC, id DESC LIMIT $5 OFFSET $6`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PolicyApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.PolicyApplication]{Items: items, Total: total}, nil
}

func (r *ApplicationPostgres) Update(ctx context.Context, a *model.PolicyApplication) error {
	const q = `
		UPDATE policy_applications
		SET assigned_agent_id = $2, status = $3, requested_coverage = $4, requested_term_months = $5,
			payment_frequency = $6, calculated_premium = $7, beneficiary_name = $8,
			beneficiary_relationship = $9, beneficiary_phone = $10, submitted_at = $11,
			reviewed_at = $12, reviewed_by = $13, rejection_reason = $14, notes = $15, policy_id = $16,
			payment_status = $17, convenience_fee_amount = $18, premium_amount = $19,
			total_payment_due = $20, amount_paid = $21, payment_reference = $22, paid_at = $23,
			updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.AssignedAgentID, a.Status, a.RequestedCoverage, a.RequestedTermMonths,
		a.PaymentFrequency, a.CalculatedPremium, a.BeneficiaryName,
		a.BeneficiaryRelationship, a.BeneficiaryPhone, a.SubmittedAt,
		a.ReviewedAt, a.ReviewedByID, a.RejectionReason, a.Notes, a.PolicyID,
		a.PaymentStatus, a.ConvenienceFeeAmount, a.PremiumAmount,
		a.TotalPaymentDue, a.AmountPaid, a.PaymentReference, a.PaidAt)
	return err
}

func (r *ApplicationPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "policy_applications", id, tr)
}

func (r *ApplicationPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "policy_applications", id)
}

func (r *ApplicationPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "policy_applications", id)
}

func (r *ApplicationPostgres) NextSequence(ctx context.Context, prefix string) (int, error) {
	const q = `SELECT COUNT(*) FROM policy_applications WHERE application_number LIKE $1 || '%'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, prefix).Scan(&n); err != nil {
		return 0, err
	}
	return n + 1, nil
}

// PolicyDocumentPostgres is a PostgreSQL implementation of repository.PolicyDocumentRepository.
type PolicyDocumentPostgres struct {
	db *sql.DB
}

func NewPolicyDocumentPostgres(db *sql.DB) *PolicyDocumentPostgres {
	return &PolicyDocumentPostgres{db: db}
}

var _ repository.PolicyDocumentRepository = (*PolicyDocumentPostgres)(nil)

const policyDocColumns = `id, policy_id, document_type, title, storage_key, size, content_type,
	description, uploaded_by, created_at`

func scanPolicyDoc(row interface{ Scan(...any) error }) (*model.PolicyDocument, error) {
	var d model.PolicyDocument
	err := row.Scan(
		&d.ID,
		&d.PolicyID,
		&d.DocumentType,
		&d.Title,
		&d.StorageKey,
		&d.Size,
		&d.ContentType,
		&d.Description,
		&d.UploadedByID,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PolicyDocumentPostgres) Create(ctx context.Context, d *model.PolicyDocument) (*model.PolicyDocument, error) {
	const q = `
		INSERT INTO policy_documents (policy_id, document_type, title, storage_key, size, content_type, description, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + policyDocColumns
	return scanPolicyDoc(r.db.QueryRowContext(ctx, q,
		d.PolicyID, d.DocumentType, d.Title, d.StorageKey, d.Size, d.ContentType, d.Description, d.UploadedByID))
}

func (r *PolicyDocumentPostgres) FindByID(ctx context.Context, id string) (*model.PolicyDocument, error) {
	const q = `SELECT ` + policyDocColumns + ` FROM policy_documents WHERE id = $1`
	return scanPolicyDoc(r.db.QueryRowContext(ctx, q, id))
}

func (r *PolicyDocumentPostgres) ListByPolicy(ctx context.Context, policyID string) ([]model.PolicyDocument, error) {
	const q = `SELECT ` + policyDocColumns + ` FROM policy_documents WHERE policy_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, policyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PolicyDocument, 0)
	for rows.Next() {
		d, err := scanPolicyDoc(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *PolicyDocumentPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM policy_documents WHERE id = $1`, id)
	return err
}
