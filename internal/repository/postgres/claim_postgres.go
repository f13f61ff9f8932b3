package postgres

import (
	"context"
	"database/sql"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// ClaimPostgres is a PostgreSQL implementation of repository.ClaimRepository.
type ClaimPostgres struct {
	db *sql.DB
}

func NewClaimPostgres(db *sql.DB) *ClaimPostgres {
	return &ClaimPostgres{db: db}
}

var _ repository.ClaimRepository = (*ClaimPostgres)(nil)

const claimColumns = `id, claim_number, policy_id, claimant_id, assigned_adjuster, status, priority,
	incident_date, incident_description, incident_location, claimed_amount, approved_amount, paid_amount,
	submitted_at, reviewed_at, reviewed_by, rejection_reason, adjuster_notes,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanClaim(row interface{ Scan(...any) error }) (*model.Claim, error) {
	var c model.Claim
	err := row.Scan(
		&c.ID,
		&c.ClaimNumber,
		&c.PolicyID,
		&c.ClaimantID,
		&c.AssignedAdjusterID,
		&c.Status,
		&c.Priority,
		&c.IncidentDate,
		&c.IncidentDescription,
		&c.IncidentLocation,
		&c.ClaimedAmount,
		&c.ApprovedAmount,
		&c.PaidAmount,
		&c.SubmittedAt,
		&c.ReviewedAt,
		&c.ReviewedByID,
		&c.RejectionReason,
		&c.AdjusterNotes,
		&c.TrashedAt,
		&c.TrashedByID,
		&c.TrashReason,
		&c.PermanentDeleteAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClaimPostgres) Create(ctx context.Context, c *model.Claim) (*model.Claim, error) {
	const q = `
		INSERT INTO claims (claim_number, policy_id, claimant_id, status, priority,
			incident_date, incident_description, incident_location, claimed_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + claimColumns
	return scanClaim(r.db.QueryRowContext(ctx, q,
		c.ClaimNumber, c.PolicyID, c.ClaimantID, c.Status, c.Priority,
		c.IncidentDate, c.IncidentDescription, c.IncidentLocation, c.ClaimedAmount))
}

func (r *ClaimPostgres) FindByID(ctx context.Context, id string) (*model.Claim, error) {
	const q = `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	return scanClaim(r.db.QueryRowContext(ctx, q, id))
}

func (r *ClaimPostgres) FindByNumber(ctx context.Context, number string) (*model.Claim, error) {
	const q = `SELECT ` + claimColumns + ` FROM claims WHERE claim_number = $1`
	return scanClaim(r.db.QueryRowContext(ctx, q, number))
}

func (r *ClaimPostgres) List(ctx context.Context, f repository.ClaimFilter, pq repository.PageQuery) (*repository.PageResult[model.Claim], error) {
	const where = `
		WHERE trashed_at IS NULL
		AND ($1 = '' OR claimant_id::text = $1)
		AND ($2 = '' OR policy_id::text = $2)
		AND ($3 = '' OR assigned_adjuster::text = $3)
		AND ($4 = '' OR status = $4)
		AND ($5 = '' OR priority = $5)
	`
	args := []any{f.ClaimantID, f.PolicyID, f.AssignedAdjusterID, f.Status, f.Priority}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+claimColumns+` FROM claims`+where+` ORDER BY created_at DESC, id DESC LIMIT $6 OFFSET $7`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Claim, 0)
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Claim]{Items: items, Total: total}, nil
}

func (r *ClaimPostgres) Update(ctx context.Context, c *model.Claim) error {
	const q = `
		UPDATE claims
		SET assigned_adjuster = $2, status = $3, priority = $4, incident_date = $5,
			incident_description = $6, incident_location = $7, claimed_amount = $8,
			approved_amount = $9, paid_amount = $10, submitted_at = $11, reviewed_at = $12,
			reviewed_by = $13, rejection_reason = $14, adjuster_notes = $15, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.AssignedAdjusterID, c.Status, c.Priority, c.IncidentDate,
		c.IncidentDescription, c.IncidentLocation, c.ClaimedAmount,
		c.ApprovedAmount, c.PaidAmount, c.SubmittedAt, c.ReviewedAt,
		c.ReviewedByID, c.RejectionReason, c.AdjusterNotes)
	return err
}

func (r *ClaimPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "claims", id, tr)
}

func (r *ClaimPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "claims", id)
}

func (r *ClaimPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "claims", id)
}

func (r *ClaimPostgres) NextSequence(ctx context.Context, prefix string) (int, error) {
	const q = `SELECT COUNT(*) FROM claims WHERE claim_number LIKE $1 || '%'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, prefix).Scan(&n); err != nil {
		return 0, err
	}
	return n + 1, nil
}

func (r *ClaimPostgres) CountByStatus(ctx context.Context) (map[string]int, error) {
	const q = `SELECT status, COUNT(*) FROM claims WHERE trashed_at IS NULL GROUP BY status`
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

// ClaimDocumentPostgres is a PostgreSQL implementation of repository.ClaimDocumentRepository.
type ClaimDocumentPostgres struct {
	db *sql.DB
}

func NewClaimDocumentPostgres(db *sql.DB) *ClaimDocumentPostgres {
	return &ClaimDocumentPostgres{db: db}
}

var _ repository.ClaimDocumentRepository = (*ClaimDocumentPostgres)(nil)

const claimDocColumns = `id, claim_id, document_type, title, storage_key, size, content_type,
	description, uploaded_by, created_at`

func scanClaimDoc(row interface{ Scan(...any) error }) (*model.ClaimDocument, error) {
	var d model.ClaimDocument
	err := row.Scan(
		&d.ID,
		&d.ClaimID,
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

func (r *ClaimDocumentPostgres) Create(ctx context.Context, d *model.ClaimDocument) (*model.ClaimDocument, error) {
	const q = `
		INSERT INTO claim_documents (claim_id, document_type, title, storage_key, size, content_type, description, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + claimDocColumns
	return scanClaimDoc(r.db.QueryRowContext(ctx, q,
		d.ClaimID, d.DocumentType, d.Title, d.StorageKey, d.Size, d.ContentType, d.Description, d.UploadedByID))
}

func (r *ClaimDocumentPostgres) FindByID(ctx context.Context, id string) (*model.ClaimDocument, error) {
	const q = `SELECT ` + claimDocColumns + ` FROM claim_documents WHERE id = $1`
	return scanClaimDoc(r.db.QueryRowContext(ctx, q, id))
}

func (r *ClaimDocumentPostgres) ListByClaim(ctx context.Context, claimID string) ([]model.ClaimDocument, error) {
	const q = `SELECT ` + claimDocColumns + ` FROM claim_documents WHERE claim_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ClaimDocument, 0)
	for rows.Next() {
		d, err := scanClaimDoc(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *ClaimDocumentPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM claim_documents WHERE id = $1`, id)
	return err
}

// ClaimNotePostgres is a PostgreSQL implementation of repository.ClaimNoteRepository.
type ClaimNotePostgres struct {
	db *sql.DB
}

func NewClaimNotePostgres(db *sql.DB) *ClaimNotePostgres {
	return &ClaimNotePostgres{db: db}
}

var _ repository.ClaimNoteRepository = (*ClaimNotePostgres)(nil)

func (r *ClaimNotePostgres) Create(ctx context.Context, n *model.ClaimNote) (*model.ClaimNote, error) {
	const q = `
		INSERT INTO claim_notes (claim_id, author_id, note, is_internal)
		VALUES ($1, $2, $3, $4)
		RETURNING id, claim_id, author_id, note, is_internal, created_at
	`
	var out model.ClaimNote
	err := r.db.QueryRowContext(ctx, q, n.ClaimID, n.AuthorID, n.Note, n.IsInternal).Scan(
		&out.ID, &out.ClaimID, &out.AuthorID, &out.Note, &out.IsInternal, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ClaimNotePostgres) ListByClaim(ctx context.Context, claimID string, includeInternal bool) ([]model.ClaimNote, error) {
	const q = `
		SELECT id, claim_id, author_id, note, is_internal, created_at
		FROM claim_notes
		WHERE claim_id = $1 AND ($2 OR NOT is_internal)
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, q, claimID, includeInternal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ClaimNote, 0)
	for rows.Next() {
		var n model.ClaimNote
		if err := rows.Scan(&n.ID, &n.ClaimID, &n.AuthorID, &n.Note, &n.IsInternal, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
