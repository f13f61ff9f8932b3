package postgres

import (
	"context"
	"database/sql"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// ReviewPostgres is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewPostgres struct {
	db *sql.DB
}

func NewReviewPostgres(db *sql.DB) *ReviewPostgres {
	return &ReviewPostgres{db: db}
}

var _ repository.ReviewRepository = (*ReviewPostgres)(nil)

const reviewColumns = `id, user_id, quote, rating, status, reviewed_by, reviewed_at,
	rejection_reason, is_active,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*model.UserReview, error) {
	var v model.UserReview
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.Quote,
		&v.Rating,
		&v.Status,
		&v.ReviewedByID,
		&v.ReviewedAt,
		&v.RejectionReason,
		&v.IsActive,
		&v.TrashedAt,
		&v.TrashedByID,
		&v.TrashReason,
		&v.PermanentDeleteAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ReviewPostgres) Create(ctx context.Context, v *model.UserReview) (*model.UserReview, error) {
	const q = `
		INSERT INTO user_reviews (user_id, quote, rating, status, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reviewColumns
	return scanReview(r.db.QueryRowContext(ctx, q, v.UserID, v.Quote, v.Rating, v.Status, v.IsActive))
}

func (r *ReviewPostgres) FindByID(ctx context.Context, id string) (*model.UserReview, error) {
	const q = `SELECT ` + reviewColumns + ` FROM user_reviews WHERE id = $1`
	return scanReview(r.db.QueryRowContext(ctx, q, id))
}

func (r *ReviewPostgres) List(ctx context.Context, f repository.ReviewFilter, pq repository.PageQuery) (*repository.PageResult[model.UserReview], error) {
	const where = `
		WHERE trashed_at IS NULL
		AND ($1 = '' OR user_id::text = $1)
		AND ($2 = '' OR status = $2)
	`
	args := []any{f.UserID, f.Status}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_reviews`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM user_reviews`+where+` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UserReview, 0)
	for rows.Next() {
		v, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.UserReview]{Items: items, Total: total}, nil
}

func (r *ReviewPostgres) Update(ctx context.Context, v *model.UserReview) error {
	const q = `
		UPDATE user_reviews
		SET quote = $2, rating = $3, status = $4, reviewed_by = $5, reviewed_at = $6,
			rejection_reason = $7, is_active = $8, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		v.ID, v.Quote, v.Rating, v.Status, v.ReviewedByID, v.ReviewedAt,
		v.RejectionReason, v.IsActive)
	return err
}

func (r *ReviewPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "user_reviews", id, tr)
}

func (r *ReviewPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "user_reviews", id)
}

func (r *ReviewPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "user_reviews", id)
}

func (r *ReviewPostgres) ListPublished(ctx context.Context, limit int) ([]model.UserReview, error) {
	const q = `
		SELECT ` + reviewColumns + `
		FROM user_reviews
		WHERE trashed_at IS NULL AND status = 'approved' AND is_active
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UserReview, 0)
	for rows.Next() {
		v, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}
