package postgres

import (
	"context"
	"database/sql"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// TrashPostgres is a PostgreSQL implementation of repository.TrashRepository.
type TrashPostgres struct {
	db *sql.DB
}

func NewTrashPostgres(db *sql.DB) *TrashPostgres {
	return &TrashPostgres{db: db}
}

var _ repository.TrashRepository = (*TrashPostgres)(nil)

const trashColumns = `id, entity_type, entity_id, title, subtitle, icon, trashed_by, trash_reason,
	snapshot, expires_at, restore_path, created_at`

func scanTrashEntry(row interface{ Scan(...any) error }) (*model.TrashEntry, error) {
	var e model.TrashEntry
	var snapshot []byte
	err := row.Scan(
		&e.ID,
		&e.EntityType,
		&e.EntityID,
		&e.Title,
		&e.Subtitle,
		&e.Icon,
		&e.TrashedByID,
		&e.TrashReason,
		&snapshot,
		&e.ExpiresAt,
		&e.RestorePath,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Snapshot = snapshot
	return &e, nil
}

func (r *TrashPostgres) Upsert(ctx context.Context, e *model.TrashEntry) (*model.TrashEntry, error) {
	snapshot := []byte(e.Snapshot)
	if len(snapshot) == 0 {
		snapshot = []byte("{}")
	}
	const q = `
		INSERT INTO trash_entries (entity_type, entity_id, title, subtitle, icon, trashed_by,
			trash_reason, snapshot, expires_at, restore_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (entity_type, entity_id) DO UPDATE SET
			title = EXCLUDED.title,
			subtitle = EXCLUDED.subtitle,
			icon = EXCLUDED.icon,
			trashed_by = EXCLUDED.trashed_by,
			trash_reason = EXCLUDED.trash_reason,
			snapshot = EXCLUDED.snapshot,
			expires_at = EXCLUDED.expires_at,
			restore_path = EXCLUDED.restore_path
		RETURNING ` + trashColumns
	return scanTrashEntry(r.db.QueryRowContext(ctx, q,
		e.EntityType, e.EntityID, e.Title, e.Subtitle, e.Icon, e.TrashedByID,
		e.TrashReason, snapshot, e.ExpiresAt, e.RestorePath))
}

func (r *TrashPostgres) FindByEntity(ctx context.Context, entityType, entityID string) (*model.TrashEntry, error) {
	const q = `SELECT ` + trashColumns + ` FROM trash_entries WHERE entity_type = $1 AND entity_id = $2`
	return scanTrashEntry(r.db.QueryRowContext(ctx, q, entityType, entityID))
}

func (r *TrashPostgres) List(ctx context.Context, f repository.TrashFilter, pq repository.PageQuery) (*repository.PageResult[model.TrashEntry], error) {
	const where = `
		WHERE ($1 = '' OR entity_type = $1)
		AND ($2 = '' OR trashed_by::text = $2)
	`
	args := []any{f.EntityType, f.TrashedByID}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trash_entries`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+trashColumns+` FROM trash_entries`+where+` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TrashEntry, 0)
	for rows.Next() {
		e, err := scanTrashEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.TrashEntry]{Items: items, Total: total}, nil
}

func (r *TrashPostgres) Delete(ctx context.Context, entityType, entityID string) error {
	const q = `DELETE FROM trash_entries WHERE entity_type = $1 AND entity_id = $2`
	_, err := r.db.ExecContext(ctx, q, entityType, entityID)
	return err
}

func (r *TrashPostgres) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.TrashEntry, error) {
	const q = `
		SELECT ` + trashColumns + `
		FROM trash_entries
		WHERE expires_at <= $1
		ORDER BY expires_at
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TrashEntry, 0)
	for rows.Next() {
		e, err := scanTrashEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// Stats aggregates the trash for the viewer in one round trip per facet.
func (r *TrashPostgres) Stats(ctx context.Context, f repository.TrashFilter, now time.Time) (*model.TrashStats, error) {
	const q = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE expires_at > $3 AND expires_at <= $3 + interval '7 days'),
			COUNT(*) FILTER (WHERE expires_at <= $3),
			COUNT(*) FILTER (WHERE expires_at > $3)
		FROM trash_entries
		WHERE ($1 = '' OR entity_type = $1)
		AND ($2 = '' OR trashed_by::text = $2)
	`
	stats := &model.TrashStats{ByType: make(map[string]int)}
	if err := r.db.QueryRowContext(ctx, q, f.EntityType, f.TrashedByID, now).Scan(
		&stats.Total, &stats.ExpiringSoon, &stats.Expired, &stats.CanRestore); err != nil {
		return nil, err
	}

	const byType = `
		SELECT entity_type, COUNT(*)
		FROM trash_entries
		WHERE ($1 = '' OR entity_type = $1)
		AND ($2 = '' OR trashed_by::text = $2)
		GROUP BY entity_type
	`
	rows, err := r.db.QueryContext(ctx, byType, f.EntityType, f.TrashedByID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		stats.ByType[t] = n
	}
	return stats, rows.Err()
}
