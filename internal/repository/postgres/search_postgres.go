package postgres

import (
	"context"
	"database/sql"
	"strings"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// SearchPostgres is a PostgreSQL implementation of repository.SearchRepository.
type SearchPostgres struct {
	db *sql.DB
}

func NewSearchPostgres(db *sql.DB) *SearchPostgres {
	return &SearchPostgres{db: db}
}

var _ repository.SearchRepository = (*SearchPostgres)(nil)

const searchColumns = `id, entity_type, entity_id, title, subtitle, content, keywords, icon, url,
	visibility, owner_id, weight, created_at, updated_at`

func scanSearchEntry(row interface{ Scan(...any) error }) (*model.SearchEntry, error) {
	var e model.SearchEntry
	err := row.Scan(
		&e.ID,
		&e.EntityType,
		&e.EntityID,
		&e.Title,
		&e.Subtitle,
		&e.Content,
		&e.Keywords,
		&e.Icon,
		&e.URL,
		&e.Visibility,
		&e.OwnerID,
		&e.Weight,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SearchPostgres) Upsert(ctx context.Context, e *model.SearchEntry) (*model.SearchEntry, error) {
	const q = `
		INSERT INTO search_entries (entity_type, entity_id, title, subtitle, content, keywords,
			icon, url, visibility, owner_id, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (entity_type, entity_id) DO UPDATE SET
			title = EXCLUDED.title,
			subtitle = EXCLUDED.subtitle,
			content = EXCLUDED.content,
			keywords = EXCLUDED.keywords,
			icon = EXCLUDED.icon,
			url = EXCLUDED.url,
			visibility = EXCLUDED.visibility,
			owner_id = EXCLUDED.owner_id,
			weight = EXCLUDED.weight,
			updated_at = now()
		RETURNING ` + searchColumns
	return scanSearchEntry(r.db.QueryRowContext(ctx, q,
		e.EntityType, e.EntityID, e.Title, e.Subtitle, e.Content, e.Keywords,
		e.Icon, e.URL, e.Visibility, e.OwnerID, e.Weight))
}

func (r *SearchPostgres) DeleteEntity(ctx context.Context, entityType, entityID string) error {
	const q = `DELETE FROM search_entries WHERE entity_type = $1 AND entity_id = $2`
	_, err := r.db.ExecContext(ctx, q, entityType, entityID)
	return err
}

// likeEscaper neutralizes LIKE metacharacters so a query of "%" or "_"
// matches literally instead of every row.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *SearchPostgres) Query(ctx context.Context, query string, limit int) ([]model.SearchEntry, error) {
	const q = `
		SELECT ` + searchColumns + `
		FROM search_entries
		WHERE title ILIKE '%' || $1 || '%'
			OR keywords ILIKE '%' || $1 || '%'
			OR content ILIKE '%' || $1 || '%'
		ORDER BY weight DESC, updated_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, likeEscaper.Replace(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SearchEntry, 0)
	for rows.Next() {
		e, err := scanSearchEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r *SearchPostgres) RecordHistory(ctx context.Context, h *model.SearchHistory) error {
	const q = `
		INSERT INTO search_history (user_id, query, results_count, clicked_entity_id, clicked_entity_type, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, q,
		h.UserID, h.Query, h.ResultsCount, h.ClickedEntityID, h.ClickedEntityType, h.DurationMillis)
	return err
}

func (r *SearchPostgres) RecentQueries(ctx context.Context, userID string, limit int) ([]model.SearchHistory, error) {
	const q = `
		SELECT id, user_id, query, results_count, clicked_entity_id, clicked_entity_type, duration_ms, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SearchHistory, 0)
	for rows.Next() {
		var h model.SearchHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.Query, &h.ResultsCount,
			&h.ClickedEntityID, &h.ClickedEntityType, &h.DurationMillis, &h.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}
