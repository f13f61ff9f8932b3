package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, recipient_id, sender_id, notify_type, channel, event, title, message,
	icon, entity_type, entity_id, action_url, is_read, read_at, is_archived, delivery_status, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*model.Notification, error) {
	var n model.Notification
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.SenderID,
		&n.Type,
		&n.Channel,
		&n.Event,
		&n.Title,
		&n.Message,
		&n.Icon,
		&n.EntityType,
		&n.EntityID,
		&n.ActionURL,
		&n.IsRead,
		&n.ReadAt,
		&n.IsArchived,
		&n.DeliveryStatus,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	const q = `
		INSERT INTO notifications (recipient_id, sender_id, notify_type, channel, event, title, message,
			icon, entity_type, entity_id, action_url, delivery_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRowContext(ctx, q,
		n.RecipientID, n.SenderID, n.Type, n.Channel, n.Event, n.Title, n.Message,
		n.Icon, n.EntityType, n.EntityID, n.ActionURL, n.DeliveryStatus))
}

func (r *NotificationPostgres) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	const q = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(r.db.QueryRowContext(ctx, q, id))
}

func (r *NotificationPostgres) ListByRecipient(ctx context.Context, recipientID string, f repository.NotificationFilter, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	const where = `
		WHERE recipient_id = $1
		AND (NOT $2 OR NOT is_read)
		AND ($3 OR NOT is_archived)
	`
	args := []any{recipientID, f.UnreadOnly, f.IncludeArchived}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications`+where+` ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Notification]{Items: items, Total: total}, nil
}

func (r *NotificationPostgres) MarkRead(ctx context.Context, id string) error {
	const q = `UPDATE notifications SET is_read = TRUE, read_at = now() WHERE id = $1 AND NOT is_read`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *NotificationPostgres) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	const q = `UPDATE notifications SET is_read = TRUE, read_at = now() WHERE recipient_id = $1 AND NOT is_read`
	res, err := r.db.ExecContext(ctx, q, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationPostgres) Archive(ctx context.Context, id string) error {
	const q = `UPDATE notifications SET is_archived = TRUE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *NotificationPostgres) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read AND NOT is_archived`
	var n int
	err := r.db.QueryRowContext(ctx, q, recipientID).Scan(&n)
	return n, err
}

func (r *NotificationPostgres) UpdateDeliveryStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE notifications SET delivery_status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}

// PreferencePostgres is a PostgreSQL implementation of repository.PreferenceRepository.
type PreferencePostgres struct {
	db *sql.DB
}

func NewPreferencePostgres(db *sql.DB) *PreferencePostgres {
	return &PreferencePostgres{db: db}
}

var _ repository.PreferenceRepository = (*PreferencePostgres)(nil)

const preferenceColumns = `id, user_id, email_enabled, sms_enabled, push_enabled, in_app_enabled,
	disabled_events, quiet_hours_enabled, quiet_hours_start, quiet_hours_end, created_at, updated_at`

func scanPreference(row interface{ Scan(...any) error }) (*model.NotificationPreference, error) {
	var p model.NotificationPreference
	var disabled []byte
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.EmailEnabled,
		&p.SMSEnabled,
		&p.PushEnabled,
		&p.InAppEnabled,
		&disabled,
		&p.QuietHoursEnabled,
		&p.QuietHoursStart,
		&p.QuietHoursEnd,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(disabled) > 0 {
		if err := json.Unmarshal(disabled, &p.DisabledEvents); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (r *PreferencePostgres) FindByUserID(ctx context.Context, userID string) (*model.NotificationPreference, error) {
	const q = `SELECT ` + preferenceColumns + ` FROM notification_preferences WHERE user_id = $1`
	return scanPreference(r.db.QueryRowContext(ctx, q, userID))
}

// Save upserts the preference row keyed by user.
func (r *PreferencePostgres) Save(ctx context.Context, p *model.NotificationPreference) (*model.NotificationPreference, error) {
	disabled, err := json.Marshal(p.DisabledEvents)
	if err != nil {
		return nil, err
	}
	if p.DisabledEvents == nil {
		disabled = []byte("[]")
	}
	const q = `
		INSERT INTO notification_preferences (user_id, email_enabled, sms_enabled, push_enabled,
			in_app_enabled, disabled_events, quiet_hours_enabled, quiet_hours_start, quiet_hours_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			sms_enabled = EXCLUDED.sms_enabled,
			push_enabled = EXCLUDED.push_enabled,
			in_app_enabled = EXCLUDED.in_app_enabled,
			disabled_events = EXCLUDED.disabled_events,
			quiet_hours_enabled = EXCLUDED.quiet_hours_enabled,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			updated_at = now()
		RETURNING ` + preferenceColumns
	return scanPreference(r.db.QueryRowContext(ctx, q,
		p.UserID, p.EmailEnabled, p.SMSEnabled, p.PushEnabled,
		p.InAppEnabled, disabled, p.QuietHoursEnabled, p.QuietHoursStart, p.QuietHoursEnd))
}
