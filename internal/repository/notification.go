package repository

import (
	"context"

	"ifinsure/internal/model"
)

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	UnreadOnly      bool
	IncludeArchived bool
}

// NotificationRepository defines data access for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, f NotificationFilter, pq PageQuery) (*PageResult[model.Notification], error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Archive(ctx context.Context, id string) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
	UpdateDeliveryStatus(ctx context.Context, id, status string) error
}

// PreferenceRepository defines data access for notification preferences.
type PreferenceRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.NotificationPreference, error)
	Save(ctx context.Context, p *model.NotificationPreference) (*model.NotificationPreference, error)
}
