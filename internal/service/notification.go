package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// NotifyInput describes a notification to dispatch. The service decides
// the channel fan-out and delivery status from the recipient's
// preferences, so callers only name the event and its payload.
type NotifyInput struct {
	RecipientID string
	SenderID    *string
	Type        string
	Event       string
	Title       string
	Message     string
	Icon        string
	EntityType  string
	EntityID    string
	ActionURL   string
}

// NotificationListResult is the service-level DTO for a notification page.
type NotificationListResult struct {
	Items  []model.Notification `json:"data"`
	Total  int                  `json:"total"`
	Unread int                  `json:"unread"`
}

// NotificationService dispatches and manages user notifications.
// Dispatch respects the recipient's preferences: disabled events are
// dropped, disabled channels skipped, and non-urgent traffic inside the
// quiet window is held as pending for a later delivery run.
type NotificationService interface {
	Notify(ctx context.Context, in NotifyInput) ([]model.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, f repository.NotificationFilter, limit, offset int) (*NotificationListResult, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Archive(ctx context.Context, id, recipientID string) error

	GetPreferences(ctx context.Context, userID string) (*model.NotificationPreference, error)
	SavePreferences(ctx context.Context, p *model.NotificationPreference) (*model.NotificationPreference, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	prefs         repository.PreferenceRepository
	now           func() time.Time
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(notifications repository.NotificationRepository, prefs repository.PreferenceRepository) NotificationService {
	return &notificationService{notifications: notifications, prefs: prefs, now: time.Now}
}

func (s *notificationService) Notify(ctx context.Context, in NotifyInput) ([]model.Notification, error) {
	if in.RecipientID == "" {
		return nil, ErrIDRequired
	}
	if in.Type == "" {
		in.Type = model.NotifyInfo
	}

	pref, err := s.prefs.FindByUserID(ctx, in.RecipientID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		pref = model.DefaultNotificationPreference(in.RecipientID)
	}
	if in.Event != "" && !pref.AllowsEvent(in.Event) {
		return nil, nil
	}

	status := model.DeliverySent
	if pref.InQuietHours(s.now()) && !urgent(in.Type) {
		status = model.DeliveryPending
	}

	var created []model.Notification
	for _, channel := range []string{model.ChannelInApp, model.ChannelEmail, model.ChannelSMS, model.ChannelPush} {
		if !pref.AllowsChannel(channel) {
			continue
		}
		n, err := s.notifications.Create(ctx, &model.Notification{
			RecipientID:    in.RecipientID,
			SenderID:       in.SenderID,
			Type:           in.Type,
			Channel:        channel,
			Event:          in.Event,
			Title:          in.Title,
			Message:        in.Message,
			Icon:           in.Icon,
			EntityType:     in.EntityType,
			EntityID:       in.EntityID,
			ActionURL:      in.ActionURL,
			DeliveryStatus: status,
		})
		if err != nil {
			return created, err
		}
		created = append(created, *n)
	}
	return created, nil
}

// urgent traffic ignores quiet hours.
func urgent(notifyType string) bool {
	return notifyType == model.NotifyError || notifyType == model.NotifyAction
}

func (s *notificationService) ListByRecipient(ctx context.Context, recipientID string, f repository.NotificationFilter, limit, offset int) (*NotificationListResult, error) {
	if recipientID == "" {
		return nil, ErrIDRequired
	}
	res, err := s.notifications.ListByRecipient(ctx, recipientID, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &NotificationListResult{Items: res.Items, Total: res.Total, Unread: unread}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID string) error {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if n.RecipientID != recipientID {
		return ErrForbidden
	}
	return s.notifications.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	if recipientID == "" {
		return 0, ErrIDRequired
	}
	return s.notifications.MarkAllRead(ctx, recipientID)
}

func (s *notificationService) Archive(ctx context.Context, id, recipientID string) error {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if n.RecipientID != recipientID {
		return ErrForbidden
	}
	return s.notifications.Archive(ctx, id)
}

func (s *notificationService) GetPreferences(ctx context.Context, userID string) (*model.NotificationPreference, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	pref, err := s.prefs.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultNotificationPreference(userID), nil
		}
		return nil, err
	}
	return pref, nil
}

func (s *notificationService) SavePreferences(ctx context.Context, p *model.NotificationPreference) (*model.NotificationPreference, error) {
	if p.UserID == "" {
		return nil, ErrIDRequired
	}
	return s.prefs.Save(ctx, p)
}
