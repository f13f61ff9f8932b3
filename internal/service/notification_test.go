package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	repoMocks "ifinsure/internal/repository/mocks"
)

func newNotificationService(t *testing.T, at time.Time) (NotificationService, *repoMocks.MockNotificationRepository, *repoMocks.MockPreferenceRepository) {
	t.Helper()
	notifications := &repoMocks.MockNotificationRepository{}
	prefs := &repoMocks.MockPreferenceRepository{}
	svc := NewNotificationService(notifications, prefs)
	svc.(*notificationService).now = fixedClock(at)
	return svc, notifications, prefs
}

func TestNotify(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 8, 15, 14, 0, 0, 0, time.UTC)

	t.Run("fans out over the enabled channels", func(t *testing.T) {
		svc, notifications, prefs := newNotificationService(t, day)
		pref := model.DefaultNotificationPreference("u1")
		pref.SMSEnabled = false
		pref.PushEnabled = false
		prefs.On("FindByUserID", ctx, "u1").Return(pref, nil)

		for _, channel := range []string{model.ChannelInApp, model.ChannelEmail} {
			ch := channel
			notifications.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
				return n.Channel == ch && n.DeliveryStatus == model.DeliverySent
			})).Return(&model.Notification{ID: "n-" + ch, Channel: ch}, nil).Once()
		}

		created, err := svc.Notify(ctx, NotifyInput{
			RecipientID: "u1",
			Event:       model.EventPolicyCreated,
			Title:       "Policy issued",
		})
		assert.NoError(t, err)
		assert.Len(t, created, 2)
		notifications.AssertExpectations(t)
	})

	t.Run("disabled event is dropped silently", func(t *testing.T) {
		svc, notifications, prefs := newNotificationService(t, day)
		pref := model.DefaultNotificationPreference("u1")
		pref.DisabledEvents = []string{model.EventPolicyExpiring}
		prefs.On("FindByUserID", ctx, "u1").Return(pref, nil)

		created, err := svc.Notify(ctx, NotifyInput{
			RecipientID: "u1",
			Event:       model.EventPolicyExpiring,
			Title:       "Expiring",
		})
		assert.NoError(t, err)
		assert.Empty(t, created)
		notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("quiet hours hold non-urgent traffic", func(t *testing.T) {
		night := time.Date(2026, 8, 15, 23, 30, 0, 0, time.UTC)
		svc, notifications, prefs := newNotificationService(t, night)
		pref := model.DefaultNotificationPreference("u1")
		pref.QuietHoursEnabled = true
		pref.EmailEnabled = false
		pref.SMSEnabled = false
		pref.PushEnabled = false
		prefs.On("FindByUserID", ctx, "u1").Return(pref, nil)

		notifications.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
			return n.DeliveryStatus == model.DeliveryPending
		})).Return(&model.Notification{ID: "n1"}, nil)

		_, err := svc.Notify(ctx, NotifyInput{RecipientID: "u1", Type: model.NotifyInfo, Title: "hello"})
		assert.NoError(t, err)
		notifications.AssertExpectations(t)
	})

	t.Run("urgent traffic ignores quiet hours", func(t *testing.T) {
		night := time.Date(2026, 8, 15, 23, 30, 0, 0, time.UTC)
		svc, notifications, prefs := newNotificationService(t, night)
		pref := model.DefaultNotificationPreference("u1")
		pref.QuietHoursEnabled = true
		pref.EmailEnabled = false
		pref.SMSEnabled = false
		pref.PushEnabled = false
		prefs.On("FindByUserID", ctx, "u1").Return(pref, nil)

		notifications.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
			return n.DeliveryStatus == model.DeliverySent
		})).Return(&model.Notification{ID: "n1"}, nil)

		_, err := svc.Notify(ctx, NotifyInput{RecipientID: "u1", Type: model.NotifyAction, Title: "act"})
		assert.NoError(t, err)
		notifications.AssertExpectations(t)
	})

	t.Run("missing preferences fall back to defaults", func(t *testing.T) {
		svc, notifications, prefs := newNotificationService(t, day)
		prefs.On("FindByUserID", ctx, "u1").Return(nil, sql.ErrNoRows)
		notifications.On("Create", ctx, mock.Anything).Return(&model.Notification{}, nil).Times(4)

		created, err := svc.Notify(ctx, NotifyInput{RecipientID: "u1", Title: "hi"})
		assert.NoError(t, err)
		assert.Len(t, created, 4)
	})
}

func TestMarkRead_OwnershipGuard(t *testing.T) {
	ctx := context.Background()
	svc, notifications, _ := newNotificationService(t, time.Now())

	notifications.On("FindByID", ctx, "n1").Return(&model.Notification{ID: "n1", RecipientID: "owner"}, nil)

	err := svc.MarkRead(ctx, "n1", "intruder")
	assert.ErrorIs(t, err, ErrForbidden)
	notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}
