package model

import "time"

// Notification types.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
	NotifyAction  = "action"
)

// Notification channels.
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// Notification event keys used by preference checks.
const (
	EventPolicyCreated   = "policy_created"
	EventPolicyExpiring  = "policy_expiring"
	EventPolicyExpired   = "policy_expired"
	EventClaimSubmitted  = "claim_submitted"
	EventClaimUpdated    = "claim_updated"
	EventClaimApproved   = "claim_approved"
	EventClaimRejected   = "claim_rejected"
	EventPaymentDue      = "payment_due"
	EventPaymentReceived = "payment_received"
	EventPaymentOverdue  = "payment_overdue"
	EventTicketAssigned  = "ticket_assigned"
	EventSecurityAlert   = "security_alert"
)

// Notification is a message delivered to a user over a channel.
// EntityType/EntityID link back to the record that triggered it.
type Notification struct {
	ID         string     `json:"id"`
	RecipientID string    `json:"recipient_id"`
	SenderID   *string    `json:"sender_id,omitempty"`
	Type       string     `json:"type"`
	Channel    string     `json:"channel"`
	Event      string     `json:"event,omitempty"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Icon       string     `json:"icon,omitempty"`
	EntityType string     `json:"entity_type,omitempty"`
	EntityID   string     `json:"entity_id,omitempty"`
	ActionURL  string     `json:"action_url,omitempty"`
	IsRead     bool       `json:"is_read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	IsArchived bool       `json:"is_archived"`
	DeliveryStatus string `json:"delivery_status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Delivery statuses.
const (
	DeliveryPending   = "pending"
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// NotificationPreference controls which channels and events reach a user,
// including a nightly quiet window for non-urgent traffic.
type NotificationPreference struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	EmailEnabled      bool      `json:"email_enabled"`
	SMSEnabled        bool      `json:"sms_enabled"`
	PushEnabled       bool      `json:"push_enabled"`
	InAppEnabled      bool      `json:"in_app_enabled"`
	DisabledEvents    []string  `json:"disabled_events,omitempty"`
	QuietHoursEnabled bool      `json:"quiet_hours_enabled"`
	QuietHoursStart   int       `json:"quiet_hours_start"` // hour of day, 0-23
	QuietHoursEnd     int       `json:"quiet_hours_end"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultNotificationPreference enables every channel and event.
func DefaultNotificationPreference(userID string) *NotificationPreference {
	return &NotificationPreference{
		UserID:          userID,
		EmailEnabled:    true,
		SMSEnabled:      true,
		PushEnabled:     true,
		InAppEnabled:    true,
		QuietHoursStart: 22,
		QuietHoursEnd:   7,
	}
}

// AllowsChannel reports whether the channel is enabled.
func (p *NotificationPreference) AllowsChannel(channel string) bool {
	switch channel {
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelSMS:
		return p.SMSEnabled
	case ChannelPush:
		return p.PushEnabled
	case ChannelInApp:
		return p.InAppEnabled
	}
	return false
}

// AllowsEvent reports whether the user opted out of the event.
func (p *NotificationPreference) AllowsEvent(event string) bool {
	for _, e := range p.DisabledEvents {
		if e == event {
			return false
		}
	}
	return true
}

// InQuietHours reports whether now falls inside the quiet window. The
// window may wrap midnight (22 -> 7).
func (p *NotificationPreference) InQuietHours(now time.Time) bool {
	if !p.QuietHoursEnabled {
		return false
	}
	h := now.Hour()
	if p.QuietHoursStart <= p.QuietHoursEnd {
		return h >= p.QuietHoursStart && h < p.QuietHoursEnd
	}
	return h >= p.QuietHoursStart || h < p.QuietHoursEnd
}
