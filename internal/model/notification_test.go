package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreferenceAllowsChannel(t *testing.T) {
	p := DefaultNotificationPreference("u1")
	assert.True(t, p.AllowsChannel(ChannelEmail))
	assert.True(t, p.AllowsChannel(ChannelInApp))

	p.EmailEnabled = false
	assert.False(t, p.AllowsChannel(ChannelEmail))
	assert.False(t, p.AllowsChannel("unknown"))
}

func TestPreferenceAllowsEvent(t *testing.T) {
	p := DefaultNotificationPreference("u1")
	assert.True(t, p.AllowsEvent(EventClaimApproved))

	p.DisabledEvents = []string{EventClaimApproved}
	assert.False(t, p.AllowsEvent(EventClaimApproved))
	assert.True(t, p.AllowsEvent(EventPaymentDue))
}

func TestPreferenceInQuietHours(t *testing.T) {
	p := DefaultNotificationPreference("u1")
	p.QuietHoursEnabled = true
	p.QuietHoursStart = 22
	p.QuietHoursEnd = 7

	at := func(h int) time.Time { return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC) }

	assert.True(t, p.InQuietHours(at(23)))
	assert.True(t, p.InQuietHours(at(3)))
	assert.False(t, p.InQuietHours(at(12)))

	p.QuietHoursEnabled = false
	assert.False(t, p.InQuietHours(at(23)))
}
