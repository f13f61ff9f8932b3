package model

import (
	"encoding/json"
	"time"
)

// TrashRetention is how long trashed records are kept before the purge
// worker permanently deletes them.
const TrashRetention = 30 * 24 * time.Hour

// Entity type names shared by the trash registry, the search index and
// notification links.
const (
	EntityUser        = "user"
	EntityDepartment  = "department"
	EntityWorkClass   = "workclass"
	EntityTicket      = "ticket"
	EntityProvider    = "provider"
	EntityCategory    = "category"
	EntityProduct     = "product"
	EntityLead        = "lead"
	EntityPolicy      = "policy"
	EntityApplication = "application"
	EntityClaim       = "claim"
	EntityInvoice     = "invoice"
	EntityPayment     = "payment"
	EntityWallet      = "wallet"
	EntityReview      = "review"
)

// Trashable carries the soft-delete state embedded in trashable entities.
// A nil TrashedAt means the record is live.
type Trashable struct {
	TrashedAt         *time.Time `json:"trashed_at,omitempty"`
	TrashedByID       *string    `json:"trashed_by_id,omitempty"`
	TrashReason       string     `json:"trash_reason,omitempty"`
	PermanentDeleteAt *time.Time `json:"permanent_delete_at,omitempty"`
}

// IsTrashed reports whether the record sits in the trash.
func (t *Trashable) IsTrashed() bool { return t.TrashedAt != nil }

// DaysUntilPurge returns the whole days left before permanent deletion,
// or -1 when no purge is scheduled.
func (t *Trashable) DaysUntilPurge(now time.Time) int {
	if t.PermanentDeleteAt == nil {
		return -1
	}
	d := int(t.PermanentDeleteAt.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// TrashEntry is a registry row describing a trashed record of any entity
// type, so the trash screen can list everything in one place.
type TrashEntry struct {
	ID          string          `json:"id"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Icon        string          `json:"icon"`
	TrashedByID *string         `json:"trashed_by_id,omitempty"`
	TrashReason string          `json:"trash_reason,omitempty"`
	Snapshot    json.RawMessage `json:"snapshot,omitempty"`
	ExpiresAt   time.Time       `json:"expires_at"`
	RestorePath string          `json:"restore_path,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IsExpired reports whether the entry passed its retention deadline.
func (e *TrashEntry) IsExpired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// TrashStats summarizes the state of the trash for the current viewer.
type TrashStats struct {
	Total        int            `json:"total"`
	ExpiringSoon int            `json:"expiring_soon"`
	Expired      int            `json:"expired"`
	CanRestore   int            `json:"can_restore"`
	ByType       map[string]int `json:"by_type"`
}
