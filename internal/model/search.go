package model

import "time"

// Record visibility levels, applied when filtering search results.
const (
	VisibilityPublic     = "public"
	VisibilityPrivate    = "private"
	VisibilityInternal   = "internal"
	VisibilityRestricted = "restricted"
)

// SearchEntry is a denormalized index row kept up to date by the services
// that own each entity. Weight orders results within a match.
type SearchEntry struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle,omitempty"`
	Content    string    `json:"content,omitempty"`
	Keywords   string    `json:"keywords,omitempty"`
	Icon       string    `json:"icon,omitempty"`
	URL        string    `json:"url,omitempty"`
	Visibility string    `json:"visibility"`
	OwnerID    *string   `json:"owner_id,omitempty"`
	Weight     int       `json:"weight"`
	UpdatedAt  time.Time `json:"updated_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// VisibleTo applies the visibility rules: public rows for everyone,
// internal rows for back-office users, private/restricted rows for the
// owner, everything for admins.
func (e *SearchEntry) VisibleTo(u *User) bool {
	if e.Visibility == VisibilityPublic {
		return true
	}
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	if e.Visibility == VisibilityInternal {
		return u.IsBackOffice()
	}
	return e.OwnerID != nil && *e.OwnerID == u.ID
}

// SearchHit is a single ranked result returned to the client.
type SearchHit struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	Icon       string `json:"icon,omitempty"`
	URL        string `json:"url,omitempty"`
}

// SearchHistory records a query for suggestions and analytics.
type SearchHistory struct {
	ID               string    `json:"id"`
	UserID           *string   `json:"user_id,omitempty"`
	Query            string    `json:"query"`
	ResultsCount     int       `json:"results_count"`
	ClickedEntityID  string    `json:"clicked_entity_id,omitempty"`
	ClickedEntityType string   `json:"clicked_entity_type,omitempty"`
	DurationMillis   int       `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}
