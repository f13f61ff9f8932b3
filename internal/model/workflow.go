package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Department groups agents and tickets for routing.
type Department struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Trashable
}

// WorkClass levels, 1 (trainee) through 5 (supervisor).
const (
	WorkClassLevelTrainee    = 1
	WorkClassLevelJunior     = 2
	WorkClassLevelAgent      = 3
	WorkClassLevelSenior     = 4
	WorkClassLevelSupervisor = 5
)

// WorkClass defines the scope of operations an agent can perform: an
// authority level, a monetary approval limit, and a daily ticket quota.
type WorkClass struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Level            int             `json:"level"`
	DepartmentID     *string         `json:"department_id,omitempty"`
	Description      string          `json:"description,omitempty"`
	MonetaryLimit    decimal.Decimal `json:"monetary_limit"`
	Permissions      map[string]bool `json:"permissions,omitempty"`
	DailyTicketLimit int             `json:"daily_ticket_limit"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Trashable
}

// HasPermission checks a named permission flag.
func (w *WorkClass) HasPermission(key string) bool {
	return w.Permissions[key]
}

// CanHandleAmount reports whether this workclass may approve the given
// amount. Supervisor level has no cap.
func (w *WorkClass) CanHandleAmount(amount decimal.Decimal) bool {
	if w.Level >= WorkClassLevelSupervisor {
		return true
	}
	return amount.LessThanOrEqual(w.MonetaryLimit)
}

// Agent shifts.
const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftNight     = "night"
	ShiftFlexible  = "flexible"
)

// AgentProfile extends a back-office user with workclass assignments and
// capacity tracking. MaxLevel and MaxMonetaryLimit are aggregates over the
// assigned workclasses, computed by the repository.
type AgentProfile struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	EmployeeID         string          `json:"employee_id,omitempty"`
	WorkClassIDs       []string        `json:"workclass_ids,omitempty"`
	PrimaryWorkClassID *string         `json:"primary_workclass_id,omitempty"`
	DepartmentID       *string         `json:"department_id,omitempty"`
	SupervisorID       *string         `json:"supervisor_id,omitempty"`
	DailyCapacity      int             `json:"daily_capacity"`
	CurrentLoad        int             `json:"current_load"`
	IsAvailable        bool            `json:"is_available"`
	Shift              string          `json:"shift"`
	MaxLevel           int             `json:"max_level"`
	MaxMonetaryLimit   decimal.Decimal `json:"max_monetary_limit"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// CanHandle reports whether the agent can take the ticket right now.
func (a *AgentProfile) CanHandle(t *Ticket) bool {
	if !a.IsAvailable {
		return false
	}
	if a.CurrentLoad >= a.DailyCapacity {
		return false
	}
	return t.RequiredLevel <= a.MaxLevel
}

// Ticket types.
const (
	TicketTypeClaim       = "claim"
	TicketTypePolicy      = "policy"
	TicketTypeBilling     = "billing"
	TicketTypeInquiry     = "inquiry"
	TicketTypeComplaint   = "complaint"
	TicketTypeRenewal     = "renewal"
	TicketTypeEndorsement = "endorsement"
)

// Ticket priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Ticket statuses.
const (
	TicketOpen            = "open"
	TicketAssigned        = "assigned"
	TicketInProgress      = "in_progress"
	TicketPendingCustomer = "pending_customer"
	TicketPendingApproval = "pending_approval"
	TicketEscalated       = "escalated"
	TicketResolved        = "resolved"
	TicketClosed          = "closed"
	TicketCancelled       = "cancelled"
)

// Ticket is a unit of work routed to agents. EntityType/EntityID link the
// ticket to the claim, application, or invoice that spawned it.
type Ticket struct {
	ID              string          `json:"id"`
	Reference       string          `json:"reference"`
	TicketType      string          `json:"ticket_type"`
	Priority        string          `json:"priority"`
	Status          string          `json:"status"`
	EntityType      string          `json:"entity_type,omitempty"`
	EntityID        string          `json:"entity_id,omitempty"`
	RequiredLevel   int             `json:"required_level"`
	DepartmentID    *string         `json:"department_id,omitempty"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
	AssignedToID    *string         `json:"assigned_to_id,omitempty"`
	AssignedByID    *string         `json:"assigned_by_id,omitempty"`
	AssignedAt      *time.Time      `json:"assigned_at,omitempty"`
	CustomerID      *string         `json:"customer_id,omitempty"`
	Subject         string          `json:"subject"`
	Description     string          `json:"description,omitempty"`
	SLADueAt        *time.Time      `json:"sla_due_at,omitempty"`
	FirstResponseAt *time.Time      `json:"first_response_at,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	ResolutionNotes string          `json:"resolution_notes,omitempty"`
	EscalatedFromID *string         `json:"escalated_from_id,omitempty"`
	EscalationReason string         `json:"escalation_reason,omitempty"`
	CreatedByID     *string         `json:"created_by_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Trashable
}

// RequiredLevelForAmount maps a monetary value to the minimum workclass
// level allowed to handle it.
func RequiredLevelForAmount(amount decimal.Decimal) int {
	switch {
	case amount.GreaterThan(decimal.NewFromInt(500000)):
		return WorkClassLevelSupervisor
	case amount.GreaterThan(decimal.NewFromInt(100000)):
		return WorkClassLevelSenior
	case amount.GreaterThan(decimal.NewFromInt(50000)):
		return WorkClassLevelAgent
	default:
		return WorkClassLevelJunior
	}
}

// PriorityForAmount maps a claim amount to a ticket priority.
func PriorityForAmount(amount decimal.Decimal) string {
	switch {
	case amount.GreaterThan(decimal.NewFromInt(500000)):
		return PriorityUrgent
	case amount.GreaterThan(decimal.NewFromInt(100000)):
		return PriorityHigh
	case amount.GreaterThan(decimal.NewFromInt(50000)):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// IsOverdue reports whether the ticket blew its SLA.
func (t *Ticket) IsOverdue(now time.Time) bool {
	if t.SLADueAt == nil {
		return false
	}
	switch t.Status {
	case TicketResolved, TicketClosed, TicketCancelled:
		return false
	}
	return now.After(*t.SLADueAt)
}

// IsTerminal reports whether no further work happens on the ticket.
func (t *Ticket) IsTerminal() bool {
	switch t.Status {
	case TicketResolved, TicketClosed, TicketCancelled:
		return true
	}
	return false
}

// Ticket activity types.
const (
	ActivityCreated      = "created"
	ActivityAssigned     = "assigned"
	ActivityPicked       = "picked"
	ActivityStatusChange = "status_change"
	ActivityNote         = "note"
	ActivityEscalated    = "escalated"
	ActivityResolved     = "resolved"
	ActivityClosed       = "closed"
	ActivityReopened     = "reopened"
)

// TicketActivity is an audit row recorded for every ticket action.
type TicketActivity struct {
	ID            string            `json:"id"`
	TicketID      string            `json:"ticket_id"`
	ActivityType  string            `json:"activity_type"`
	PerformedByID *string           `json:"performed_by_id,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
	Note          string            `json:"note,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// AgentPerformance aggregates an agent's metrics over a reporting period.
type AgentPerformance struct {
	ID                string          `json:"id"`
	AgentID           string          `json:"agent_id"`
	PeriodType        string          `json:"period_type"`
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`
	TicketsAssigned   int             `json:"tickets_assigned"`
	TicketsResolved   int             `json:"tickets_resolved"`
	TicketsEscalated  int             `json:"tickets_escalated"`
	AvgResolutionMins int             `json:"avg_resolution_mins"`
	SLAMet            int             `json:"sla_met"`
	SLABreached       int             `json:"sla_breached"`
	PoliciesSold      int             `json:"policies_sold"`
	TotalPremiumValue decimal.Decimal `json:"total_premium_value"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ResolutionRate is the percentage of assigned tickets resolved.
func (p *AgentPerformance) ResolutionRate() float64 {
	if p.TicketsAssigned == 0 {
		return 0
	}
	return float64(p.TicketsResolved) / float64(p.TicketsAssigned) * 100
}

// SLAComplianceRate is the percentage of tickets that met SLA. With no
// data the agent is considered compliant.
func (p *AgentPerformance) SLAComplianceRate() float64 {
	total := p.SLAMet + p.SLABreached
	if total == 0 {
		return 100
	}
	return float64(p.SLAMet) / float64(total) * 100
}
