package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
)

// DepartmentRepository defines data access for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, d *model.Department) (*model.Department, error)
	FindByID(ctx context.Context, id string) (*model.Department, error)
	FindByCode(ctx context.Context, code string) (*model.Department, error)
	List(ctx context.Context, includeInactive bool) ([]model.Department, error)
	Update(ctx context.Context, d *model.Department) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}

// WorkClassRepository defines data access for workclasses.
type WorkClassRepository interface {
	Create(ctx context.Context, w *model.WorkClass) (*model.WorkClass, error)
	FindByID(ctx context.Context, id string) (*model.WorkClass, error)
	FindByCode(ctx context.Context, code string) (*model.WorkClass, error)
	List(ctx context.Context, includeInactive bool) ([]model.WorkClass, error)
	Update(ctx context.Context, w *model.WorkClass) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}

// AgentFilter narrows agent listings.
type AgentFilter struct {
	DepartmentID  string
	AvailableOnly bool
}

// AgentRepository defines data access for agent profiles. Aggregate
// fields (MaxLevel, MaxMonetaryLimit) are computed over the assigned
// workclasses at read time.
type AgentRepository interface {
	Create(ctx context.Context, a *model.AgentProfile) (*model.AgentProfile, error)
	FindByID(ctx context.Context, id string) (*model.AgentProfile, error)
	FindByUserID(ctx context.Context, userID string) (*model.AgentProfile, error)
	List(ctx context.Context, f AgentFilter, pq PageQuery) (*PageResult[model.AgentProfile], error)
	Update(ctx context.Context, a *model.AgentProfile) error
	SetWorkClasses(ctx context.Context, agentID string, workClassIDs []string) error
	SetAvailability(ctx context.Context, id string, available bool) error

	// AdjustLoad changes current_load by delta, clamped at zero.
	AdjustLoad(ctx context.Context, id string, delta int) error

	// FindCandidates returns available agents with free capacity whose
	// best workclass covers the level and amount, in the given department
	// or unassigned, ordered by current load ascending.
	FindCandidates(ctx context.Context, minLevel int, departmentID *string, amount decimal.Decimal) ([]model.AgentProfile, error)
}

// TicketFilter narrows ticket listings.
type TicketFilter struct {
	Status       string
	Priority     string
	TicketType   string
	AssignedToID string
	CustomerID   string
	Unassigned   bool
}

// TicketRepository defines data access for tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error)
	FindByID(ctx context.Context, id string) (*model.Ticket, error)
	FindByReference(ctx context.Context, ref string) (*model.Ticket, error)
	List(ctx context.Context, f TicketFilter, pq PageQuery) (*PageResult[model.Ticket], error)
	Update(ctx context.Context, t *model.Ticket) error
	Trash(ctx context.Context, id string, tr model.Trashable) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error

	// CountByStatus returns ticket counts keyed by status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// TicketActivityRepository records the per-ticket audit trail.
type TicketActivityRepository interface {
	Create(ctx context.Context, a *model.TicketActivity) (*model.TicketActivity, error)
	ListByTicket(ctx context.Context, ticketID string) ([]model.TicketActivity, error)
}

// PerformanceRepository defines data access for agent performance rows.
type PerformanceRepository interface {
	// Upsert inserts or replaces the row for (agent, period type, start).
	Upsert(ctx context.Context, p *model.AgentPerformance) (*model.AgentPerformance, error)
	Find(ctx context.Context, agentID, periodType string, periodStart time.Time) (*model.AgentPerformance, error)
	ListByAgent(ctx context.Context, agentID string, pq PageQuery) (*PageResult[model.AgentPerformance], error)
}
