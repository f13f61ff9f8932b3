package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

// DepartmentPostgres is a PostgreSQL implementation of repository.DepartmentRepository.
type DepartmentPostgres struct {
	db *sql.DB
}

func NewDepartmentPostgres(db *sql.DB) *DepartmentPostgres {
	return &DepartmentPostgres{db: db}
}

var _ repository.DepartmentRepository = (*DepartmentPostgres)(nil)

const departmentColumns = `id, code, name, description, is_active,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanDepartment(row interface{ Scan(...any) error }) (*model.Department, error) {
	var d model.Department
	err := row.Scan(
		&d.ID,
		&d.Code,
		&d.Name,
		&d.Description,
		&d.IsActive,
		&d.TrashedAt,
		&d.TrashedByID,
		&d.TrashReason,
		&d.PermanentDeleteAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentPostgres) Create(ctx context.Context, d *model.Department) (*model.Department, error) {
	const q = `
		INSERT INTO departments (code, name, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + departmentColumns
	return scanDepartment(r.db.QueryRowContext(ctx, q, d.Code, d.Name, d.Description, d.IsActive))
}

func (r *DepartmentPostgres) FindByID(ctx context.Context, id string) (*model.Department, error) {
	const q = `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	return scanDepartment(r.db.QueryRowContext(ctx, q, id))
}

func (r *DepartmentPostgres) FindByCode(ctx context.Context, code string) (*model.Department, error) {
	const q = `SELECT ` + departmentColumns + ` FROM departments WHERE code = $1`
	return scanDepartment(r.db.QueryRowContext(ctx, q, code))
}

func (r *DepartmentPostgres) List(ctx context.Context, includeInactive bool) ([]model.Department, error) {
	const q = `
		SELECT ` + departmentColumns + `
		FROM departments
		WHERE trashed_at IS NULL AND ($1 OR is_active)
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, q, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *DepartmentPostgres) Update(ctx context.Context, d *model.Department) error {
	const q = `
		UPDATE departments
		SET code = $2, name = $3, description = $4, is_active = $5, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, d.ID, d.Code, d.Name, d.Description, d.IsActive)
	return err
}

func (r *DepartmentPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "departments", id, tr)
}

func (r *DepartmentPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "departments", id)
}

func (r *DepartmentPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "departments", id)
}

// WorkClassPostgres is a PostgreSQL implementation of repository.WorkClassRepository.
type WorkClassPostgres struct {
	db *sql.DB
}

func NewWorkClassPostgres(db *sql.DB) *WorkClassPostgres {
	return &WorkClassPostgres{db: db}
}

var _ repository.WorkClassRepository = (*WorkClassPostgres)(nil)

const workClassColumns = `id, code, name, level, department_id, description, monetary_limit,
	permissions, daily_ticket_limit, is_active,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanWorkClass(row interface{ Scan(...any) error }) (*model.WorkClass, error) {
	var w model.WorkClass
	var perms []byte
	err := row.Scan(
		&w.ID,
		&w.Code,
		&w.Name,
		&w.Level,
		&w.DepartmentID,
		&w.Description,
		&w.MonetaryLimit,
		&perms,
		&w.DailyTicketLimit,
		&w.IsActive,
		&w.TrashedAt,
		&w.TrashedByID,
		&w.TrashReason,
		&w.PermanentDeleteAt,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(perms) > 0 {
		if err := json.Unmarshal(perms, &w.Permissions); err != nil {
			return nil, err
		}
	}
	return &w, nil
}

func (r *WorkClassPostgres) Create(ctx context.Context, w *model.WorkClass) (*model.WorkClass, error) {
	perms, err := json.Marshal(w.Permissions)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO workclasses (code, name, level, department_id, description, monetary_limit,
			permissions, daily_ticket_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + workClassColumns
	return scanWorkClass(r.db.QueryRowContext(ctx, q,
		w.Code, w.Name, w.Level, w.DepartmentID, w.Description, w.MonetaryLimit,
		perms, w.DailyTicketLimit, w.IsActive))
}

func (r *WorkClassPostgres) FindByID(ctx context.Context, id string) (*model.WorkClass, error) {
	const q = `SELECT ` + workClassColumns + ` FROM workclasses WHERE id = $1`
	return scanWorkClass(r.db.QueryRowContext(ctx, q, id))
}

func (r *WorkClassPostgres) FindByCode(ctx context.Context, code string) (*model.WorkClass, error) {
	const q = `SELECT ` + workClassColumns + ` FROM workclasses WHERE code = $1`
	return scanWorkClass(r.db.QueryRowContext(ctx, q, code))
}

func (r *WorkClassPostgres) List(ctx context.Context, includeInactive bool) ([]model.WorkClass, error) {
	const q = `
		SELECT ` + workClassColumns + `
		FROM workclasses
		WHERE trashed_at IS NULL AND ($1 OR is_active)
		ORDER BY level, name
	`
	rows, err := r.db.QueryContext(ctx, q, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WorkClass, 0)
	for rows.Next() {
		w, err := scanWorkClass(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

func (r *WorkClassPostgres) Update(ctx context.Context, w *model.WorkClass) error {
	perms, err := json.Marshal(w.Permissions)
	if err != nil {
		return err
	}
	const q = `
		UPDATE workclasses
		SET code = $2, name = $3, level = $4, department_id = $5, description = $6,
			monetary_limit = $7, permissions = $8, daily_ticket_limit = $9, is_active = $10, updated_at = now()
		WHERE id = $1
	`
	_, err = r.db.ExecContext(ctx, q,
		w.ID, w.Code, w.Name, w.Level, w.DepartmentID, w.Description,
		w.MonetaryLimit, perms, w.DailyTicketLimit, w.IsActive)
	return err
}

func (r *WorkClassPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "workclasses", id, tr)
}

func (r *WorkClassPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "workclasses", id)
}

func (r *WorkClassPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "workclasses", id)
}

// AgentPostgres is a PostgreSQL implementation of repository.AgentRepository.
// MaxLevel and MaxMonetaryLimit come from scalar subqueries over the
// assigned workclasses.
type AgentPostgres struct {
	db *sql.DB
}

func NewAgentPostgres(db *sql.DB) *AgentPostgres {
	return &AgentPostgres{db: db}
}

var _ repository.AgentRepository = (*AgentPostgres)(nil)

const agentColumns = `a.id, a.user_id, COALESCE(a.employee_id, ''), a.primary_workclass_id,
	a.department_id, a.supervisor_id, a.daily_capacity, a.current_load, a.is_available, a.shift,
	COALESCE((SELECT string_agg(aw.workclass_id::text, ',' ORDER BY aw.workclass_id)
		FROM agent_workclasses aw WHERE aw.agent_id = a.id), ''),
	COALESCE((SELECT MAX(w.level) FROM agent_workclasses aw
		JOIN workclasses w ON w.id = aw.workclass_id
		WHERE aw.agent_id = a.id AND w.is_active), 0),
	COALESCE((SELECT MAX(w.monetary_limit) FROM agent_workclasses aw
		JOIN workclasses w ON w.id = aw.workclass_id
		WHERE aw.agent_id = a.id AND w.is_active), 0),
	a.created_at, a.updated_at`

func scanAgent(row interface{ Scan(...any) error }) (*model.AgentProfile, error) {
	var a model.AgentProfile
	var workClassIDs string
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.EmployeeID,
		&a.PrimaryWorkClassID,
		&a.DepartmentID,
		&a.SupervisorID,
		&a.DailyCapacity,
		&a.CurrentLoad,
		&a.IsAvailable,
		&a.Shift,
		&workClassIDs,
		&a.MaxLevel,
		&a.MaxMonetaryLimit,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if workClassIDs != "" {
		a.WorkClassIDs = strings.Split(workClassIDs, ",")
	}
	return &a, nil
}

func (r *AgentPostgres) Create(ctx context.Context, a *model.AgentProfile) (*model.AgentProfile, error) {
	const q = `
		INSERT INTO agent_profiles (user_id, employee_id, primary_workclass_id, department_id,
			supervisor_id, daily_capacity, current_load, is_available, shift)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id string
	err := r.db.QueryRowContext(ctx, q,
		a.UserID, a.EmployeeID, a.PrimaryWorkClassID, a.DepartmentID,
		a.SupervisorID, a.DailyCapacity, a.CurrentLoad, a.IsAvailable, a.Shift).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *AgentPostgres) FindByID(ctx context.Context, id string) (*model.AgentProfile, error) {
	const q = `SELECT ` + agentColumns + ` FROM agent_profiles a WHERE a.id = $1`
	return scanAgent(r.db.QueryRowContext(ctx, q, id))
}

func (r *AgentPostgres) FindByUserID(ctx context.Context, userID string) (*model.AgentProfile, error) {
	const q = `SELECT ` + agentColumns + ` FROM agent_profiles a WHERE a.user_id = $1`
	return scanAgent(r.db.QueryRowContext(ctx, q, userID))
}

func (r *AgentPostgres) List(ctx context.Context, f repository.AgentFilter, pq repository.PageQuery) (*repository.PageResult[model.AgentProfile], error) {
	const where = `
		WHERE ($1 = '' OR a.department_id::text = $1)
		AND (NOT $2 OR a.is_available)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agent_profiles a`+where,
		f.DepartmentID, f.AvailableOnly).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+agentColumns+` FROM agent_profiles a`+where+` ORDER BY a.created_at, a.id LIMIT $3 OFFSET $4`,
		f.DepartmentID, f.AvailableOnly, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AgentProfile, 0)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.AgentProfile]{Items: items, Total: total}, nil
}

func (r *AgentPostgres) Update(ctx context.Context, a *model.AgentProfile) error {
	const q = `
		UPDATE agent_profiles
		SET employee_id = NULLIF($2, ''), primary_workclass_id = $3, department_id = $4,
			supervisor_id = $5, daily_capacity = $6, is_available = $7, shift = $8, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.EmployeeID, a.PrimaryWorkClassID, a.DepartmentID,
		a.SupervisorID, a.DailyCapacity, a.IsAvailable, a.Shift)
	return err
}

// SetWorkClasses replaces the m2m assignments in one transaction.
func (r *AgentPostgres) SetWorkClasses(ctx context.Context, agentID string, workClassIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM agent_workclasses WHERE agent_id = $1`, agentID); err != nil {
		return err
	}
	for _, wcID := range workClassIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO agent_workclasses (agent_id, workclass_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			agentID, wcID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *AgentPostgres) SetAvailability(ctx context.Context, id string, available bool) error {
	const q = `UPDATE agent_profiles SET is_available = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, available)
	return err
}

// AdjustLoad changes current_load by delta, never below zero.
func (r *AgentPostgres) AdjustLoad(ctx context.Context, id string, delta int) error {
	const q = `UPDATE agent_profiles SET current_load = GREATEST(current_load + $2, 0), updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, delta)
	return err
}

// FindCandidates returns assignable agents ordered by load.
func (r *AgentPostgres) FindCandidates(ctx context.Context, minLevel int, departmentID *string, amount decimal.Decimal) ([]model.AgentProfile, error) {
	const q = `
		SELECT ` + agentColumns + `
		FROM agent_profiles a
		WHERE a.is_available
		AND a.current_load < a.daily_capacity
		AND (a.department_id IS NULL OR $2::uuid IS NULL OR a.department_id = $2)
		AND EXISTS (
			SELECT 1 FROM agent_workclasses aw
			JOIN workclasses w ON w.id = aw.workclass_id
			WHERE aw.agent_id = a.id AND w.is_active
			AND w.level >= $1
			AND (w.level >= 5 OR w.monetary_limit >= $3)
		)
		ORDER BY a.current_load, a.updated_at
	`
	rows, err := r.db.QueryContext(ctx, q, minLevel, departmentID, amount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AgentProfile, 0)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// TicketPostgres is a PostgreSQL implementation of repository.TicketRepository.
type TicketPostgres struct {
	db *sql.DB
}

func NewTicketPostgres(db *sql.DB) *TicketPostgres {
	return &TicketPostgres{db: db}
}

var _ repository.TicketRepository = (*TicketPostgres)(nil)

const ticketColumns = `id, reference, ticket_type, priority, status, entity_type, entity_id,
	required_level, department_id, estimated_amount, assigned_to, assigned_by, assigned_at,
	customer_id, subject, description, sla_due_at, first_response_at, resolved_at, closed_at,
	resolution_notes, escalated_from, escalation_reason, created_by,
	trashed_at, trashed_by, trash_reason, permanent_delete_at, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(
		&t.ID,
		&t.Reference,
		&t.TicketType,
		&t.Priority,
		&t.Status,
		&t.EntityType,
		&t.EntityID,
		&t.RequiredLevel,
		&t.DepartmentID,
		&t.EstimatedAmount,
		&t.AssignedToID,
		&t.AssignedByID,
		&t.AssignedAt,
		&t.CustomerID,
		&t.Subject,
		&t.Description,
		&t.SLADueAt,
		&t.FirstResponseAt,
		&t.ResolvedAt,
		&t.ClosedAt,
		&t.ResolutionNotes,
		&t.EscalatedFromID,
		&t.EscalationReason,
		&t.CreatedByID,
		&t.TrashedAt,
		&t.TrashedByID,
		&t.TrashReason,
		&t.PermanentDeleteAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketPostgres) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	const q = `
		INSERT INTO tickets (reference, ticket_type, priority, status, entity_type, entity_id,
			required_level, department_id, estimated_amount, assigned_to, assigned_by, assigned_at,
			customer_id, subject, description, sla_due_at, escalated_from, escalation_reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + ticketColumns
	return scanTicket(r.db.QueryRowContext(ctx, q,
		t.Reference, t.TicketType, t.Priority, t.Status, t.EntityType, t.EntityID,
		t.RequiredLevel, t.DepartmentID, t.EstimatedAmount, t.AssignedToID, t.AssignedByID, t.AssignedAt,
		t.CustomerID, t.Subject, t.Description, t.SLADueAt, t.EscalatedFromID, t.EscalationReason, t.CreatedByID))
}

func (r *TicketPostgres) FindByID(ctx context.Context, id string) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return scanTicket(r.db.QueryRowContext(ctx, q, id))
}

func (r *TicketPostgres) FindByReference(ctx context.Context, ref string) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE reference = $1`
	return scanTicket(r.db.QueryRowContext(ctx, q, ref))
}

func (r *TicketPostgres) List(ctx context.Context, f repository.TicketFilter, pq repository.PageQuery) (*repository.PageResult[model.Ticket], error) {
	const where = `
		WHERE trashed_at IS NULL
		AND ($1 = '' OR status = $1)
		AND ($2 = '' OR priority = $2)
		AND ($3 = '' OR ticket_type = $3)
		AND ($4 = '' OR assigned_to::text = $4)
		AND ($5 = '' OR customer_id::text = $5)
		AND (NOT $6 OR assigned_to IS NULL)
	`
	args := []any{f.Status, f.Priority, f.TicketType, f.AssignedToID, f.CustomerID, f.Unassigned}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets`+where+` ORDER BY created_at DESC, id DESC LIMIT $7 OFFSET $8`,
		append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Ticket]{Items: items, Total: total}, nil
}

func (r *TicketPostgres) Update(ctx context.Context, t *model.Ticket) error {
	const q = `
		UPDATE tickets
		SET priority = $2, status = $3, required_level = $4, department_id = $5,
			estimated_amount = $6, assigned_to = $7, assigned_by = $8, assigned_at = $9,
			subject = $10, description = $11, sla_due_at = $12, first_response_at = $13,
			resolved_at = $14, closed_at = $15, resolution_notes = $16,
			escalated_from = $17, escalation_reason = $18, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.Priority, t.Status, t.RequiredLevel, t.DepartmentID,
		t.EstimatedAmount, t.AssignedToID, t.AssignedByID, t.AssignedAt,
		t.Subject, t.Description, t.SLADueAt, t.FirstResponseAt,
		t.ResolvedAt, t.ClosedAt, t.ResolutionNotes,
		t.EscalatedFromID, t.EscalationReason)
	return err
}

func (r *TicketPostgres) Trash(ctx context.Context, id string, tr model.Trashable) error {
	return trashRow(ctx, r.db, "tickets", id, tr)
}

func (r *TicketPostgres) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.db, "tickets", id)
}

func (r *TicketPostgres) Purge(ctx context.Context, id string) error {
	return purgeRow(ctx, r.db, "tickets", id)
}

func (r *TicketPostgres) CountByStatus(ctx context.Context) (map[string]int, error) {
	const q = `SELECT status, COUNT(*) FROM tickets WHERE trashed_at IS NULL GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}

// TicketActivityPostgres is a PostgreSQL implementation of repository.TicketActivityRepository.
type TicketActivityPostgres struct {
	db *sql.DB
}

func NewTicketActivityPostgres(db *sql.DB) *TicketActivityPostgres {
	return &TicketActivityPostgres{db: db}
}

var _ repository.TicketActivityRepository = (*TicketActivityPostgres)(nil)

func scanTicketActivity(row interface{ Scan(...any) error }) (*model.TicketActivity, error) {
	var a model.TicketActivity
	var details []byte
	err := row.Scan(
		&a.ID,
		&a.TicketID,
		&a.ActivityType,
		&a.PerformedByID,
		&details,
		&a.Note,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &a.Details); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

func (r *TicketActivityPostgres) Create(ctx context.Context, a *model.TicketActivity) (*model.TicketActivity, error) {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO ticket_activities (ticket_id, activity_type, performed_by, details, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, ticket_id, activity_type, performed_by, details, note, created_at
	`
	return scanTicketActivity(r.db.QueryRowContext(ctx, q,
		a.TicketID, a.ActivityType, a.PerformedByID, details, a.Note))
}

func (r *TicketActivityPostgres) ListByTicket(ctx context.Context, ticketID string) ([]model.TicketActivity, error) {
	const q = `
		SELECT id, ticket_id, activity_type, performed_by, details, note, created_at
		FROM ticket_activities
		WHERE ticket_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TicketActivity, 0)
	for rows.Next() {
		a, err := scanTicketActivity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// PerformancePostgres is a PostgreSQL implementation of repository.PerformanceRepository.
type PerformancePostgres struct {
	db *sql.DB
}

func NewPerformancePostgres(db *sql.DB) *PerformancePostgres {
	return &PerformancePostgres{db: db}
}

var _ repository.PerformanceRepository = (*PerformancePostgres)(nil)

const performanceColumns = `id, agent_id, period_type, period_start, period_end,
	tickets_assigned, tickets_resolved, tickets_escalated, avg_resolution_mins,
	sla_met, sla_breached, policies_sold, total_premium_value, created_at, updated_at`

func scanPerformance(row interface{ Scan(...any) error }) (*model.AgentPerformance, error) {
	var p model.AgentPerformance
	err := row.Scan(
		&p.ID,
		&p.AgentID,
		&p.PeriodType,
		&p.PeriodStart,
		&p.PeriodEnd,
		&p.TicketsAssigned,
		&p.TicketsResolved,
		&p.TicketsEscalated,
		&p.AvgResolutionMins,
		&p.SLAMet,
		&p.SLABreached,
		&p.PoliciesSold,
		&p.TotalPremiumValue,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PerformancePostgres) Upsert(ctx context.Context, p *model.AgentPerformance) (*model.AgentPerformance, error) {
	const q = `
		INSERT INTO agent_performance (agent_id, period_type, period_start, period_end,
			tickets_assigned, tickets_resolved, tickets_escalated, avg_resolution_mins,
			sla_met, sla_breached, policies_sold, total_premium_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (agent_id, period_type, period_start) DO UPDATE SET
			period_end = EXCLUDED.period_end,
			tickets_assigned = EXCLUDED.tickets_assigned,
			tickets_resolved = EXCLUDED.tickets_resolved,
			tickets_escalated = EXCLUDED.tickets_escalated,
			avg_resolution_mins = EXCLUDED.avg_resolution_mins,
			sla_met = EXCLUDED.sla_met,
			sla_breached = EXCLUDED.sla_breached,
			policies_sold = EXCLUDED.policies_sold,
			total_premium_value = EXCLUDED.total_premium_value,
			updated_at = now()
		RETURNING ` + performanceColumns
	return scanPerformance(r.db.QueryRowContext(ctx, q,
		p.AgentID, p.PeriodType, p.PeriodStart, p.PeriodEnd,
		p.TicketsAssigned, p.TicketsResolved, p.TicketsEscalated, p.AvgResolutionMins,
		p.SLAMet, p.SLABreached, p.PoliciesSold, p.TotalPremiumValue))
}

func (r *PerformancePostgres) Find(ctx context.Context, agentID, periodType string, periodStart time.Time) (*model.AgentPerformance, error) {
	const q = `SELECT ` + performanceColumns + ` FROM agent_performance
		WHERE agent_id = $1 AND period_type = $2 AND period_start = $3`
	return scanPerformance(r.db.QueryRowContext(ctx, q, agentID, periodType, periodStart))
}

func (r *PerformancePostgres) ListByAgent(ctx context.Context, agentID string, pq repository.PageQuery) (*repository.PageResult[model.AgentPerformance], error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM agent_performance WHERE agent_id = $1`, agentID).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+performanceColumns+` FROM agent_performance WHERE agent_id = $1
			ORDER BY period_start DESC LIMIT $2 OFFSET $3`,
		agentID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AgentPerformance, 0)
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.AgentPerformance]{Items: items, Total: total}, nil
}
