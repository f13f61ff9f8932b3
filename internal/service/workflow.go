package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
	"ifinsure/internal/reference"
	"ifinsure/internal/repository"
)

var (
	ErrCodeTaken         = errors.New("code already in use")
	ErrNoAgentAvailable  = errors.New("no capable agent is available")
	ErrTicketTerminal    = errors.New("ticket is already resolved or closed")
	ErrTicketUnassigned  = errors.New("ticket has no assigned agent")
	ErrAgentUnavailable  = errors.New("agent is not available")
	ErrAgentOverCapacity = errors.New("agent is at daily capacity")
	ErrLevelTooLow       = errors.New("agent level below ticket requirement")
	ErrMaxEscalation     = errors.New("ticket already at the highest level")
)

// SLA windows per priority.
var slaHours = map[string]time.Duration{
	model.PriorityUrgent: 4 * time.Hour,
	model.PriorityHigh:   8 * time.Hour,
	model.PriorityMedium: 24 * time.Hour,
	model.PriorityLow:    72 * time.Hour,
}

// CreateTicketInput carries the fields needed to open a ticket. Amount
// drives the required level and, when Priority is empty, the priority.
type CreateTicketInput struct {
	TicketType      string          `json:"ticket_type"`
	Priority        string          `json:"priority"`
	Subject         string          `json:"subject"`
	Description     string          `json:"description"`
	EntityType      string          `json:"entity_type"`
	EntityID        string          `json:"entity_id"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
	DepartmentID    *string         `json:"department_id"`
	CustomerID      *string         `json:"customer_id"`
	CreatedByID     *string         `json:"created_by_id"`
	AutoAssign      bool            `json:"auto_assign"`
}

// TicketListResult is the service-level DTO for a ticket page.
type TicketListResult struct {
	Items []model.Ticket `json:"data"`
	Total int            `json:"total"`
}

// AgentListResult is the service-level DTO for an agent page.
type AgentListResult struct {
	Items []model.AgentProfile `json:"data"`
	Total int                  `json:"total"`
}

// TicketCreator is the narrow workflow surface other services use to
// open review tickets for their records.
type TicketCreator interface {
	CreateTicket(ctx context.Context, in CreateTicketInput) (*model.Ticket, error)
}

// WorkflowService covers departments, workclasses, agents and the ticket
// lifecycle. Tickets are routed by workclass level: the estimated amount
// fixes the minimum level, and auto-assignment picks the least loaded
// available agent that clears it.
type WorkflowService interface {
	CreateDepartment(ctx context.Context, d *model.Department) (*model.Department, error)
	GetDepartment(ctx context.Context, id string) (*model.Department, error)
	ListDepartments(ctx context.Context, includeInactive bool) ([]model.Department, error)
	UpdateDepartment(ctx context.Context, d *model.Department) (*model.Department, error)
	TrashDepartment(ctx context.Context, id, actorID, reason string) error

	CreateWorkClass(ctx context.Context, w *model.WorkClass) (*model.WorkClass, error)
	GetWorkClass(ctx context.Context, id string) (*model.WorkClass, error)
	ListWorkClasses(ctx context.Context, includeInactive bool) ([]model.WorkClass, error)
	UpdateWorkClass(ctx context.Context, w *model.WorkClass) (*model.WorkClass, error)
	TrashWorkClass(ctx context.Context, id, actorID, reason string) error

	CreateAgent(ctx context.Context, a *model.AgentProfile) (*model.AgentProfile, error)
	GetAgent(ctx context.Context, id string) (*model.AgentProfile, error)
	GetAgentByUser(ctx context.Context, userID string) (*model.AgentProfile, error)
	ListAgents(ctx context.Context, f repository.AgentFilter, limit, offset int) (*AgentListResult, error)
	UpdateAgent(ctx context.Context, a *model.AgentProfile) (*model.AgentProfile, error)
	SetAgentWorkClasses(ctx context.Context, agentID string, workClassIDs []string) error
	SetAgentAvailability(ctx context.Context, agentID string, available bool) error

	CreateTicket(ctx context.Context, in CreateTicketInput) (*model.Ticket, error)
	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
	ListTickets(ctx context.Context, f repository.TicketFilter, limit, offset int) (*TicketListResult, error)
	AssignTicket(ctx context.Context, ticketID, agentID string, assignedByID *string) (*model.Ticket, error)
	AutoAssignTicket(ctx context.Context, ticketID string) (*model.Ticket, error)
	PickTicket(ctx context.Context, ticketID, agentUserID string) (*model.Ticket, error)
	StartTicket(ctx context.Context, ticketID, actorID string) (*model.Ticket, error)
	EscalateTicket(ctx context.Context, ticketID, reason string, actorID *string) (*model.Ticket, error)
	ResolveTicket(ctx context.Context, ticketID, notes string, actorID *string) (*model.Ticket, error)
	CloseTicket(ctx context.Context, ticketID string, actorID *string) (*model.Ticket, error)
	ReopenTicket(ctx context.Context, ticketID string, actorID *string) (*model.Ticket, error)
	AddTicketNote(ctx context.Context, ticketID, note string, actorID *string) (*model.TicketActivity, error)
	ListTicketActivities(ctx context.Context, ticketID string) ([]model.TicketActivity, error)
	TrashTicket(ctx context.Context, id, actorID, reason string) error
	TicketStats(ctx context.Context) (map[string]int, error)

	AgentPerformance(ctx context.Context, agentID string) ([]model.AgentPerformance, error)

	RegisterTrashHandlers(trash TrashService)
	RegisterSearchIndexer(ix Indexer)
}

type workflowService struct {
	departments repository.DepartmentRepository
	workClasses repository.WorkClassRepository
	agents      repository.AgentRepository
	tickets     repository.TicketRepository
	activities  repository.TicketActivityRepository
	performance repository.PerformanceRepository
	notifier    NotificationService
	trash       TrashRecorder
	search      Indexer
	now         func() time.Time
}

// NewWorkflowService constructs a new WorkflowService.
func NewWorkflowService(
	departments repository.DepartmentRepository,
	workClasses repository.WorkClassRepository,
	agents repository.AgentRepository,
	tickets repository.TicketRepository,
	activities repository.TicketActivityRepository,
	performance repository.PerformanceRepository,
	notifier NotificationService,
	trash TrashRecorder,
) WorkflowService {
	return &workflowService{
		departments: departments,
		workClasses: workClasses,
		agents:      agents,
		tickets:     tickets,
		activities:  activities,
		performance: performance,
		notifier:    notifier,
		trash:       trash,
		now:         time.Now,
	}
}

func (s *workflowService) CreateDepartment(ctx context.Context, d *model.Department) (*model.Department, error) {
	if d.Code == "" || d.Name == "" {
		return nil, fmt.Errorf("%w: code and name", ErrValidation)
	}
	if _, err := s.departments.FindByCode(ctx, d.Code); err == nil {
		return nil, ErrCodeTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	d.IsActive = true
	return s.departments.Create(ctx, d)
}

func (s *workflowService) GetDepartment(ctx context.Context, id string) (*model.Department, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	d, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return d, nil
}

func (s *workflowService) ListDepartments(ctx context.Context, includeInactive bool) ([]model.Department, error) {
	return s.departments.List(ctx, includeInactive)
}

func (s *workflowService) UpdateDepartment(ctx context.Context, d *model.Department) (*model.Department, error) {
	if _, err := s.GetDepartment(ctx, d.ID); err != nil {
		return nil, err
	}
	if err := s.departments.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *workflowService) TrashDepartment(ctx context.Context, id, actorID, reason string) error {
	d, err := s.GetDepartment(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.departments.Trash(ctx, id, tr); err != nil {
		return err
	}
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityDepartment,
		EntityID:   id,
		Title:      d.Name,
		Subtitle:   d.Code,
		Icon:       "building",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   d,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *workflowService) CreateWorkClass(ctx context.Context, w *model.WorkClass) (*model.WorkClass, error) {
	if w.Code == "" || w.Name == "" {
		return nil, fmt.Errorf("%w: code and name", ErrValidation)
	}
	if w.Level < model.WorkClassLevelTrainee || w.Level > model.WorkClassLevelSupervisor {
		return nil, fmt.Errorf("%w: level must be between 1 and 5", ErrValidation)
	}
	if _, err := s.workClasses.FindByCode(ctx, w.Code); err == nil {
		return nil, ErrCodeTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	w.IsActive = true
	return s.workClasses.Create(ctx, w)
}

func (s *workflowService) GetWorkClass(ctx context.Context, id string) (*model.WorkClass, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	w, err := s.workClasses.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return w, nil
}

func (s *workflowService) ListWorkClasses(ctx context.Context, includeInactive bool) ([]model.WorkClass, error) {
	return s.workClasses.List(ctx, includeInactive)
}

func (s *workflowService) UpdateWorkClass(ctx context.Context, w *model.WorkClass) (*model.WorkClass, error) {
	if _, err := s.GetWorkClass(ctx, w.ID); err != nil {
		return nil, err
	}
	if w.Level < model.WorkClassLevelTrainee || w.Level > model.WorkClassLevelSupervisor {
		return nil, fmt.Errorf("%w: level must be between 1 and 5", ErrValidation)
	}
	if err := s.workClasses.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workflowService) TrashWorkClass(ctx context.Context, id, actorID, reason string) error {
	w, err := s.GetWorkClass(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.workClasses.Trash(ctx, id, tr); err != nil {
		return err
	}
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityWorkClass,
		EntityID:   id,
		Title:      w.Name,
		Subtitle:   fmt.Sprintf("level %d", w.Level),
		Icon:       "badge",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   w,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *workflowService) CreateAgent(ctx context.Context, a *model.AgentProfile) (*model.AgentProfile, error) {
	if a.UserID == "" {
		return nil, fmt.Errorf("%w: user_id", ErrValidation)
	}
	if a.DailyCapacity <= 0 {
		a.DailyCapacity = 15
	}
	if a.Shift == "" {
		a.Shift = model.ShiftFlexible
	}
	a.IsAvailable = true
	return s.agents.Create(ctx, a)
}

func (s *workflowService) GetAgent(ctx context.Context, id string) (*model.AgentProfile, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (s *workflowService) GetAgentByUser(ctx context.Context, userID string) (*model.AgentProfile, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	a, err := s.agents.FindByUserID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (s *workflowService) ListAgents(ctx context.Context, f repository.AgentFilter, limit, offset int) (*AgentListResult, error) {
	res, err := s.agents.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &AgentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *workflowService) UpdateAgent(ctx context.Context, a *model.AgentProfile) (*model.AgentProfile, error) {
	if _, err := s.GetAgent(ctx, a.ID); err != nil {
		return nil, err
	}
	if err := s.agents.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.agents.FindByID(ctx, a.ID)
}

func (s *workflowService) SetAgentWorkClasses(ctx context.Context, agentID string, workClassIDs []string) error {
	if _, err := s.GetAgent(ctx, agentID); err != nil {
		return err
	}
	for _, id := range workClassIDs {
		if _, err := s.GetWorkClass(ctx, id); err != nil {
			return err
		}
	}
	return s.agents.SetWorkClasses(ctx, agentID, workClassIDs)
}

func (s *workflowService) SetAgentAvailability(ctx context.Context, agentID string, available bool) error {
	if _, err := s.GetAgent(ctx, agentID); err != nil {
		return err
	}
	return s.agents.SetAvailability(ctx, agentID, available)
}

func (s *workflowService) CreateTicket(ctx context.Context, in CreateTicketInput) (*model.Ticket, error) {
	if in.Subject == "" {
		return nil, fmt.Errorf("%w: subject", ErrValidation)
	}
	if in.TicketType == "" {
		in.TicketType = model.TicketTypeInquiry
	}
	if in.Priority == "" {
		in.Priority = model.PriorityForAmount(in.EstimatedAmount)
	}

	now := s.now()
	due := now.Add(slaHours[in.Priority])
	ticket := &model.Ticket{
		Reference:       reference.Ticket(now),
		TicketType:      in.TicketType,
		Priority:        in.Priority,
		Status:          model.TicketOpen,
		EntityType:      in.EntityType,
		EntityID:        in.EntityID,
		RequiredLevel:   model.RequiredLevelForAmount(in.EstimatedAmount),
		DepartmentID:    in.DepartmentID,
		EstimatedAmount: in.EstimatedAmount,
		CustomerID:      in.CustomerID,
		Subject:         in.Subject,
		Description:     in.Description,
		SLADueAt:        &due,
		CreatedByID:     in.CreatedByID,
	}
	ticket, err := s.tickets.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, ticket.ID, model.ActivityCreated, in.CreatedByID, nil, "")
	s.indexTicket(ctx, ticket)

	if in.AutoAssign {
		if assigned, err := s.AutoAssignTicket(ctx, ticket.ID); err == nil {
			return assigned, nil
		} else if !errors.Is(err, ErrNoAgentAvailable) {
			return nil, err
		}
	}
	return ticket, nil
}

func (s *workflowService) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return t, nil
}

func (s *workflowService) ListTickets(ctx context.Context, f repository.TicketFilter, limit, offset int) (*TicketListResult, error) {
	res, err := s.tickets.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &TicketListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *workflowService) AssignTicket(ctx context.Context, ticketID, agentID string, assignedByID *string) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsTerminal() {
		return nil, ErrTicketTerminal
	}
	agent, err := s.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !agent.IsAvailable {
		return nil, ErrAgentUnavailable
	}
	if agent.CurrentLoad >= agent.DailyCapacity {
		return nil, ErrAgentOverCapacity
	}
	if agent.MaxLevel < ticket.RequiredLevel {
		return nil, ErrLevelTooLow
	}
	return s.assign(ctx, ticket, agent, assignedByID, model.ActivityAssigned)
}

func (s *workflowService) AutoAssignTicket(ctx context.Context, ticketID string) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsTerminal() {
		return nil, ErrTicketTerminal
	}
	candidates, err := s.agents.FindCandidates(ctx, ticket.RequiredLevel, ticket.DepartmentID, ticket.EstimatedAmount)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoAgentAvailable
	}
	// Candidates arrive ordered by current load, least busy first.
	return s.assign(ctx, ticket, &candidates[0], nil, model.ActivityAssigned)
}

func (s *workflowService) PickTicket(ctx context.Context, ticketID, agentUserID string) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AssignedToID != nil {
		return nil, fmt.Errorf("%w: ticket already assigned", ErrValidation)
	}
	agent, err := s.GetAgentByUser(ctx, agentUserID)
	if err != nil {
		return nil, err
	}
	if !agent.CanHandle(ticket) {
		return nil, ErrLevelTooLow
	}
	return s.assign(ctx, ticket, agent, &agentUserID, model.ActivityPicked)
}

// assign writes the assignment, bumps the agent's load and performance
// counters, and notifies the agent.
func (s *workflowService) assign(ctx context.Context, ticket *model.Ticket, agent *model.AgentProfile, assignedByID *string, activity string) (*model.Ticket, error) {
	now := s.now()
	ticket.AssignedToID = &agent.ID
	ticket.AssignedByID = assignedByID
	ticket.AssignedAt = &now
	ticket.Status = model.TicketAssigned
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.agents.AdjustLoad(ctx, agent.ID, 1); err != nil {
		return nil, err
	}
	s.logActivity(ctx, ticket.ID, activity, assignedByID, map[string]string{"agent_id": agent.ID}, "")
	s.bumpPerformance(ctx, agent.ID, now, func(p *model.AgentPerformance) { p.TicketsAssigned++ })

	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: agent.UserID,
		Type:        model.NotifyAction,
		Event:       model.EventTicketAssigned,
		Title:       "Ticket assigned",
		Message:     fmt.Sprintf("Ticket %s: %s", ticket.Reference, ticket.Subject),
		Icon:        "ticket",
		EntityType:  model.EntityTicket,
		EntityID:    ticket.ID,
	})
	return ticket, nil
}

func (s *workflowService) StartTicket(ctx context.Context, ticketID, actorID string) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsTerminal() {
		return nil, ErrTicketTerminal
	}
	if ticket.AssignedToID == nil {
		return nil, ErrTicketUnassigned
	}
	now := s.now()
	ticket.Status = model.TicketInProgress
	if ticket.FirstResponseAt == nil {
		ticket.FirstResponseAt = &now
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.logActivity(ctx, ticket.ID, model.ActivityStatusChange, &actorID, map[string]string{"status": model.TicketInProgress}, "")
	return ticket, nil
}

func (s *workflowService) EscalateTicket(ctx context.Context, ticketID, reason string, actorID *string) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsTerminal() {
		return nil, ErrTicketTerminal
	}
	if ticket.RequiredLevel >= model.WorkClassLevelSupervisor {
		return nil, ErrMaxEscalation
	}

	previous := ticket.AssignedToID
	ticket.RequiredLevel++
	ticket.Status = model.TicketEscalated
	ticket.EscalationReason = reason
	if previous != nil {
		ticket.EscalatedFromID = previous
	}
	ticket.AssignedToID = nil
	ticket.AssignedByID = nil
	ticket.AssignedAt = nil
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	if previous != nil {
		if err := s.agents.AdjustLoad(ctx, *previous, -1); err != nil {
			return nil, err
		}
		s.bumpPerformance(ctx, *previous, s.now(), func(p *model.AgentPerformance) { p.TicketsEscalated++ })
	}
	s.logActivity(ctx, ticket.ID, model.ActivityEscalated, actorID, map[string]string{"required_level": fmt.Sprint(ticket.RequiredLevel)}, reason)

	// Best effort: hand the ticket straight to a higher-level agent.
	if assigned, err := s.AutoAssignTicket(ctx, ticket.ID); err == nil {
		return assigned, nil
	} else if !errors.Is(err, ErrNoAgentAvailable) {
		return nil, err
	}
	return ticket, nil
}

func (s *workflowService) ResolveTicket(ctx context.Context, ticketID, notes string, actorID *string) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsTerminal() {
		return nil, ErrTicketTerminal
	}
	if ticket.AssignedToID == nil {
		return nil, ErrTicketUnassigned
	}
	now := s.now()
	ticket.Status = model.TicketResolved
	ticket.ResolvedAt = &now
	ticket.ResolutionNotes = notes
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	agentID := *ticket.AssignedToID
	if err := s.agents.AdjustLoad(ctx, agentID, -1); err != nil {
		return nil, err
	}
	metSLA := ticket.SLADueAt == nil || !now.After(*ticket.SLADueAt)
	s.bumpPerformance(ctx, agentID, now, func(p *model.AgentPerformance) {
		p.TicketsResolved++
		if metSLA {
			p.SLAMet++
		} else {
			p.SLABreached++
		}
	})
	s.logActivity(ctx, ticket.ID, model.ActivityResolved, actorID, nil, notes)
	return ticket, nil
}

func (s *workflowService) CloseTicket(ctx context.Context, ticketID string, actorID *string) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == model.TicketClosed {
		return ticket, nil
	}
	now := s.now()
	if ticket.Status != model.TicketResolved && ticket.AssignedToID != nil {
		if err := s.agents.AdjustLoad(ctx, *ticket.AssignedToID, -1); err != nil {
			return nil, err
		}
	}
	ticket.Status = model.TicketClosed
	ticket.ClosedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.logActivity(ctx, ticket.ID, model.ActivityClosed, actorID, nil, "")
	return ticket, nil
}

func (s *workflowService) ReopenTicket(ctx context.Context, ticketID string, actorID *string) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsTerminal() {
		return ticket, nil
	}
	ticket.Status = model.TicketOpen
	ticket.ResolvedAt = nil
	ticket.ClosedAt = nil
	ticket.AssignedToID = nil
	ticket.AssignedByID = nil
	ticket.AssignedAt = nil
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.logActivity(ctx, ticket.ID, model.ActivityReopened, actorID, nil, "")
	return ticket, nil
}

func (s *workflowService) AddTicketNote(ctx context.Context, ticketID, note string, actorID *string) (*model.TicketActivity, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if note == "" {
		return nil, fmt.Errorf("%w: note", ErrValidation)
	}
	if ticket.FirstResponseAt == nil {
		now := s.now()
		ticket.FirstResponseAt = &now
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, err
		}
	}
	return s.activities.Create(ctx, &model.TicketActivity{
		TicketID:      ticketID,
		ActivityType:  model.ActivityNote,
		PerformedByID: actorID,
		Note:          note,
	})
}

func (s *workflowService) ListTicketActivities(ctx context.Context, ticketID string) ([]model.TicketActivity, error) {
	if ticketID == "" {
		return nil, ErrIDRequired
	}
	return s.activities.ListByTicket(ctx, ticketID)
}

func (s *workflowService) TrashTicket(ctx context.Context, id, actorID, reason string) error {
	t, err := s.GetTicket(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.tickets.Trash(ctx, id, tr); err != nil {
		return err
	}
	if s.search != nil {
		_ = s.search.Deindex(ctx, model.EntityTicket, id)
	}
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityTicket,
		EntityID:   id,
		Title:      t.Reference,
		Subtitle:   t.Subject,
		Icon:       "ticket",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   t,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *workflowService) TicketStats(ctx context.Context) (map[string]int, error) {
	return s.tickets.CountByStatus(ctx)
}

func (s *workflowService) AgentPerformance(ctx context.Context, agentID string) ([]model.AgentPerformance, error) {
	if agentID == "" {
		return nil, ErrIDRequired
	}
	res, err := s.performance.ListByAgent(ctx, agentID, pageQuery(0, 0))
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// RegisterTrashHandlers wires restore and purge for the workflow entity
// types into the trash registry.
func (s *workflowService) RegisterTrashHandlers(trash TrashService) {
	trash.RegisterHandler(model.EntityDepartment, TrashHandler{
		Restore: s.departments.Restore,
		Purge:   s.departments.Purge,
	})
	trash.RegisterHandler(model.EntityWorkClass, TrashHandler{
		Restore: s.workClasses.Restore,
		Purge:   s.workClasses.Purge,
	})
	trash.RegisterHandler(model.EntityTicket, TrashHandler{
		Restore: s.tickets.Restore,
		Purge:   s.tickets.Purge,
	})
}

// RegisterSearchIndexer wires the search index refresh hooks. Refreshes
// are best effort, same as activity logging.
func (s *workflowService) RegisterSearchIndexer(ix Indexer) {
	s.search = ix
}

func (s *workflowService) indexTicket(ctx context.Context, t *model.Ticket) {
	if s.search == nil {
		return
	}
	_ = s.search.Index(ctx, IndexInput{
		EntityType: model.EntityTicket,
		EntityID:   t.ID,
		Title:      t.Reference,
		Subtitle:   t.Subject,
		Content:    t.Description,
		Keywords:   t.Reference + " " + t.TicketType,
		Icon:       "ticket",
		URL:        "/api/v1/workflow/tickets/" + t.ID,
		Visibility: model.VisibilityInternal,
		OwnerID:    t.CustomerID,
		Weight:     6,
	})
}

// logActivity records ticket audit rows. Audit failures never fail the
// operation that triggered them.
func (s *workflowService) logActivity(ctx context.Context, ticketID, activityType string, actorID *string, details map[string]string, note string) {
	_, _ = s.activities.Create(ctx, &model.TicketActivity{
		TicketID:      ticketID,
		ActivityType:  activityType,
		PerformedByID: actorID,
		Details:       details,
		Note:          note,
	})
}

// bumpPerformance upserts the agent's monthly row with the mutation
// applied. Best effort, same as activity logging.
func (s *workflowService) bumpPerformance(ctx context.Context, agentID string, at time.Time, mutate func(*model.AgentPerformance)) {
	start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	perf, err := s.performance.Find(ctx, agentID, "monthly", start)
	if err != nil {
		perf = &model.AgentPerformance{
			AgentID:     agentID,
			PeriodType:  "monthly",
			PeriodStart: start,
			PeriodEnd:   start.AddDate(0, 1, 0).Add(-time.Second),
		}
	}
	mutate(perf)
	_, _ = s.performance.Upsert(ctx, perf)
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
