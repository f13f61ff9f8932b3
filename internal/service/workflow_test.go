package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
	repoMocks "ifinsure/internal/repository/mocks"
)

type workflowMocks struct {
	departments *repoMocks.MockDepartmentRepository
	workClasses *repoMocks.MockWorkClassRepository
	agents      *repoMocks.MockAgentRepository
	tickets     *repoMocks.MockTicketRepository
	activities  *repoMocks.MockTicketActivityRepository
	performance *repoMocks.MockPerformanceRepository
	notifier    *mockNotifier
}

func newWorkflowService(t *testing.T) (WorkflowService, *workflowMocks) {
	t.Helper()
	m := &workflowMocks{
		departments: &repoMocks.MockDepartmentRepository{},
		workClasses: &repoMocks.MockWorkClassRepository{},
		agents:      &repoMocks.MockAgentRepository{},
		tickets:     &repoMocks.MockTicketRepository{},
		activities:  &repoMocks.MockTicketActivityRepository{},
		performance: &repoMocks.MockPerformanceRepository{},
		notifier:    quietNotifier(),
	}
	m.activities.On("Create", mock.Anything, mock.Anything).Return(&model.TicketActivity{}, nil).Maybe()
	m.performance.On("Find", mock.Anything, mock.Anything, "monthly", mock.Anything).Return(nil, ErrNotFound).Maybe()
	m.performance.On("Upsert", mock.Anything, mock.Anything).Return(&model.AgentPerformance{}, nil).Maybe()

	svc := NewWorkflowService(m.departments, m.workClasses, m.agents, m.tickets, m.activities, m.performance, m.notifier, &mockTrashRecorder{})
	return svc, m
}

func TestCreateTicket_DerivesPriorityAndLevel(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		amount       int64
		wantPriority string
		wantLevel    int
	}{
		{"small amount", 10000, model.PriorityLow, model.WorkClassLevelJunior},
		{"medium amount", 75000, model.PriorityMedium, model.WorkClassLevelAgent},
		{"high amount", 200000, model.PriorityHigh, model.WorkClassLevelSenior},
		{"urgent amount", 900000, model.PriorityUrgent, model.WorkClassLevelSupervisor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newWorkflowService(t)
			m.tickets.On("Create", ctx, mock.MatchedBy(func(tk *model.Ticket) bool {
				return tk.Priority == tt.wantPriority &&
					tk.RequiredLevel == tt.wantLevel &&
					tk.Status == model.TicketOpen &&
					tk.Reference != "" &&
					tk.SLADueAt != nil
			})).Return(&model.Ticket{ID: "t1"}, nil)

			_, err := svc.CreateTicket(ctx, CreateTicketInput{
				Subject:         "review request",
				EstimatedAmount: decimal.NewFromInt(tt.amount),
			})
			assert.NoError(t, err)
			m.tickets.AssertExpectations(t)
		})
	}
}

func TestAutoAssignTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("picks the least loaded candidate", func(t *testing.T) {
		svc, m := newWorkflowService(t)
		ticket := &model.Ticket{
			ID:              "t1",
			Reference:       "TKT-20260831-ABC123",
			Status:          model.TicketOpen,
			RequiredLevel:   3,
			EstimatedAmount: decimal.NewFromInt(60000),
		}
		agent := model.AgentProfile{ID: "a1", UserID: "u1", CurrentLoad: 2, DailyCapacity: 15, IsAvailable: true, MaxLevel: 4}
		m.tickets.On("FindByID", ctx, "t1").Return(ticket, nil)
		m.agents.On("FindCandidates", ctx, 3, (*string)(nil), decimal.NewFromInt(60000)).
			Return([]model.AgentProfile{agent}, nil)
		m.tickets.On("Update", ctx, mock.MatchedBy(func(tk *model.Ticket) bool {
			return tk.Status == model.TicketAssigned && tk.AssignedToID != nil && *tk.AssignedToID == "a1"
		})).Return(nil)
		m.agents.On("AdjustLoad", ctx, "a1", 1).Return(nil)

		got, err := svc.AutoAssignTicket(ctx, "t1")
		assert.NoError(t, err)
		assert.Equal(t, "a1", *got.AssignedToID)
		m.agents.AssertExpectations(t)
	})

	t.Run("no candidates", func(t *testing.T) {
		svc, m := newWorkflowService(t)
		m.tickets.On("FindByID", ctx, "t1").Return(&model.Ticket{ID: "t1", Status: model.TicketOpen, RequiredLevel: 5}, nil)
		m.agents.On("FindCandidates", ctx, 5, (*string)(nil), decimal.Decimal{}).Return([]model.AgentProfile{}, nil)

		_, err := svc.AutoAssignTicket(ctx, "t1")
		assert.ErrorIs(t, err, ErrNoAgentAvailable)
	})

	t.Run("terminal ticket", func(t *testing.T) {
		svc, m := newWorkflowService(t)
		m.tickets.On("FindByID", ctx, "t1").Return(&model.Ticket{ID: "t1", Status: model.TicketClosed}, nil)

		_, err := svc.AutoAssignTicket(ctx, "t1")
		assert.ErrorIs(t, err, ErrTicketTerminal)
	})
}

func TestAssignTicket_GuardRails(t *testing.T) {
	ctx := context.Background()
	ticket := &model.Ticket{ID: "t1", Status: model.TicketOpen, RequiredLevel: 4}

	tests := []struct {
		name    string
		agent   *model.AgentProfile
		wantErr error
	}{
		{"unavailable", &model.AgentProfile{ID: "a1", IsAvailable: false}, ErrAgentUnavailable},
		{"at capacity", &model.AgentProfile{ID: "a1", IsAvailable: true, CurrentLoad: 15, DailyCapacity: 15}, ErrAgentOverCapacity},
		{"level too low", &model.AgentProfile{ID: "a1", IsAvailable: true, DailyCapacity: 15, MaxLevel: 2}, ErrLevelTooLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newWorkflowService(t)
			m.tickets.On("FindByID", ctx, "t1").Return(ticket, nil)
			m.agents.On("FindByID", ctx, "a1").Return(tt.agent, nil)

			_, err := svc.AssignTicket(ctx, "t1", "a1", nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEscalateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps level and releases the agent", func(t *testing.T) {
		svc, m := newWorkflowService(t)
		prev := "a1"
		ticket := &model.Ticket{
			ID:            "t1",
			Status:        model.TicketInProgress,
			RequiredLevel: 3,
			AssignedToID:  &prev,
		}
		m.tickets.On("FindByID", ctx, "t1").Return(ticket, nil)
		m.tickets.On("Update", ctx, mock.MatchedBy(func(tk *model.Ticket) bool {
			return tk.RequiredLevel == 4 &&
				tk.Status == model.TicketEscalated &&
				tk.AssignedToID == nil &&
				tk.EscalatedFromID != nil && *tk.EscalatedFromID == "a1"
		})).Return(nil)
		m.agents.On("AdjustLoad", ctx, "a1", -1).Return(nil)
		m.agents.On("FindCandidates", ctx, 4, (*string)(nil), decimal.Decimal{}).Return([]model.AgentProfile{}, nil)

		got, err := svc.EscalateTicket(ctx, "t1", "needs senior review", nil)
		assert.NoError(t, err)
		assert.Equal(t, model.TicketEscalated, got.Status)
		m.agents.AssertExpectations(t)
	})

	t.Run("supervisor level cannot escalate", func(t *testing.T) {
		svc, m := newWorkflowService(t)
		m.tickets.On("FindByID", ctx, "t1").Return(&model.Ticket{ID: "t1", Status: model.TicketOpen, RequiredLevel: 5}, nil)

		_, err := svc.EscalateTicket(ctx, "t1", "x", nil)
		assert.ErrorIs(t, err, ErrMaxEscalation)
	})
}

func TestResolveTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("releases load and records SLA", func(t *testing.T) {
		svc, m := newWorkflowService(t)
		agentID := "a1"
		due := time.Now().Add(time.Hour)
		ticket := &model.Ticket{ID: "t1", Status: model.TicketInProgress, AssignedToID: &agentID, SLADueAt: &due}
		m.tickets.On("FindByID", ctx, "t1").Return(ticket, nil)
		m.tickets.On("Update", ctx, mock.MatchedBy(func(tk *model.Ticket) bool {
			return tk.Status == model.TicketResolved && tk.ResolvedAt != nil && tk.ResolutionNotes == "done"
		})).Return(nil)
		m.agents.On("AdjustLoad", ctx, "a1", -1).Return(nil)

		got, err := svc.ResolveTicket(ctx, "t1", "done", nil)
		assert.NoError(t, err)
		assert.Equal(t, model.TicketResolved, got.Status)
		m.agents.AssertExpectations(t)
	})

	t.Run("unassigned ticket", func(t *testing.T) {
		svc, m := newWorkflowService(t)
		m.tickets.On("FindByID", ctx, "t1").Return(&model.Ticket{ID: "t1", Status: model.TicketOpen}, nil)

		_, err := svc.ResolveTicket(ctx, "t1", "done", nil)
		assert.ErrorIs(t, err, ErrTicketUnassigned)
	})
}

func TestAgentPerformance(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the agent's periods", func(t *testing.T) {
		svc, m := newWorkflowService(t)
		rows := []model.AgentPerformance{
			{ID: "p1", AgentID: "a1", PeriodType: "monthly", TicketsResolved: 12, SLAMet: 10},
			{ID: "p2", AgentID: "a1", PeriodType: "monthly", TicketsResolved: 7, SLAMet: 7},
		}
		m.performance.On("ListByAgent", ctx, "a1", mock.MatchedBy(func(pq repository.PageQuery) bool {
			return pq.Limit > 0
		})).Return(&repository.PageResult[model.AgentPerformance]{Items: rows, Total: 2}, nil)

		got, err := svc.AgentPerformance(ctx, "a1")
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 12, got[0].TicketsResolved)
		m.performance.AssertExpectations(t)
	})

	t.Run("empty agent id", func(t *testing.T) {
		svc, _ := newWorkflowService(t)
		_, err := svc.AgentPerformance(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}
