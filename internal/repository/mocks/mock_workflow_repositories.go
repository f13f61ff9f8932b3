package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

type MockDepartmentRepository struct {
	mock.Mock
}

func (m *MockDepartmentRepository) Create(ctx context.Context, d *model.Department) (*model.Department, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Department), args.Error(1)
}

func (m *MockDepartmentRepository) FindByID(ctx context.Context, id string) (*model.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Department), args.Error(1)
}

func (m *MockDepartmentRepository) FindByCode(ctx context.Context, code string) (*model.Department, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Department), args.Error(1)
}

func (m *MockDepartmentRepository) List(ctx context.Context, includeInactive bool) ([]model.Department, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Department), args.Error(1)
}

func (m *MockDepartmentRepository) Update(ctx context.Context, d *model.Department) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDepartmentRepository) Trash(ctx context.Context, id string, tr model.Trashable) error {
	args := m.Called(ctx, id, tr)
	return args.Error(0)
}

func (m *MockDepartmentRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDepartmentRepository) Purge(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockWorkClassRepository struct {
	mock.Mock
}

func (m *MockWorkClassRepository) Create(ctx context.Context, w *model.WorkClass) (*model.WorkClass, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkClass), args.Error(1)
}

func (m *MockWorkClassRepository) FindByID(ctx context.Context, id string) (*model.WorkClass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkClass), args.Error(1)
}

func (m *MockWorkClassRepository) FindByCode(ctx context.Context, code string) (*model.WorkClass, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkClass), args.Error(1)
}

func (m *MockWorkClassRepository) List(ctx context.Context, includeInactive bool) ([]model.WorkClass, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkClass), args.Error(1)
}

func (m *MockWorkClassRepository) Update(ctx context.Context, w *model.WorkClass) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkClassRepository) Trash(ctx context.Context, id string, tr model.Trashable) error {
	args := m.Called(ctx, id, tr)
	return args.Error(0)
}

func (m *MockWorkClassRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkClassRepository) Purge(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) Create(ctx context.Context, a *model.AgentProfile) (*model.AgentProfile, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentProfile), args.Error(1)
}

func (m *MockAgentRepository) FindByID(ctx context.Context, id string) (*model.AgentProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentProfile), args.Error(1)
}

func (m *MockAgentRepository) FindByUserID(ctx context.Context, userID string) (*model.AgentProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentProfile), args.Error(1)
}

func (m *MockAgentRepository) List(ctx context.Context, f repository.AgentFilter, pq repository.PageQuery) (*repository.PageResult[model.AgentProfile], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AgentProfile]), args.Error(1)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *model.AgentProfile) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) SetWorkClasses(ctx context.Context, agentID string, workClassIDs []string) error {
	args := m.Called(ctx, agentID, workClassIDs)
	return args.Error(0)
}

func (m *MockAgentRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

func (m *MockAgentRepository) AdjustLoad(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockAgentRepository) FindCandidates(ctx context.Context, minLevel int, departmentID *string, amount decimal.Decimal) ([]model.AgentProfile, error) {
	args := m.Called(ctx, minLevel, departmentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AgentProfile), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id string) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByReference(ctx context.Context, ref string) (*model.Ticket, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context, f repository.TicketFilter, pq repository.PageQuery) (*repository.PageResult[model.Ticket], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Ticket]), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, t *model.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) Trash(ctx context.Context, id string, tr model.Trashable) error {
	args := m.Called(ctx, id, tr)
	return args.Error(0)
}

func (m *MockTicketRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTicketRepository) Purge(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTicketRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockTicketActivityRepository struct {
	mock.Mock
}

func (m *MockTicketActivityRepository) Create(ctx context.Context, a *model.TicketActivity) (*model.TicketActivity, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TicketActivity), args.Error(1)
}

func (m *MockTicketActivityRepository) ListByTicket(ctx context.Context, ticketID string) ([]model.TicketActivity, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TicketActivity), args.Error(1)
}

type MockPerformanceRepository struct {
	mock.Mock
}

func (m *MockPerformanceRepository) Upsert(ctx context.Context, p *model.AgentPerformance) (*model.AgentPerformance, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentPerformance), args.Error(1)
}

func (m *MockPerformanceRepository) Find(ctx context.Context, agentID, periodType string, periodStart time.Time) (*model.AgentPerformance, error) {
	args := m.Called(ctx, agentID, periodType, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentPerformance), args.Error(1)
}

func (m *MockPerformanceRepository) ListByAgent(ctx context.Context, agentID string, pq repository.PageQuery) (*repository.PageResult[model.AgentPerformance], error) {
	args := m.Called(ctx, agentID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AgentPerformance]), args.Error(1)
}
