package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRequiredLevelForAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int
	}{
		{"small amount", 10000, WorkClassLevelJunior},
		{"boundary 50k stays junior", 50000, WorkClassLevelJunior},
		{"above 50k", 50001, WorkClassLevelAgent},
		{"above 100k", 150000, WorkClassLevelSenior},
		{"above 500k", 600000, WorkClassLevelSupervisor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredLevelForAmount(decimal.NewFromInt(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriorityForAmount(t *testing.T) {
	assert.Equal(t, PriorityLow, PriorityForAmount(decimal.NewFromInt(20000)))
	assert.Equal(t, PriorityMedium, PriorityForAmount(decimal.NewFromInt(60000)))
	assert.Equal(t, PriorityHigh, PriorityForAmount(decimal.NewFromInt(200000)))
	assert.Equal(t, PriorityUrgent, PriorityForAmount(decimal.NewFromInt(750000)))
}

func TestWorkClassCanHandleAmount(t *testing.T) {
	wc := &WorkClass{Level: WorkClassLevelAgent, MonetaryLimit: decimal.NewFromInt(100000)}

	assert.True(t, wc.CanHandleAmount(decimal.NewFromInt(100000)))
	assert.False(t, wc.CanHandleAmount(decimal.NewFromInt(100001)))

	// supervisor level has no cap
	sup := &WorkClass{Level: WorkClassLevelSupervisor, MonetaryLimit: decimal.Zero}
	assert.True(t, sup.CanHandleAmount(decimal.NewFromInt(10000000)))
}

func TestAgentProfileCanHandle(t *testing.T) {
	ticket := &Ticket{RequiredLevel: WorkClassLevelAgent}

	tests := []struct {
		name  string
		agent AgentProfile
		want  bool
	}{
		{"available with capacity and level", AgentProfile{IsAvailable: true, DailyCapacity: 10, CurrentLoad: 3, MaxLevel: 3}, true},
		{"unavailable", AgentProfile{IsAvailable: false, DailyCapacity: 10, MaxLevel: 5}, false},
		{"at capacity", AgentProfile{IsAvailable: true, DailyCapacity: 10, CurrentLoad: 10, MaxLevel: 5}, false},
		{"level too low", AgentProfile{IsAvailable: true, DailyCapacity: 10, CurrentLoad: 0, MaxLevel: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.agent.CanHandle(ticket))
		})
	}
}

func TestTicketIsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	tk := &Ticket{Status: TicketAssigned, SLADueAt: &past}
	assert.True(t, tk.IsOverdue(now))

	tk.Status = TicketResolved
	assert.False(t, tk.IsOverdue(now))

	tk = &Ticket{Status: TicketOpen}
	assert.False(t, tk.IsOverdue(now))
}

func TestAgentPerformanceRates(t *testing.T) {
	p := &AgentPerformance{TicketsAssigned: 10, TicketsResolved: 7, SLAMet: 6, SLABreached: 2}
	assert.InDelta(t, 70.0, p.ResolutionRate(), 0.01)
	assert.InDelta(t, 75.0, p.SLAComplianceRate(), 0.01)

	empty := &AgentPerformance{}
	assert.Equal(t, 0.0, empty.ResolutionRate())
	assert.Equal(t, 100.0, empty.SLAComplianceRate())
}
