package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"ifinsure/internal/config"
)

type countingSweep struct {
	calls atomic.Int32
	n     int
	err   error
}

func (c *countingSweep) run() (int, error) {
	c.calls.Add(1)
	return c.n, c.err
}

func (c *countingSweep) PurgeExpired(_ context.Context, _ time.Time, _ int) (int, error) {
	return c.run()
}

func (c *countingSweep) MarkOverdue(_ context.Context, _ time.Time) (int, error) {
	return c.run()
}

func (c *countingSweep) ExpireDue(_ context.Context, _ time.Time) (int, error) {
	return c.run()
}

func testConfig() config.WorkerConfig {
	return config.WorkerConfig{
		Enabled:              true,
		TrashPurgeInterval:   time.Hour,
		PolicySweepInterval:  time.Hour,
		InvoiceSweepInterval: time.Hour,
	}
}

func TestMaintenance_RunsAllSweepsOnStartup(t *testing.T) {
	trash := &countingSweep{n: 3}
	invoices := &countingSweep{n: 1}
	policies := &countingSweep{err: errors.New("db down")}

	m := NewMaintenance(testConfig(), trash, invoices, policies, zap.NewNop())

	done := make(chan struct{})
	go func() {
		m.Start(context.Background())
		close(done)
	}()

	// Startup pass runs each sweep once even before any ticker fires.
	assert.Eventually(t, func() bool {
		return trash.calls.Load() == 1 && invoices.calls.Load() == 1 && policies.calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	m.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestMaintenance_StopsOnContextCancel(t *testing.T) {
	m := NewMaintenance(testConfig(), &countingSweep{}, &countingSweep{}, &countingSweep{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
