package worker

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ifinsure/internal/config"
)

// purgeBatchSize caps how many expired trash entries one sweep removes.
const purgeBatchSize = 200

// TrashPurger permanently deletes trash entries past their retention window.
type TrashPurger interface {
	PurgeExpired(ctx context.Context, now time.Time, limit int) (int, error)
}

// InvoiceSweeper flags unpaid invoices past their due date as overdue.
type InvoiceSweeper interface {
	MarkOverdue(ctx context.Context, today time.Time) (int, error)
}

// PolicySweeper expires active policies whose end date has passed.
type PolicySweeper interface {
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// Maintenance runs the periodic back-office jobs that the request path
// never triggers: trash retention purge, invoice overdue marking and
// policy expiry.
type Maintenance struct {
	cfg      config.WorkerConfig
	trash    TrashPurger
	invoices InvoiceSweeper
	policies PolicySweeper
	logger   *zap.Logger
	tracer   trace.Tracer
	stopChan chan struct{}
}

func NewMaintenance(cfg config.WorkerConfig, trash TrashPurger, invoices InvoiceSweeper, policies PolicySweeper, logger *zap.Logger) *Maintenance {
	return &Maintenance{
		cfg:      cfg,
		trash:    trash,
		invoices: invoices,
		policies: policies,
		logger:   logger,
		tracer:   otel.Tracer("ifinsure/internal/worker"),
		stopChan: make(chan struct{}),
	}
}

// Start blocks, running each sweep on its own ticker until Stop is called
// or the context is cancelled. Every sweep also runs once at startup so a
// restarted service catches up immediately.
func (m *Maintenance) Start(ctx context.Context) {
	m.logger.Info("starting maintenance worker",
		zap.Duration("trash_purge_interval", m.cfg.TrashPurgeInterval),
		zap.Duration("invoice_sweep_interval", m.cfg.InvoiceSweepInterval),
		zap.Duration("policy_sweep_interval", m.cfg.PolicySweepInterval))

	m.runAll(ctx)

	trashTicker := time.NewTicker(m.cfg.TrashPurgeInterval)
	defer trashTicker.Stop()
	invoiceTicker := time.NewTicker(m.cfg.InvoiceSweepInterval)
	defer invoiceTicker.Stop()
	policyTicker := time.NewTicker(m.cfg.PolicySweepInterval)
	defer policyTicker.Stop()

	for {
		select {
		case <-trashTicker.C:
			m.purgeTrash(ctx)
		case <-invoiceTicker.C:
			m.sweepInvoices(ctx)
		case <-policyTicker.C:
			m.sweepPolicies(ctx)
		case <-m.stopChan:
			m.logger.Info("stopping maintenance worker")
			return
		case <-ctx.Done():
			m.logger.Info("context cancelled, stopping maintenance worker")
			return
		}
	}
}

// Stop signals Start to return. Safe to call once.
func (m *Maintenance) Stop() {
	close(m.stopChan)
}

func (m *Maintenance) runAll(ctx context.Context) {
	m.purgeTrash(ctx)
	m.sweepInvoices(ctx)
	m.sweepPolicies(ctx)
}

func (m *Maintenance) purgeTrash(ctx context.Context) {
	ctx, span := m.tracer.Start(ctx, "maintenance.purge_trash")
	defer span.End()

	n, err := m.trash.PurgeExpired(ctx, time.Now().UTC(), purgeBatchSize)
	if err != nil {
		m.logger.Error("trash purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		m.logger.Info("purged expired trash entries", zap.Int("count", n))
	}
}

func (m *Maintenance) sweepInvoices(ctx context.Context) {
	ctx, span := m.tracer.Start(ctx, "maintenance.sweep_invoices")
	defer span.End()

	n, err := m.invoices.MarkOverdue(ctx, time.Now().UTC())
	if err != nil {
		m.logger.Error("invoice overdue sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		m.logger.Info("marked invoices overdue", zap.Int("count", n))
	}
}

func (m *Maintenance) sweepPolicies(ctx context.Context) {
	ctx, span := m.tracer.Start(ctx, "maintenance.sweep_policies")
	defer span.End()

	n, err := m.policies.ExpireDue(ctx, time.Now().UTC())
	if err != nil {
		m.logger.Error("policy expiry sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		m.logger.Info("expired policies", zap.Int("count", n))
	}
}
