// Package scheduler runs the periodic budget reconciliation pass.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/budget-tracker/engine/internal/application/adapter"
	"github.com/budget-tracker/engine/internal/application/usecase/budget"
)

// ReconcileLockKey is the lease key serializing scheduler runs across
// replicas.
const ReconcileLockKey = "budget:reconcile:lease"

// Worker drives reconciliation on a fixed interval. Multiple replicas may run
// the worker; the lease ensures only one executes a given pass.
type Worker struct {
	reconcile *budget.ReconcileOwnersUseCase
	lock      adapter.RunLock
	interval  time.Duration
	leaseTTL  time.Duration
}

// WorkerConfig holds configuration for the scheduler worker.
type WorkerConfig struct {
	Interval time.Duration
	LeaseTTL time.Duration
}

// DefaultWorkerConfig returns the default scheduler configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Interval: time.Hour,
		LeaseTTL: 30 * time.Minute,
	}
}

// NewWorker creates a new scheduler worker.
func NewWorker(reconcile *budget.ReconcileOwnersUseCase, lock adapter.RunLock, config WorkerConfig) *Worker {
	if config.Interval <= 0 {
		config.Interval = DefaultWorkerConfig().Interval
	}
	if config.LeaseTTL <= 0 {
		config.LeaseTTL = DefaultWorkerConfig().LeaseTTL
	}
	return &Worker{
		reconcile: reconcile,
		lock:      lock,
		interval:  config.Interval,
		leaseTTL:  config.LeaseTTL,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Budget reconciliation worker started",
		"interval", w.interval,
		"lease_ttl", w.leaseTTL,
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on start, then on ticker
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Budget reconciliation worker shutting down")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes one reconciliation pass under the lease. A pass skipped
// because another replica holds the lease is not an error.
func (w *Worker) RunOnce(ctx context.Context) {
	acquired, err := w.lock.Acquire(ctx, ReconcileLockKey, w.leaseTTL)
	if err != nil {
		slog.Error("Failed to acquire reconciliation lease", "error", err)
		return
	}
	if !acquired {
		slog.Debug("Reconciliation lease held elsewhere, skipping pass")
		return
	}
	defer func() {
		if err := w.lock.Release(ctx, ReconcileLockKey); err != nil {
			slog.Warn("Failed to release reconciliation lease", "error", err)
		}
	}()

	report, err := w.reconcile.Execute(ctx, time.Now().UTC())
	if err != nil {
		slog.Error("Reconciliation pass failed to start", "error", err)
		return
	}

	if report.Failed > 0 {
		slog.Warn("Reconciliation pass finished with failures",
			"succeeded", report.Succeeded,
			"failed", report.Failed,
		)
		return
	}
	slog.Info("Reconciliation pass finished",
		"succeeded", report.Succeeded,
	)
}
