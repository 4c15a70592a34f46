package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/wogix/internal/platform"
)

// Registry withdraws the windows whose handle went bad.
type Registry interface {
	Reconcile() []platform.WindowID
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks that managed windows still exist. Destroy
// notifications can be lost, for instance when a client dies while its
// events are still queued, so the registry is swept on a timer as well.
type Reconciler struct {
	interval time.Duration
	registry Registry
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, registry Registry) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval: interval,
		registry: registry,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() []platform.WindowID {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	gone := r.registry.Reconcile()
	for _, id := range gone {
		r.logger.Info("reconciler: stale window withdrawn", "window_id", fmt.Sprintf("0x%x", uint32(id)))
	}
	return gone
}

// ReconcileNow triggers an immediate reconciliation pass and returns the
// withdrawn windows.
func (r *Reconciler) ReconcileNow() []platform.WindowID {
	return r.reconcile()
}
