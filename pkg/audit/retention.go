package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
)

// Pruner deletes audit records past the retention window on a cron
// schedule.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
type Pruner struct {
	store  Store
	cfg    config.RetentionConfig
	cron   *cron.Cron
	mu     sync.Mutex
	logger *slog.Logger

	running bool
}

// NewPruner creates a retention pruner over the given store.
func NewPruner(store Store, cfg config.RetentionConfig) *Pruner {
	return &Pruner{
		store:  store,
		cfg:    cfg,
		cron:   cron.New(),
		logger: slog.Default().With("component", "audit.pruner"),
	}
}

// Start schedules pruning per the configured cron expression. An empty
// schedule disables the pruner.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cfg.PruneSchedule == "" {
		p.logger.Info("prune schedule not configured, skipping pruner")
		return nil
	}

	if _, err := cron.ParseStandard(p.cfg.PruneSchedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.cfg.PruneSchedule, err)
	}

	if _, err := p.cron.AddFunc(p.cfg.PruneSchedule, func() {
		p.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("audit retention pruner started",
		"schedule", p.cfg.PruneSchedule,
		"retention_days", p.cfg.Days,
	)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// Prune deletes records older than the retention window and returns
// how many were deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.cfg.Days)
	return p.store.DeleteOlderThan(ctx, cutoff)
}

// runPruning executes a scheduled pruning cycle.
func (p *Pruner) runPruning(ctx context.Context) {
	deleted, err := p.Prune(ctx)
	if err != nil {
		p.logger.Error("scheduled audit pruning failed", "error", err)
		return
	}

	if deleted > 0 {
		p.logger.Info("scheduled audit pruning completed", "deleted_count", deleted)
	} else {
		p.logger.Debug("scheduled audit pruning completed, no records deleted")
	}
}

// Stop stops the scheduler and waits for a running job to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil && p.running {
		ctx := p.cron.Stop()
		<-ctx.Done()
		p.running = false
		p.logger.Info("audit retention pruner stopped")
	}
}

// NextPruning returns the next scheduled pruning time, or nil when the
// pruner is not scheduled.
func (p *Pruner) NextPruning() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
