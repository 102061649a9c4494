// Package poller provides fixed-interval background refresh: a
// cancellable repeating task with explicit start/stop, and the badge
// counters that ride on it while a session is active.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/learncrew/learncrew-agent/pkg/metrics"
	"go.uber.org/zap"
)

// Task runs a function immediately and then on a fixed interval until
// stopped. Start and Stop are idempotent. Overlapping runs are not
// de-duplicated: a slow run may still be in flight when the next tick
// fires, which is acceptable for advisory data.
type Task struct {
	name     string
	interval time.Duration
	fn       func(context.Context) error

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewTask creates a repeating task. fn failures are counted and logged,
// never surfaced to the user: background refreshes fail silently.
func NewTask(name string, interval time.Duration, fn func(context.Context) error) *Task {
	return &Task{
		name:     name,
		interval: interval,
		fn:       fn,
	}
}

// Start begins the run-now-then-every-interval loop. No-op when already
// running.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	logger.Debug("Poll task started", zap.String("task", t.name), zap.Duration("interval", t.interval))

	go func() {
		t.run(runCtx)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				t.run(runCtx)
			}
		}
	}()
}

// Stop cancels the loop. No-op when not running.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel == nil {
		return
	}
	t.cancel()
	t.cancel = nil

	logger.Debug("Poll task stopped", zap.String("task", t.name))
}

// Running reports whether the task loop is active
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *Task) run(ctx context.Context) {
	if err := t.fn(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.PollTicksTotal.WithLabelValues(t.name, "error").Inc()
		logger.Debug("Poll tick failed", zap.String("task", t.name), zap.Error(err))
		return
	}
	metrics.PollTicksTotal.WithLabelValues(t.name, "success").Inc()
}
