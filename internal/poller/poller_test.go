package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error"})
}

func TestTask_RunsImmediatelyThenOnInterval(t *testing.T) {
	var runs atomic.Int32
	task := NewTask("test", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	task.Start(context.Background())
	defer task.Stop()

	// First run happens without waiting for the first tick
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)
	// Then the ticker keeps it going
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestTask_StopHaltsTheLoop(t *testing.T) {
	var runs atomic.Int32
	task := NewTask("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	task.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)

	task.Stop()
	assert.False(t, task.Running())

	settled := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, runs.Load())
}

func TestTask_StartAndStopAreIdempotent(t *testing.T) {
	var runs atomic.Int32
	task := NewTask("test", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx := context.Background()
	task.Start(ctx)
	task.Start(ctx)
	assert.True(t, task.Running())

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)
	// Second Start must not have spawned a second immediate run
	assert.Equal(t, int32(1), runs.Load())

	task.Stop()
	task.Stop()
	assert.False(t, task.Running())
}

func TestTask_FailuresStayInTheLoop(t *testing.T) {
	var runs atomic.Int32
	task := NewTask("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return context.DeadlineExceeded
	})

	task.Start(context.Background())
	defer task.Stop()

	// Errors are swallowed; the loop keeps ticking
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestTask_ParentContextCancelStopsRuns(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	task := NewTask("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	task.Start(ctx)
	defer task.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	settled := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), settled+1)
}
