package task

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickandmortr_server/internal/middleware"
)

var (
	_ Sweeper = (*middleware.CooldownLimiter)(nil)
	_ Task    = (*LimiterSweepTask)(nil)
	_ Task    = (*ResetCodeTask)(nil)
)

type fakeSweeper struct {
	mu     sync.Mutex
	maxAge []time.Duration
}

func (f *fakeSweeper) Sweep(maxAge time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxAge = append(f.maxAge, maxAge)
	return 2
}

func (f *fakeSweeper) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.maxAge)
}

func TestLimiterSweepTask_RunOnce(t *testing.T) {
	sweeper := &fakeSweeper{}
	NewLimiterSweepTask(sweeper, time.Minute).RunOnce()
	assert.Equal(t, []time.Duration{time.Minute}, sweeper.maxAge)
}

func TestLimiterSweepTask_Schedule(t *testing.T) {
	sweeper := &fakeSweeper{}
	task := NewLimiterSweepTask(sweeper, time.Minute)
	task.spec = "* * * * * *"

	require.NoError(t, task.Start())
	defer task.Stop()

	assert.Eventually(t, func() bool { return sweeper.Calls() > 0 }, 3*time.Second, 50*time.Millisecond)
}
