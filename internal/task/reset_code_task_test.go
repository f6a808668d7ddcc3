package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	mu    sync.Mutex
	calls int
	n     int64
	err   error
}

func (f *fakeCleaner) ClearExpiredCodes(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.n, f.err
}

func (f *fakeCleaner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestResetCodeTask_RunOnce(t *testing.T) {
	cleaner := &fakeCleaner{n: 3}
	NewResetCodeTask(cleaner).RunOnce(context.Background())
	assert.Equal(t, 1, cleaner.Calls())

	// 出错时只记日志
	failing := &fakeCleaner{err: errors.New("db down")}
	NewResetCodeTask(failing).RunOnce(context.Background())
	assert.Equal(t, 1, failing.Calls())
}

func TestResetCodeTask_Schedule(t *testing.T) {
	cleaner := &fakeCleaner{}
	task := NewResetCodeTask(cleaner)
	task.spec = "* * * * * *"

	require.NoError(t, task.Start())
	defer task.Stop()

	assert.Eventually(t, func() bool { return cleaner.Calls() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestResetCodeTask_InvalidSpec(t *testing.T) {
	task := NewResetCodeTask(&fakeCleaner{})
	task.spec = "not a cron spec"
	assert.Error(t, task.Start())
}
