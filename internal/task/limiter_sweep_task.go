package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 可启停的定时任务
type Task interface {
	Start() error
	Stop() context.Context
}

// Sweeper 清理过期的限流条目
type Sweeper interface {
	Sweep(maxAge time.Duration) int
}

// LimiterSweepTask 定时清理限流器中已过冷却期的 key
type LimiterSweepTask struct {
	sweeper Sweeper
	maxAge  time.Duration
	cron    *cron.Cron
	spec    string
}

// NewLimiterSweepTask maxAge 取各处冷却间隔的最大值，默认每 10 分钟执行一次
func NewLimiterSweepTask(sweeper Sweeper, maxAge time.Duration) *LimiterSweepTask {
	return &LimiterSweepTask{
		sweeper: sweeper,
		maxAge:  maxAge,
		cron:    cron.New(cron.WithSeconds()),
		spec:    "30 0/10 * * * *",
	}
}

// Start 启动定时任务
func (t *LimiterSweepTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, t.RunOnce); err != nil {
		return err
	}

	t.cron.Start()
	zap.S().Infof("[Task] 限流条目清理任务已启动 (%s)", t.spec)
	return nil
}

// Stop 停止调度
func (t *LimiterSweepTask) Stop() context.Context {
	return t.cron.Stop()
}

// RunOnce 执行一次清理
func (t *LimiterSweepTask) RunOnce() {
	if n := t.sweeper.Sweep(t.maxAge); n > 0 {
		zap.S().Debugf("[Task] 已清理限流条目 %d 个", n)
	}
}
