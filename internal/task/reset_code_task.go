package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ResetCodeCleaner 清理过期校验码
type ResetCodeCleaner interface {
	ClearExpiredCodes(ctx context.Context) (int64, error)
}

// ResetCodeTask 定时清理过期的找回密码校验码
type ResetCodeTask struct {
	cleaner ResetCodeCleaner
	cron    *cron.Cron
	spec    string
}

// NewResetCodeTask 默认每 10 分钟执行一次
func NewResetCodeTask(cleaner ResetCodeCleaner) *ResetCodeTask {
	return &ResetCodeTask{
		cleaner: cleaner,
		cron:    cron.New(cron.WithSeconds()), // 支持秒级控制
		spec:    "0 0/10 * * * *",
	}
}

// Start 启动定时任务
func (t *ResetCodeTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.RunOnce(ctx)
	}); err != nil {
		return err
	}

	t.cron.Start()
	zap.S().Infof("[Task] 校验码清理任务已启动 (%s)", t.spec)
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (t *ResetCodeTask) Stop() context.Context {
	return t.cron.Stop()
}

// RunOnce 执行一次清理
func (t *ResetCodeTask) RunOnce(ctx context.Context) {
	n, err := t.cleaner.ClearExpiredCodes(ctx)
	if err != nil {
		zap.S().Errorf("[Task] 清理过期校验码失败: %v", err)
		return
	}
	if n > 0 {
		zap.S().Infof("[Task] 已清理过期校验码 %d 个", n)
	}
}
