package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter 冷却限流器 ====================

// CooldownLimiter 按 key 限制两次操作之间的最小间隔
// 用于找回密码邮件、登录等容易被刷的操作
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
	now   func() time.Time
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
	removed  bool // 已被 Sweep 移出 map
}

// NewCooldownLimiter 创建限流器
func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{now: time.Now}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时记录本次时间
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	for {
		actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
		entry := actual.(*lockEntry)

		entry.mu.Lock()
		if entry.removed {
			entry.mu.Unlock()
			continue
		}
		result := r.check(entry, interval)
		entry.mu.Unlock()
		return result
	}
}

func (r *CooldownLimiter) check(entry *lockEntry, interval time.Duration) CheckResult {
	now := r.now()
	if !entry.lastTime.IsZero() {
		if elapsed := now.Sub(entry.lastTime); elapsed < interval {
			return CheckResult{
				Allowed:    false,
				RetryAfter: interval - elapsed,
			}
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Sweep 删除最近一次执行早于 maxAge 的条目，返回删除数量
// maxAge 不小于各处使用的冷却间隔时，删除不影响限流结果
func (r *CooldownLimiter) Sweep(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)
	removed := 0
	r.locks.Range(func(key, value any) bool {
		entry := value.(*lockEntry)
		entry.mu.Lock()
		if entry.lastTime.Before(cutoff) {
			entry.removed = true
			r.locks.Delete(key)
			removed++
		}
		entry.mu.Unlock()
		return true
	})
	return removed
}

// ==================== Gin 中间件 ====================

// Throttle 按客户端 IP + 路由限流，超限返回 429
func Throttle(limiter *CooldownLimiter, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ip:%s:%s", c.ClientIP(), c.FullPath())

		result := limiter.Check(key, interval)
		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Request was throttled.",
			})
			return
		}

		c.Next()
	}
}
