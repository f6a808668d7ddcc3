package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewAPIClient 创建一个配置好超时和重试的 Resty 客户端
// 用于调用第三方 HTTP 接口（如邮件服务）
func NewAPIClient(timeout time.Duration, debug bool) *resty.Client {
	return resty.New().
		SetDebug(debug).
		SetTimeout(timeout).
		SetRetryCount(0). // 失败不自动重试，由调用方决定
		SetHeader("User-Agent", "brickandmortr-server/1.0")
}
