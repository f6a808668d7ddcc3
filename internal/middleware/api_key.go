package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIKeyHeader 客户端携带 API Key 的请求头
const APIKeyHeader = "Api-Key"

// APIKeyValidator 校验 API Key
type APIKeyValidator interface {
	Validate(ctx context.Context, rawKey string) (bool, error)
}

// APIKeyAuth API Key 认证中间件
// 兼容 "Authorization: Api-Key <key>" 写法
func APIKeyAuth(validator APIKeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Api-Key ") {
				key = strings.TrimPrefix(auth, "Api-Key ")
			}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			abortUnauthorized(c, msgNoCredentials)
			return
		}

		ok, err := validator.Validate(c.Request.Context(), key)
		if err != nil {
			zap.S().Errorf("[APIKey] 校验失败: %v", err)
		}
		if !ok {
			abortUnauthorized(c, "Invalid API key.")
			return
		}

		c.Next()
	}
}
