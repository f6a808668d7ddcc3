package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== JWT ====================

func jwtRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "username": GetUserClaims(c).Username})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	r := jwtRouter()
	access, refresh, err := GenerateTokenPair(7, "joe@example.com", false)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"有效 token", "Bearer " + access, http.StatusOK, `{"id":7,"username":"joe@example.com"}`},
		{"缺少请求头", "", http.StatusUnauthorized, `{"message":"Authentication credentials were not provided."}`},
		{"格式错误", "Token " + access, http.StatusUnauthorized, `{"message":"Authentication credentials were not provided."}`},
		{"refresh token 不能访问", "Bearer " + refresh, http.StatusUnauthorized, `{"message":"Invalid token."}`},
		{"伪造 token", "Bearer abc.def.ghi", http.StatusUnauthorized, `{"message":"Invalid token."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestParseToken_Expired(t *testing.T) {
	old := GetJWTConfig()
	defer SetJWTConfig(old)

	cfg := *old
	cfg.AccessTokenTTL = -time.Minute
	SetJWTConfig(&cfg)

	access, _, err := GenerateTokenPair(1, "joe", false)
	require.NoError(t, err)

	_, err = ParseToken(access)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	access, _, err := GenerateTokenPair(1, "joe", false)
	require.NoError(t, err)

	old := GetJWTConfig()
	defer SetJWTConfig(old)
	cfg := *old
	cfg.SecretKey = "another-secret"
	SetJWTConfig(&cfg)

	_, err = ParseToken(access)
	assert.Error(t, err)
}

// ==================== API Key ====================

type stubValidator struct {
	valid string
	err   error
}

func (s stubValidator) Validate(_ context.Context, rawKey string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return rawKey == s.valid, nil
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(v APIKeyValidator) *gin.Engine {
		r := gin.New()
		r.GET("/data", APIKeyAuth(v), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	r := newRouter(stubValidator{valid: "good-key"})

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{"Api-Key 请求头", map[string]string{APIKeyHeader: "good-key"}, http.StatusOK},
		{"Authorization 写法", map[string]string{"Authorization": "Api-Key good-key"}, http.StatusOK},
		{"错误的 key", map[string]string{APIKeyHeader: "bad"}, http.StatusUnauthorized},
		{"Bearer 不算 API Key", map[string]string{"Authorization": "Bearer good-key"}, http.StatusUnauthorized},
		{"没有 key", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/data", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	// 校验出错时拒绝访问
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set(APIKeyHeader, "good-key")
	newRouter(stubValidator{err: errors.New("db down")}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
