package dto

import "time"

// ==================== 注册 ====================

// CreateUserRequest App 注册请求
// lat / lon 兼容字符串和数字，两者都提供时才生效
type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required,max=100"`
	Username string      `json:"username" binding:"required,max=150"`
	Password string      `json:"password" binding:"required,max=128"`
	Lat      interface{} `json:"lat" binding:"omitempty,coordinate"`
	Lon      interface{} `json:"lon" binding:"omitempty,coordinate"`
}

// ==================== 登录 ====================

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *UserInfo `json:"user"`
}

// ==================== Token 刷新 ====================

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ==================== 用户信息 ====================

// UserInfo 用户信息
type UserInfo struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	IsStaff  bool    `json:"is_staff"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}
