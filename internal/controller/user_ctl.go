package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"brickandmortr_server/internal/api/dto"
	"brickandmortr_server/internal/middleware"
	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/service"
)

// ==================== UserController 用户控制器 ====================

// UserController 注册、登录、用户 JSON 数据
type UserController struct {
	userService *service.UserService
}

// NewUserController 创建用户控制器
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ==================== 注册 ====================

// CreateUser App 注册
// @Summary 注册
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateUserRequest true "注册信息"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.MessageResponse
// @Router /create_user [post]
func (ctl *UserController) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, dto.DescribeValidation(err))
		return
	}

	_, err := ctl.userService.CreateUser(c.Request.Context(), &req)
	switch {
	case errors.Is(err, service.ErrUsernameExists):
		badRequest(c, "Username already in use.")
	case errors.Is(err, service.ErrInvalidLocation):
		badRequest(c, "lat and lon must be numbers.")
	case err != nil:
		serverError(c, err)
	default:
		message(c, http.StatusCreated, "Created user.")
	}
}

// ==================== 认证接口 ====================

// Login 用户登录
// @Summary 用户登录
// @Tags Auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Router /auth/token [post]
func (ctl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, dto.DescribeValidation(err))
		return
	}

	resp, err := ctl.userService.Login(c.Request.Context(), &req)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserDisabled):
		message(c, http.StatusUnauthorized, "Invalid credentials given.")
	case err != nil:
		serverError(c, err)
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// RefreshToken 刷新 Token
// @Summary 刷新 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.RefreshTokenRequest true "Refresh Token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Router /auth/refresh [post]
func (ctl *UserController) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, dto.DescribeValidation(err))
		return
	}

	resp, err := ctl.userService.RefreshToken(c.Request.Context(), &req)
	switch {
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrUserDisabled):
		message(c, http.StatusUnauthorized, "Invalid token.")
	case err != nil:
		serverError(c, err)
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// ==================== 收藏 / 购物袋 / 偏好 ====================

// GetBlob 读取当前用户的 JSON 数据
// @Summary 读取收藏 / 购物袋 / 偏好
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param kind path string true "favorites / bag / preferences"
// @Success 200 {object} interface{}
// @Failure 401 {object} dto.MessageResponse
// @Router /users/{kind} [get]
func (ctl *UserController) GetBlob(kind model.BlobKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := ctl.userService.GetBlob(c.Request.Context(), middleware.GetUserID(c), kind)
		if errors.Is(err, service.ErrUserNotFound) {
			message(c, http.StatusUnauthorized, "User not found.")
			return
		}
		if err != nil {
			serverError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}
}

// UpdateBlob 整体替换当前用户的 JSON 数据
// @Summary 更新收藏 / 购物袋 / 偏好
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "favorites / bag / preferences"
// @Param request body interface{} true "任意 JSON"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Router /users/{kind} [post]
func (ctl *UserController) UpdateBlob(kind model.BlobKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			badRequest(c, "Invalid request body.")
			return
		}

		err = ctl.userService.UpdateBlob(c.Request.Context(), middleware.GetUserID(c), kind, body)
		switch {
		case errors.Is(err, service.ErrInvalidJSON):
			badRequest(c, "Request body must be valid JSON.")
		case errors.Is(err, service.ErrUserNotFound):
			message(c, http.StatusUnauthorized, "User not found.")
		case err != nil:
			serverError(c, err)
		default:
			message(c, http.StatusOK, "Updated user "+string(kind)+".")
		}
	}
}
