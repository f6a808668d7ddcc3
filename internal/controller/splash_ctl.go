package controller

import (
	"encoding/gob"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"brickandmortr_server/internal/service"
)

// ==================== 落地页 ====================

const sessionName = "brickandmortr_session"

// Flash 页面提示
type Flash struct {
	Level string // error | success | info
	Text  string
}

func init() {
	gob.Register(Flash{})
}

// SplashController 落地页、邮箱收集、找回密码
type SplashController struct {
	contacts *service.ContactService
	resets   *service.PasswordResetService
	store    sessions.Store
}

// NewSplashController 创建落地页控制器
func NewSplashController(contacts *service.ContactService, resets *service.PasswordResetService, store sessions.Store) *SplashController {
	return &SplashController{contacts: contacts, resets: resets, store: store}
}

// Index 首页
func (ctl *SplashController) Index(c *gin.Context) {
	ctl.render(c, http.StatusOK, "index.html", gin.H{"title": "brick&mortr"})
}

// SubmitEmail 保存访客邮箱后回到首页
func (ctl *SplashController) SubmitEmail(c *gin.Context) {
	err := ctl.contacts.Submit(c.Request.Context(), c.PostForm("email"))
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		ctl.addFlash(c, "error", "Please enter a valid email address.")
	case err != nil:
		zap.S().Errorf("[Splash] 保存邮箱失败: %v", err)
		ctl.addFlash(c, "error", "Something went wrong. Please try again.")
	default:
		ctl.addFlash(c, "success", "Thanks! We'll be in touch.")
	}
	ctl.saveSession(c)
	c.Redirect(http.StatusFound, "/")
}

// ForgotPasswordPage 找回密码页
func (ctl *SplashController) ForgotPasswordPage(c *gin.Context) {
	ctl.render(c, http.StatusOK, "forgot_password.html", gin.H{"title": "Forgot password"})
}

// ForgotPassword 发送重置邮件
func (ctl *SplashController) ForgotPassword(c *gin.Context) {
	err := ctl.resets.RequestReset(c.Request.Context(), c.PostForm("email"))
	switch {
	case err == nil:
		ctl.addFlash(c, "success", "Password reset link was sent to the specified email address.")
	case errors.Is(err, service.ErrResetUserNotFound):
		ctl.addFlash(c, "error", "No user found for specified email.")
	case errors.Is(err, service.ErrResetMailFailed):
		ctl.addFlash(c, "error", "Failed to send password reset email.")
	case errors.Is(err, service.ErrResetThrottled):
		ctl.addFlash(c, "error", "A reset link was sent recently. Please check your email or try again later.")
	default:
		zap.S().Errorf("[Splash] 找回密码失败: %v", err)
		ctl.addFlash(c, "error", "Something went wrong. Please try again.")
	}
	ctl.render(c, http.StatusOK, "forgot_password.html", gin.H{"title": "Forgot password"})
}

// ResetPasswordPage 重置密码页，校验码不存在时 404
func (ctl *SplashController) ResetPasswordPage(c *gin.Context) {
	code := c.Query("code")
	_, err := ctl.resets.CheckCode(c.Request.Context(), code)
	switch {
	case errors.Is(err, service.ErrResetCodeNotFound):
		ctl.NotFound(c)
		return
	case errors.Is(err, service.ErrResetCodeExpired):
		ctl.addFlash(c, "error", "Password reset request expired.")
		ctl.render(c, http.StatusOK, "reset_password.html", gin.H{"title": "Reset password", "code": code})
		return
	case err != nil:
		zap.S().Errorf("[Splash] 校验重置码失败: %v", err)
		ctl.addFlash(c, "error", "Something went wrong. Please try again.")
	}
	ctl.render(c, http.StatusOK, "reset_password.html", gin.H{
		"title":    "Reset password",
		"code":     code,
		"showForm": err == nil,
	})
}

// ResetPassword 提交新密码
func (ctl *SplashController) ResetPassword(c *gin.Context) {
	code := c.PostForm("code")
	err := ctl.resets.ResetPassword(c.Request.Context(), code, c.PostForm("new_password"))
	showForm := false
	switch {
	case err == nil:
		ctl.addFlash(c, "info", "Password successfully reset.")
	case errors.Is(err, service.ErrResetCodeNotFound):
		ctl.NotFound(c)
		return
	case errors.Is(err, service.ErrResetCodeExpired):
		ctl.addFlash(c, "error", "Password reset request expired.")
	case errors.Is(err, service.ErrPasswordRequired):
		ctl.addFlash(c, "error", "Please enter a new password.")
		showForm = true
	default:
		zap.S().Errorf("[Splash] 重置密码失败: %v", err)
		ctl.addFlash(c, "error", "Something went wrong. Please try again.")
		showForm = true
	}
	ctl.render(c, http.StatusOK, "reset_password.html", gin.H{
		"title":    "Reset password",
		"code":     code,
		"showForm": showForm,
	})
}

// NotFound HTML 404 页
func (ctl *SplashController) NotFound(c *gin.Context) {
	ctl.render(c, http.StatusNotFound, "404.html", gin.H{"title": "Not found"})
}

// ==================== 会话辅助 ====================

func (ctl *SplashController) session(c *gin.Context) *sessions.Session {
	// 解码失败（例如密钥轮换）时拿到的是新会话，直接使用
	session, err := ctl.store.Get(c.Request, sessionName)
	if err != nil {
		zap.S().Debugf("[Splash] 读取会话失败: %v", err)
	}
	return session
}

func (ctl *SplashController) addFlash(c *gin.Context, level, text string) {
	ctl.session(c).AddFlash(Flash{Level: level, Text: text})
}

func (ctl *SplashController) saveSession(c *gin.Context) {
	if err := ctl.session(c).Save(c.Request, c.Writer); err != nil {
		zap.S().Errorf("[Splash] 保存会话失败: %v", err)
	}
}

// render 取出本次会话中的提示后渲染页面
func (ctl *SplashController) render(c *gin.Context, status int, name string, data gin.H) {
	var flashes []Flash
	for _, f := range ctl.session(c).Flashes() {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	ctl.saveSession(c)

	data["flashes"] = flashes
	data["csrfField"] = csrf.TemplateField(c.Request)
	c.HTML(status, name, data)
}
