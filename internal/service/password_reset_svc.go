package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"brickandmortr_server/internal/middleware"
	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/repository"
	"brickandmortr_server/pkg/utils"
)

const (
	resetMailSubject = "brick&mortr password reset request"
	resetMailBody    = "Click the following link to finish resetting your brick&mortr password: %s\n\n" +
		"If you did not make a request to reset your password, please contact support@brickandmortr.com"
)

// PasswordResetConfig 找回密码配置
type PasswordResetConfig struct {
	LinkBase string        // 重置链接，后面拼 ?code=
	From     string        // 发件人
	CodeTTL  time.Duration // 校验码有效期
	Throttle time.Duration // 同一邮箱两次请求的最小间隔
}

// PasswordResetService 找回密码
type PasswordResetService struct {
	userRepo repository.UserRepository
	mailer   Mailer
	limiter  *middleware.CooldownLimiter
	cfg      PasswordResetConfig
	now      func() time.Time
}

// NewPasswordResetService 创建找回密码服务
func NewPasswordResetService(userRepo repository.UserRepository, mailer Mailer, limiter *middleware.CooldownLimiter, cfg PasswordResetConfig) *PasswordResetService {
	return &PasswordResetService{
		userRepo: userRepo,
		mailer:   mailer,
		limiter:  limiter,
		cfg:      cfg,
		now:      time.Now,
	}
}

// RequestReset 生成校验码并发送邮件
// 校验码先落库再发信；发信失败返回 ErrResetMailFailed，已保存的校验码保留
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	if email == "" {
		return ErrResetUserNotFound
	}

	user, err := s.userRepo.GetByUsername(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrResetUserNotFound
	}

	if result := s.limiter.Check("reset:"+email, s.cfg.Throttle); !result.Allowed {
		return ErrResetThrottled
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if err := s.userRepo.SetResetCode(ctx, user.ID, code, s.now().Add(s.cfg.CodeTTL)); err != nil {
		return fmt.Errorf("save reset code: %w", err)
	}

	link := s.cfg.LinkBase + "?code=" + code
	msg := &MailMessage{
		Subject: resetMailSubject,
		Body:    fmt.Sprintf(resetMailBody, link),
		From:    s.cfg.From,
		To:      []string{email},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		zap.S().Errorf("[Mail] 找回密码邮件发送失败 user=%d: %v", user.ID, err)
		return ErrResetMailFailed
	}

	zap.S().Infof("[PasswordReset] 已发送重置邮件 user=%d", user.ID)
	return nil
}

// CheckCode 校验码是否存在以及是否过期
func (s *PasswordResetService) CheckCode(ctx context.Context, code string) (*model.User, error) {
	user, err := s.userRepo.GetByResetCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrResetCodeNotFound
	}
	if user.ResetCodeExpired(s.now()) {
		return user, ErrResetCodeExpired
	}
	return user, nil
}

// ResetPassword 用校验码设置新密码，成功后校验码作废
func (s *PasswordResetService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if _, err := s.CheckCode(ctx, code); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := s.userRepo.ResetPasswordByCode(ctx, code, string(hashedPassword))
	if err != nil {
		return err
	}
	if user == nil {
		// 并发请求已经用掉了这个校验码
		return ErrResetCodeNotFound
	}
	zap.S().Infof("[PasswordReset] 密码已重置 user=%d", user.ID)
	return nil
}

// ClearExpiredCodes 清理过期校验码，供定时任务调用
func (s *PasswordResetService) ClearExpiredCodes(ctx context.Context) (int64, error) {
	return s.userRepo.ClearExpiredResetCodes(ctx, s.now())
}

var (
	ErrResetUserNotFound = errors.New("no user found for specified email")
	ErrResetThrottled    = errors.New("password reset requested too often")
	ErrResetMailFailed   = errors.New("failed to send password reset email")
	ErrResetCodeNotFound = errors.New("reset code not found")
	ErrResetCodeExpired  = errors.New("reset code expired")
	ErrPasswordRequired  = errors.New("new password is required")
)
