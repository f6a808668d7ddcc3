package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"brickandmortr_server/internal/config"
	"brickandmortr_server/pkg/utils"
)

// ==================== 邮件 ====================

// MailMessage 一封纯文本邮件
type MailMessage struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Mailer 邮件发送
type Mailer interface {
	Send(ctx context.Context, msg *MailMessage) error
}

// NewMailer 按配置选择发送方式：smtp | http | log
func NewMailer(cfg config.MailConfig) (Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPMailer(cfg), nil
	case "http":
		if cfg.APIURL == "" {
			return nil, errors.New("MAIL_API_URL is required for http mail provider")
		}
		return NewHTTPMailer(cfg, utils.NewAPIClient(15*time.Second, false)), nil
	case "log", "":
		return &LogMailer{}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider: %s", cfg.Provider)
	}
}

// ==================== SMTP ====================

// SMTPMailer 通过 SMTP 发送
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer 创建 SMTP 发送器
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg *MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// ==================== HTTP API ====================

// HTTPMailer 通过邮件服务商的 HTTP 接口发送
type HTTPMailer struct {
	client *resty.Client
	url    string
	apiKey string
}

// NewHTTPMailer 创建 HTTP 发送器
func NewHTTPMailer(cfg config.MailConfig, client *resty.Client) *HTTPMailer {
	return &HTTPMailer{client: client, url: cfg.APIURL, apiKey: cfg.APIKey}
}

type httpMailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (m *HTTPMailer) Send(ctx context.Context, msg *MailMessage) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetAuthToken(m.apiKey).
		SetBody(httpMailPayload{
			From:    msg.From,
			To:      msg.To,
			Subject: msg.Subject,
			Text:    msg.Body,
		}).
		Post(m.url)
	if err != nil {
		return fmt.Errorf("mail api request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// ==================== 日志（开发环境） ====================

// LogMailer 只打日志，不真正发送
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg *MailMessage) error {
	zap.S().Infof("[Mail] to=%v subject=%q\n%s", msg.To, msg.Subject, msg.Body)
	return nil
}
