package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config 服务配置
type Config struct {
	Env  string
	Port string

	// 数据库
	DBDriver string
	DBDSN    string

	// 鉴权
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	APIKeyCacheTTL  time.Duration

	// 落地页会话 / CSRF
	SessionKey  []byte
	CSRFKey     []byte
	CSRFSecure  bool
	CORSOrigins []string

	// 邮件
	Mail MailConfig

	// 找回密码
	ResetLinkBase string
	ResetCodeTTL  time.Duration
	ResetThrottle time.Duration
}

// MailConfig 邮件配置
type MailConfig struct {
	Provider     string // smtp | http | log
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	APIURL       string
	APIKey       string
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load 读取配置：先加载 .env（可选），再由环境变量覆盖默认值
func Load() (*Config, error) {
	// .env 不存在不算错误
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:             v.GetString("APP_ENV"),
		Port:            v.GetString("SERVER_PORT"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DBDSN:           v.GetString("DB_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		AccessTokenTTL:  v.GetDuration("JWT_ACCESS_TTL"),
		RefreshTokenTTL: v.GetDuration("JWT_REFRESH_TTL"),
		APIKeyCacheTTL:  v.GetDuration("API_KEY_CACHE_TTL"),
		CSRFSecure:      v.GetBool("CSRF_SECURE"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGIN_PATTERNS")),
		Mail: MailConfig{
			Provider:     v.GetString("MAIL_PROVIDER"),
			From:         v.GetString("MAIL_FROM"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUser:     v.GetString("SMTP_USER"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			APIURL:       v.GetString("MAIL_API_URL"),
			APIKey:       v.GetString("MAIL_API_KEY"),
		},
		ResetLinkBase: v.GetString("RESET_LINK_BASE"),
		ResetCodeTTL:  v.GetDuration("RESET_CODE_TTL"),
		ResetThrottle: v.GetDuration("RESET_THROTTLE"),
	}

	cfg.SessionKey = keyFromEnv(v.GetString("SESSION_KEY"), "SESSION_KEY")
	cfg.CSRFKey = keyFromEnv(v.GetString("CSRF_KEY"), "CSRF_KEY")

	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

const defaultJWTSecret = "brickandmortr-secret-key-change-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_DSN", "host=localhost user=brickandmortr password=brickandmortr dbname=brickandmortr port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL", 10*time.Hour)
	v.SetDefault("JWT_REFRESH_TTL", 30*24*time.Hour)
	v.SetDefault("API_KEY_CACHE_TTL", 5*time.Minute)
	v.SetDefault("CSRF_SECURE", false)
	v.SetDefault("CORS_ORIGIN_PATTERNS", `^(.*?)localhost,^(.*?)127.0.0.1`)
	v.SetDefault("MAIL_PROVIDER", "log")
	v.SetDefault("MAIL_FROM", "do-not-reply@brickandmortr.com")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RESET_LINK_BASE", "https://brickandmortr.com/reset-password")
	v.SetDefault("RESET_CODE_TTL", 20*time.Minute)
	v.SetDefault("RESET_THROTTLE", time.Minute)
}

// keyFromEnv 解析 base64 密钥，未设置或太短时生成随机密钥（重启后失效）
func keyFromEnv(raw, name string) []byte {
	if raw != "" {
		if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil && len(decoded) >= 32 {
			return decoded
		}
	}
	zap.S().Warnf("[Config] %s 未设置或无效，使用随机密钥，重启后失效", name)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		zap.S().Errorf("[Config] 生成随机密钥失败: %v", err)
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
