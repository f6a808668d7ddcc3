package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/pkg/database"
)

// ==================== 测试辅助 ====================

var bg = context.Background()

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      ":memory:",
		LogLevel: logger.Silent,
	}, model.All()...)
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	return db
}

// fakeMailer 记录发出的邮件，fail 为 true 时发送失败
type fakeMailer struct {
	mu   sync.Mutex
	sent []*MailMessage
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, msg *MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
