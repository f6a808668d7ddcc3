package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brickandmortr_server/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 用户仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByResetCode(ctx context.Context, code string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error

	// UpdateBlob 整体替换 favorites / bag / preferences
	UpdateBlob(ctx context.Context, id int64, kind model.BlobKind, data datatypes.JSON) error

	// SetResetCode 保存找回密码校验码及过期时间
	SetResetCode(ctx context.Context, id int64, code string, expires time.Time) error
	// ResetPasswordByCode 校验码命中时更新密码并清空校验码，返回被更新的用户
	ResetPasswordByCode(ctx context.Context, code string, hashedPassword string) (*model.User, error)
	// ClearExpiredResetCodes 清理已过期的校验码，返回清理条数
	ClearExpiredResetCodes(ctx context.Context, now time.Time) (int64, error)
}

// ==================== 实现 ====================

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// GetByResetCode 根据找回密码校验码获取用户
func (r *userRepository) GetByResetCode(ctx context.Context, code string) (*model.User, error) {
	if code == "" {
		return nil, nil
	}
	var user model.User
	err := r.db.WithContext(ctx).Where("password_reset_code = ?", code).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// ExistsByUsername 检查用户名是否存在
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// UpdateLastLogin 更新最后登录时间
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}

// UpdateBlob 更新用户 JSON 数据
func (r *userRepository) UpdateBlob(ctx context.Context, id int64, kind model.BlobKind, data datatypes.JSON) error {
	column := kind.Column()
	if column == "" {
		return errors.New("unknown blob kind: " + string(kind))
	}
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update(column, data)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetResetCode 保存校验码
func (r *userRepository) SetResetCode(ctx context.Context, id int64, code string, expires time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_reset_code":         code,
			"password_reset_code_expires": expires,
		}).Error
}

// ResetPasswordByCode 加行锁读取再更新，同一校验码只能成功使用一次
func (r *userRepository) ResetPasswordByCode(ctx context.Context, code string, hashedPassword string) (*model.User, error) {
	if code == "" {
		return nil, nil
	}
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("password_reset_code = ?", code).
			First(&user).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"password":                    hashedPassword,
				"password_reset_code":         nil,
				"password_reset_code_expires": nil,
			}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ClearExpiredResetCodes 清理过期校验码
func (r *userRepository) ClearExpiredResetCodes(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("password_reset_code IS NOT NULL AND password_reset_code_expires < ?", now).
		Updates(map[string]interface{}{
			"password_reset_code":         nil,
			"password_reset_code_expires": nil,
		})
	return res.RowsAffected, res.Error
}
