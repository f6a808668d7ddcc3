package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
)

// APIKeyRepository API Key 仓储接口
type APIKeyRepository interface {
	Create(ctx context.Context, key *model.APIKey) error
	// GetActiveByHash 查找未吊销的 Key，不存在时返回 nil, nil
	GetActiveByHash(ctx context.Context, hash string) (*model.APIKey, error)
	List(ctx context.Context) ([]model.APIKey, error)
	// RevokeByPrefix 吊销指定前缀的 Key，返回影响条数
	RevokeByPrefix(ctx context.Context, prefix string) (int64, error)
}

type apiKeyRepo struct {
	db *gorm.DB
}

// NewAPIKeyRepository 创建 API Key 仓储
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepo{db: db}
}

func (r *apiKeyRepo) Create(ctx context.Context, key *model.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *apiKeyRepo) GetActiveByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	var key model.APIKey
	err := r.db.WithContext(ctx).
		Where("key_hash = ? AND revoked = ?", hash, false).
		First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) List(ctx context.Context) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := r.db.WithContext(ctx).Order("id ASC").Find(&keys).Error
	return keys, err
}

func (r *apiKeyRepo) RevokeByPrefix(ctx context.Context, prefix string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.APIKey{}).
		Where("prefix = ? AND revoked = ?", prefix, false).
		Update("revoked", true)
	return res.RowsAffected, res.Error
}
