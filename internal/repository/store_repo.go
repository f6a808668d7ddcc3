package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
)

// ==================== 接口定义 ====================

// StoreRepository 店铺仓储接口
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	CreateBatch(ctx context.Context, stores []model.Store) error
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListOrderedByName(ctx context.Context) ([]model.Store, error)
	Count(ctx context.Context) (int64, error)
	// Delete 删除店铺及其全部商品
	Delete(ctx context.Context, id int64) error
}

// ==================== 仓储实现 ====================

type storeRepo struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓储
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) CreateBatch(ctx context.Context, stores []model.Store) error {
	if len(stores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(stores, 100).Error
}

// GetByID 不存在时返回 nil, nil
func (r *storeRepo) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).First(&store, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *storeRepo) ListOrderedByName(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Store{}).Count(&count).Error
	return count, err
}

// Delete 先删商品再删店铺，不依赖数据库外键的级联行为
func (r *storeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Store{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
