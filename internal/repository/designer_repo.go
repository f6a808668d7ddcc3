package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
)

// ==================== 接口定义 ====================

// DesignerRepository 设计师仓储接口
type DesignerRepository interface {
	Create(ctx context.Context, designer *model.Designer) error
	CreateBatch(ctx context.Context, designers []model.Designer) error
	GetByID(ctx context.Context, id int64) (*model.Designer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListOrderedByName(ctx context.Context) ([]model.Designer, error)
	Count(ctx context.Context) (int64, error)
	// IDsStockedInStores 在指定店铺中有商品的设计师 ID
	IDsStockedInStores(ctx context.Context, storeIDs []int64) ([]int64, error)
	// Delete 删除设计师及其全部商品
	Delete(ctx context.Context, id int64) error
}

// ==================== 仓储实现 ====================

type designerRepo struct {
	db *gorm.DB
}

// NewDesignerRepository 创建设计师仓储
func NewDesignerRepository(db *gorm.DB) DesignerRepository {
	return &designerRepo{db: db}
}

func (r *designerRepo) Create(ctx context.Context, designer *model.Designer) error {
	return r.db.WithContext(ctx).Create(designer).Error
}

func (r *designerRepo) CreateBatch(ctx context.Context, designers []model.Designer) error {
	if len(designers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(designers, 100).Error
}

func (r *designerRepo) GetByID(ctx context.Context, id int64) (*model.Designer, error) {
	var designer model.Designer
	err := r.db.WithContext(ctx).First(&designer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &designer, nil
}

func (r *designerRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Designer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *designerRepo) ListOrderedByName(ctx context.Context) ([]model.Designer, error) {
	var designers []model.Designer
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&designers).Error
	return designers, err
}

func (r *designerRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Designer{}).Count(&count).Error
	return count, err
}

func (r *designerRepo) IDsStockedInStores(ctx context.Context, storeIDs []int64) ([]int64, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Distinct("designer_id").
		Where("store_id IN ?", storeIDs).
		Pluck("designer_id", &ids).Error
	return ids, err
}

func (r *designerRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("designer_id = ?", id).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Designer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
