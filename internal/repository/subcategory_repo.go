package repository

import (
	"context"

	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
)

// SubCategoryRepository 子分类仓储接口
type SubCategoryRepository interface {
	Create(ctx context.Context, sc *model.SubCategory) error
	ListByParent(ctx context.Context, parent model.ClothingCategory) ([]model.SubCategory, error)
	CountByParent(ctx context.Context, parent model.ClothingCategory) (int64, error)
	// ListReferenced 至少被一个商品引用的子分类，按 ID 排序
	ListReferenced(ctx context.Context) ([]model.SubCategory, error)
	// Delete 删除子分类，引用它的商品置空
	Delete(ctx context.Context, id int64) error
}

type subCategoryRepo struct {
	db *gorm.DB
}

// NewSubCategoryRepository 创建子分类仓储
func NewSubCategoryRepository(db *gorm.DB) SubCategoryRepository {
	return &subCategoryRepo{db: db}
}

func (r *subCategoryRepo) Create(ctx context.Context, sc *model.SubCategory) error {
	return r.db.WithContext(ctx).Create(sc).Error
}

func (r *subCategoryRepo) ListByParent(ctx context.Context, parent model.ClothingCategory) ([]model.SubCategory, error) {
	var list []model.SubCategory
	err := r.db.WithContext(ctx).Where("parent_category = ?", parent).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *subCategoryRepo) CountByParent(ctx context.Context, parent model.ClothingCategory) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SubCategory{}).Where("parent_category = ?", parent).Count(&count).Error
	return count, err
}

func (r *subCategoryRepo) ListReferenced(ctx context.Context) ([]model.SubCategory, error) {
	referenced := r.db.Model(&model.Item{}).
		Select("sub_category_id").
		Where("sub_category_id IS NOT NULL")

	var list []model.SubCategory
	err := r.db.WithContext(ctx).
		Where("id IN (?)", referenced).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *subCategoryRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Item{}).
			Where("sub_category_id = ?", id).
			Update("sub_category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.SubCategory{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
