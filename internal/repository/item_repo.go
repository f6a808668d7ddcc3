package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
)

// ==================== 接口定义 ====================

// ItemRepository 商品仓储接口
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	CreateBatch(ctx context.Context, items []model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	Count(ctx context.Context) (int64, error)

	// ListForQuery 按集合 / 区间条件在数据库侧粗筛，按名称排序
	ListForQuery(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	ListByStore(ctx context.Context, storeID int64) ([]model.Item, error)
	ListByDesigner(ctx context.Context, designerID int64) ([]model.Item, error)
	ListFeatured(ctx context.Context) ([]model.Item, error)
	// ListMostExpensive 按价格降序、名称升序取前 limit 个
	ListMostExpensive(ctx context.Context, limit int) ([]model.Item, error)

	// SizesBySubCategory 每个被引用子分类下所有商品的尺码
	SizesBySubCategory(ctx context.Context) ([]SubCategorySizes, error)
}

// ==================== 过滤条件 ====================

// ItemFilter 可下推到数据库的商品过滤条件，空切片 / nil 表示不筛选
type ItemFilter struct {
	Categories     []model.ClothingCategory
	DesignerIDs    []int64
	StoreIDs       []int64
	SubCategoryIDs []int64
	PriceMin       *float64
	PriceMax       *float64
}

// SubCategorySizes 一个商品的子分类与尺码
type SubCategorySizes struct {
	SubCategoryID int64
	Sizes         pq.StringArray `gorm:"type:text[]"`
}

// ==================== 仓储实现 ====================

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓储
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

// withRelations 序列化时需要的关联
func (r *itemRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Store").
		Preload("Designer").
		Preload("SubCategory")
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Omit("Store", "Designer", "SubCategory").Create(item).Error
}

func (r *itemRepo) CreateBatch(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Store", "Designer", "SubCategory").CreateInBatches(items, 100).Error
}

func (r *itemRepo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	err := r.withRelations(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Count(&count).Error
	return count, err
}

func (r *itemRepo) ListForQuery(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	query := r.withRelations(ctx)

	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if len(filter.DesignerIDs) > 0 {
		query = query.Where("designer_id IN ?", filter.DesignerIDs)
	}
	if len(filter.StoreIDs) > 0 {
		query = query.Where("store_id IN ?", filter.StoreIDs)
	}
	if len(filter.SubCategoryIDs) > 0 {
		query = query.Where("sub_category_id IN ?", filter.SubCategoryIDs)
	}
	// 价格以文本存储，数据库侧按浮点粗筛，精确比较留给应用层
	// 无法转换的价格为 NULL，放行给应用层判定
	price := priceExpr(r.db.Dialector.Name())
	if filter.PriceMin != nil {
		query = query.Where("("+price+" IS NULL OR "+price+" >= ?)", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("("+price+" IS NULL OR "+price+" <= ?)", *filter.PriceMax)
	}

	var items []model.Item
	err := query.Order("name ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) ListByStore(ctx context.Context, storeID int64) ([]model.Item, error) {
	var items []model.Item
	err := r.withRelations(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) ListByDesigner(ctx context.Context, designerID int64) ([]model.Item, error) {
	var items []model.Item
	err := r.withRelations(ctx).
		Where("designer_id = ?", designerID).
		Order("name ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) ListFeatured(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.withRelations(ctx).
		Where("featured = ?", true).
		Order("name ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) ListMostExpensive(ctx context.Context, limit int) ([]model.Item, error) {
	var items []model.Item
	err := r.withRelations(ctx).
		Order("COALESCE(" + priceExpr(r.db.Dialector.Name()) + ", 0) DESC").
		Order("name ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// priceExpr 文本价格转浮点的 SQL 表达式
// postgres 对非数字文本 CAST 会报错，先用正则判断；sqlite 的 CAST 不会报错
func priceExpr(dialect string) string {
	if dialect == "postgres" {
		return `(CASE WHEN trim(price) ~ '^[0-9]+(\.[0-9]+){0,1}$' THEN CAST(trim(price) AS FLOAT) END)`
	}
	return "CAST(price AS FLOAT)"
}

func (r *itemRepo) SizesBySubCategory(ctx context.Context) ([]SubCategorySizes, error) {
	// 经 model.Item 读取，尺码列按 text[] 解析
	var items []model.Item
	err := r.db.WithContext(ctx).
		Select("id", "sub_category_id", "sizes").
		Where("sub_category_id IS NOT NULL").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	rows := make([]SubCategorySizes, 0, len(items))
	for _, item := range items {
		if item.SubCategoryID == nil {
			continue
		}
		rows = append(rows, SubCategorySizes{SubCategoryID: *item.SubCategoryID, Sizes: item.Sizes})
	}
	return rows, nil
}
