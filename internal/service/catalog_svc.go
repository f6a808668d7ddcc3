package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"brickandmortr_server/internal/api/dto"
	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/query"
	"brickandmortr_server/internal/repository"
)

// ==================== CatalogService 商品目录 ====================

// CatalogService 商品列表 / 详情 / 推荐 / 子分类
type CatalogService struct {
	itemRepo        repository.ItemRepository
	subCategoryRepo repository.SubCategoryRepository
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(itemRepo repository.ItemRepository, subCategoryRepo repository.SubCategoryRepository) *CatalogService {
	return &CatalogService{itemRepo: itemRepo, subCategoryRepo: subCategoryRepo}
}

// ListItems 按 query_params 过滤排序
// 集合 / 价格条件先下推到数据库，再由查询引擎精确过滤并排序
func (s *CatalogService) ListItems(ctx context.Context, rawParams string) ([]model.Item, error) {
	params, err := query.ParseItemParams(rawParams)
	if err != nil {
		return nil, errors.Join(ErrInvalidQueryParams, err)
	}

	candidates, err := s.itemRepo.ListForQuery(ctx, pushdownFilter(params))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return query.ApplyItems(candidates, params), nil
}

// pushdownFilter 提取可以交给数据库的条件
func pushdownFilter(p *query.ItemParams) repository.ItemFilter {
	filter := repository.ItemFilter{
		Categories:  p.Categories,
		DesignerIDs: p.Designers,
		StoreIDs:    p.Stores,
	}
	if len(p.SubCategories) > 0 {
		filter.SubCategoryIDs = p.SubCategoryIDs()
	}
	if p.Price.Min != nil {
		v := p.Price.Min.InexactFloat64()
		filter.PriceMin = &v
	}
	if p.Price.Max != nil {
		v := p.Price.Max.InexactFloat64()
		filter.PriceMax = &v
	}
	return filter
}

// GetItem 商品详情
func (s *CatalogService) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// FeaturedItems 推荐商品，没有时取最贵的 10 个
func (s *CatalogService) FeaturedItems(ctx context.Context) ([]model.Item, error) {
	items, err := s.itemRepo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		if items, err = s.itemRepo.ListMostExpensive(ctx, query.FeaturedFallbackSize); err != nil {
			return nil, err
		}
	}
	return query.FeaturedItems(items), nil
}

// ListSubCategories 被商品引用的子分类，附带这些商品尺码的并集
func (s *CatalogService) ListSubCategories(ctx context.Context) ([]dto.SubCategoryWithSizes, error) {
	subCategories, err := s.subCategoryRepo.ListReferenced(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.itemRepo.SizesBySubCategory(ctx)
	if err != nil {
		return nil, err
	}

	sizes := make(map[int64]map[string]struct{})
	for _, row := range rows {
		set, ok := sizes[row.SubCategoryID]
		if !ok {
			set = make(map[string]struct{})
			sizes[row.SubCategoryID] = set
		}
		for _, size := range row.Sizes {
			set[size] = struct{}{}
		}
	}

	out := make([]dto.SubCategoryWithSizes, 0, len(subCategories))
	for i := range subCategories {
		sc := &subCategories[i]
		list := make([]string, 0, len(sizes[sc.ID]))
		for size := range sizes[sc.ID] {
			list = append(list, size)
		}
		sort.Strings(list)
		out = append(out, dto.SubCategoryWithSizes{
			SubCategoryResponse: dto.NewSubCategoryResponse(sc),
			Sizes:               list,
		})
	}
	return out, nil
}

// DeleteSubCategory 删除子分类，商品保留但不再挂子分类
func (s *CatalogService) DeleteSubCategory(ctx context.Context, id int64) error {
	return translateNotFound(s.subCategoryRepo.Delete(ctx, id), ErrSubCategoryNotFound)
}

var (
	ErrSubCategoryNotFound = errors.New("subcategory not found")
	ErrInvalidQueryParams  = errors.New("invalid query_params")
	ErrItemNotFound        = errors.New("item not found")
)
