package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/query"
	"brickandmortr_server/internal/repository"
)

// ==================== DesignerService 设计师 ====================

// DesignerService 设计师查询
type DesignerService struct {
	designerRepo repository.DesignerRepository
	storeRepo    repository.StoreRepository
	itemRepo     repository.ItemRepository
}

// NewDesignerService 创建设计师服务
func NewDesignerService(
	designerRepo repository.DesignerRepository,
	storeRepo repository.StoreRepository,
	itemRepo repository.ItemRepository,
) *DesignerService {
	return &DesignerService{
		designerRepo: designerRepo,
		storeRepo:    storeRepo,
		itemRepo:     itemRepo,
	}
}

// ListDesigners 按名称排序
// geo 生效时只保留在范围内店铺有货的设计师
func (s *DesignerService) ListDesigners(ctx context.Context, params *query.DesignerParams) ([]model.Designer, error) {
	designers, err := s.designerRepo.ListOrderedByName(ctx)
	if err != nil {
		return nil, err
	}

	var stocked map[int64]struct{}
	if params.Geo != nil {
		if stocked, err = s.stockedNear(ctx, params.Geo); err != nil {
			return nil, err
		}
	}
	return query.FilterDesigners(designers, params, stocked), nil
}

// stockedNear 附近店铺有货的设计师集合
func (s *DesignerService) stockedNear(ctx context.Context, geo *query.GeoParams) (map[int64]struct{}, error) {
	stores, err := s.storeRepo.ListOrderedByName(ctx)
	if err != nil {
		return nil, err
	}
	near := query.FilterStoresWithin(stores, geo)
	storeIDs := make([]int64, len(near))
	for i := range near {
		storeIDs[i] = near[i].ID
	}

	ids, err := s.designerRepo.IDsStockedInStores(ctx, storeIDs)
	if err != nil {
		return nil, err
	}
	stocked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		stocked[id] = struct{}{}
	}
	return stocked, nil
}

// GetDesigner 设计师详情
func (s *DesignerService) GetDesigner(ctx context.Context, id int64) (*model.Designer, error) {
	designer, err := s.designerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if designer == nil {
		return nil, ErrDesignerNotFound
	}
	return designer, nil
}

// ListDesignerItems 设计师的商品，按名称排序
func (s *DesignerService) ListDesignerItems(ctx context.Context, designerID int64) ([]model.Item, error) {
	exists, err := s.designerRepo.Exists(ctx, designerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrDesignerNotFound
	}
	return s.itemRepo.ListByDesigner(ctx, designerID)
}

// DeleteDesigner 删除设计师及其商品
func (s *DesignerService) DeleteDesigner(ctx context.Context, id int64) error {
	return translateNotFound(s.designerRepo.Delete(ctx, id), ErrDesignerNotFound)
}

// translateNotFound 把 gorm 的记录不存在换成业务错误
func translateNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

var ErrDesignerNotFound = errors.New("designer not found")
