package service

import (
	"context"
	"errors"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/query"
	"brickandmortr_server/internal/repository"
)

// ==================== StoreService 店铺 ====================

// StoreService 店铺查询
type StoreService struct {
	storeRepo repository.StoreRepository
	itemRepo  repository.ItemRepository
}

// NewStoreService 创建店铺服务
func NewStoreService(storeRepo repository.StoreRepository, itemRepo repository.ItemRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo, itemRepo: itemRepo}
}

// ListStores 按名称排序，geo 不为 nil 时只保留范围内的店铺
func (s *StoreService) ListStores(ctx context.Context, geo *query.GeoParams) ([]model.Store, error) {
	stores, err := s.storeRepo.ListOrderedByName(ctx)
	if err != nil {
		return nil, err
	}
	return query.FilterStoresWithin(stores, geo), nil
}

// GetStore 店铺详情
func (s *StoreService) GetStore(ctx context.Context, id int64) (*model.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// ListStoreItems 店铺下的商品，按名称排序
func (s *StoreService) ListStoreItems(ctx context.Context, storeID int64) ([]model.Item, error) {
	exists, err := s.storeRepo.Exists(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStoreNotFound
	}
	return s.itemRepo.ListByStore(ctx, storeID)
}

// DeleteStore 删除店铺及其商品
func (s *StoreService) DeleteStore(ctx context.Context, id int64) error {
	return translateNotFound(s.storeRepo.Delete(ctx, id), ErrStoreNotFound)
}

var ErrStoreNotFound = errors.New("store not found")
