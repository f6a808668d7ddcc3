package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/query"
	"brickandmortr_server/internal/repository"
)

// catalogEnv 目录相关服务共用一套数据
type catalogEnv struct {
	db        *gorm.DB
	catalog   *CatalogService
	stores    *StoreService
	designers *DesignerService

	austin, dallas model.Store
	acme, zed      model.Designer
	jeans          model.SubCategory
}

func setupCatalog(t *testing.T) *catalogEnv {
	db := setupServiceDB(t)
	itemRepo := repository.NewItemRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	designerRepo := repository.NewDesignerRepository(db)
	subCategoryRepo := repository.NewSubCategoryRepository(db)

	env := &catalogEnv{
		db:        db,
		catalog:   NewCatalogService(itemRepo, subCategoryRepo),
		stores:    NewStoreService(storeRepo, itemRepo),
		designers: NewDesignerService(designerRepo, storeRepo, itemRepo),
		austin:    model.Store{Name: "Austin", Lat: 30.2672, Lon: -97.7431},
		dallas:    model.Store{Name: "Dallas", Lat: 32.7767, Lon: -96.7970},
		acme:      model.Designer{Name: "Acme Denim", Category: model.DesignerCategoryMen},
		zed:       model.Designer{Name: "Zed", Category: model.DesignerCategoryWomen},
		jeans:     model.SubCategory{DisplayName: "Jeans", ParentCategory: model.CategoryClothing},
	}
	for _, v := range []interface{}{&env.austin, &env.dallas, &env.acme, &env.zed, &env.jeans} {
		require.NoError(t, db.Create(v).Error)
	}

	jeansID := env.jeans.ID
	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []model.Item{
		{Name: "Slim Jeans", Price: "49.99", Category: model.CategoryClothing, StoreID: env.austin.ID, DesignerID: env.acme.ID, SubCategoryID: &jeansID, Sizes: []string{"32", "30"}, AddedOn: added},
		{Name: "Wide Jeans", Price: "89.50", Category: model.CategoryClothing, StoreID: env.dallas.ID, DesignerID: env.zed.ID, SubCategoryID: &jeansID, Sizes: []string{"34", "32"}, AddedOn: added.Add(time.Hour), Sale: true},
		{Name: "Tote", Price: "15.00", Category: model.CategoryBags, StoreID: env.dallas.ID, DesignerID: env.zed.ID, AddedOn: added},
	}
	require.NoError(t, itemRepo.CreateBatch(bg, items))
	return env
}

func TestCatalogService_ListItems(t *testing.T) {
	env := setupCatalog(t)

	items, err := env.catalog.ListItems(bg, "")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = env.catalog.ListItems(bg, `{"sort": "price_high", "categories": ["c"]}`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Wide Jeans", items[0].Name)
	assert.Equal(t, "Slim Jeans", items[1].Name)

	items, err = env.catalog.ListItems(bg, `{"price": {"min": "40", "max": "50"}}`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Slim Jeans", items[0].Name)

	items, err = env.catalog.ListItems(bg, `{"search": "jeans", "stores": [`+itoa(env.dallas.ID)+`]}`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Wide Jeans", items[0].Name)

	_, err = env.catalog.ListItems(bg, `{"categories": `)
	assert.ErrorIs(t, err, ErrInvalidQueryParams)
	assert.ErrorIs(t, err, query.ErrMalformedParams)
}

func TestCatalogService_FeaturedFallback(t *testing.T) {
	env := setupCatalog(t)

	// 没有推荐商品时按价格降序
	items, err := env.catalog.FeaturedItems(bg)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Wide Jeans", "Slim Jeans", "Tote"}, []string{items[0].Name, items[1].Name, items[2].Name})

	require.NoError(t, env.db.Model(&model.Item{}).Where("name = ?", "Tote").Update("featured", true).Error)
	items, err = env.catalog.FeaturedItems(bg)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tote", items[0].Name)
}

func TestCatalogService_SubCategories(t *testing.T) {
	env := setupCatalog(t)

	list, err := env.catalog.ListSubCategories(bg)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jeans", list[0].DisplayName)
	assert.Equal(t, []string{"30", "32", "34"}, list[0].Sizes)

	require.NoError(t, env.catalog.DeleteSubCategory(bg, env.jeans.ID))
	assert.ErrorIs(t, env.catalog.DeleteSubCategory(bg, env.jeans.ID), ErrSubCategoryNotFound)

	list, err = env.catalog.ListSubCategories(bg)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCatalogService_GetItem(t *testing.T) {
	env := setupCatalog(t)

	_, err := env.catalog.GetItem(bg, 999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStoreService(t *testing.T) {
	env := setupCatalog(t)

	stores, err := env.stores.ListStores(bg, nil)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	stores, err = env.stores.ListStores(bg, &query.GeoParams{Lat: 30.2672, Lon: -97.7431, Radius: 10})
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Austin", stores[0].Name)

	items, err := env.stores.ListStoreItems(bg, env.dallas.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = env.stores.ListStoreItems(bg, 999)
	assert.ErrorIs(t, err, ErrStoreNotFound)
	_, err = env.stores.GetStore(bg, 999)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	require.NoError(t, env.stores.DeleteStore(bg, env.dallas.ID))
	assert.ErrorIs(t, env.stores.DeleteStore(bg, env.dallas.ID), ErrStoreNotFound)

	all, err := env.catalog.ListItems(bg, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDesignerService(t *testing.T) {
	env := setupCatalog(t)

	all, err := env.designers.ListDesigners(bg, &query.DesignerParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// 奥斯汀附近只有 Acme 有货
	near, err := env.designers.ListDesigners(bg, &query.DesignerParams{
		Geo: &query.GeoParams{Lat: 30.2672, Lon: -97.7431, Radius: 10},
	})
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "Acme Denim", near[0].Name)

	women, err := env.designers.ListDesigners(bg, &query.DesignerParams{Category: model.DesignerCategoryWomen})
	require.NoError(t, err)
	require.Len(t, women, 1)
	assert.Equal(t, "Zed", women[0].Name)

	named, err := env.designers.ListDesigners(bg, &query.DesignerParams{Name: "acme"})
	require.NoError(t, err)
	require.Len(t, named, 1)

	items, err := env.designers.ListDesignerItems(bg, env.zed.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = env.designers.GetDesigner(bg, 999)
	assert.ErrorIs(t, err, ErrDesignerNotFound)

	require.NoError(t, env.designers.DeleteDesigner(bg, env.zed.ID))
	assert.ErrorIs(t, env.designers.DeleteDesigner(bg, env.zed.ID), ErrDesignerNotFound)
}
