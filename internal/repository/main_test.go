package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/pkg/database"
)

// ==================== 测试辅助 ====================

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      ":memory:",
		LogLevel: logger.Silent,
	}, model.All()...)
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	return db
}

// catalogFixture 两家店、两位设计师、两个子分类
type catalogFixture struct {
	storeA, storeB       model.Store
	designerA, designerB model.Designer
	jeans, boots         model.SubCategory
}

func seedCatalog(t *testing.T, db *gorm.DB) *catalogFixture {
	t.Helper()
	f := &catalogFixture{
		storeA:    model.Store{Name: "Austin Outfitters", Lat: 30.2672, Lon: -97.7431},
		storeB:    model.Store{Name: "Dallas Denim", Lat: 32.7767, Lon: -96.7970},
		designerA: model.Designer{Name: "Acme", Category: model.DesignerCategoryMen},
		designerB: model.Designer{Name: "Zed", Category: model.DesignerCategoryWomen},
		jeans:     model.SubCategory{DisplayName: "Jeans", ParentCategory: model.CategoryClothing},
		boots:     model.SubCategory{DisplayName: "Boots", ParentCategory: model.CategoryShoes},
	}
	for _, v := range []interface{}{&f.storeA, &f.storeB, &f.designerA, &f.designerB, &f.jeans, &f.boots} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("准备测试数据失败: %v", err)
		}
	}
	return f
}

func newItem(name, price string, category model.ClothingCategory, store model.Store, designer model.Designer, sub *model.SubCategory, sizes ...string) model.Item {
	item := model.Item{
		Name:         name,
		Price:        price,
		Category:     category,
		StoreID:      store.ID,
		DesignerID:   designer.ID,
		DesignerName: designer.Name,
		Sizes:        sizes,
		AddedOn:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if sub != nil {
		id := sub.ID
		item.SubCategoryID = &id
	}
	return item
}

func itemNames(items []model.Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

var bg = context.Background()
