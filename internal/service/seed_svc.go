package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/repository"
)

// ==================== 演示数据 ====================

const (
	seedStoreThumbnail = "https://cdn.zeplin.io/5969021e44c5978909d5278b/assets/198CD09C-1814-4FD9-84E1-CC0156C6C742.png"
	seedDesignerImage  = "https://cdn.zeplin.io/5969021e44c5978909d5278b/assets/3DD29AFB-028A-483D-8FE1-5678407C4189.png"
)

// 每个大类下的默认子分类
var defaultSubCategories = map[model.ClothingCategory][]string{
	model.CategoryClothing:    {"Denim Jackets", "Jeans", "Chinos", "T-Shirts", "Hoodies"},
	model.CategoryShoes:       {"Sneakers", "Boots", "Loafers"},
	model.CategoryBags:        {"Totes", "Clutches", "Wallets"},
	model.CategoryAccessories: {"Bracelets", "Necklaces", "Watches"},
}

// 每个大类的商品图
var seedItemImages = map[model.ClothingCategory]string{
	model.CategoryClothing:    "https://cdn.zeplin.io/5969021e44c5978909d5278b/assets/1CE5FF07-E70F-4413-85BF-49C08AA559DE.png",
	model.CategoryShoes:       "https://cdn.zeplin.io/5969021e44c5978909d5278b/assets/70D7F146-B088-4EE7-9A3F-9EF0AB3C852B.png",
	model.CategoryBags:        "https://cdn.zeplin.io/5969021e44c5978909d5278b/assets/A6002DA0-2769-4768-92EA-F9CBC3218188.png",
	model.CategoryAccessories: "https://cdn.zeplin.io/5969021e44c5978909d5278b/assets/2744EF67-0E2F-4E98-BDF0-5623507CE75F.png",
}

var seedSizes = []string{"small", "medium", "large", "x-large"}

// SeedService 生成演示用的店铺 / 设计师 / 商品
type SeedService struct {
	storeRepo       repository.StoreRepository
	designerRepo    repository.DesignerRepository
	subCategoryRepo repository.SubCategoryRepository
	itemRepo        repository.ItemRepository
	rnd             *rand.Rand
}

// NewSeedService 创建演示数据服务
func NewSeedService(
	storeRepo repository.StoreRepository,
	designerRepo repository.DesignerRepository,
	subCategoryRepo repository.SubCategoryRepository,
	itemRepo repository.ItemRepository,
) *SeedService {
	return &SeedService{
		storeRepo:       storeRepo,
		designerRepo:    designerRepo,
		subCategoryRepo: subCategoryRepo,
		itemRepo:        itemRepo,
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedStores 在奥斯汀附近随机生成 n 家店铺，编号接着已有数量往后排
func (s *SeedService) SeedStores(ctx context.Context, n int) (int, error) {
	start, err := s.storeRepo.Count(ctx)
	if err != nil {
		return 0, err
	}

	stores := make([]model.Store, 0, n)
	for i := int(start); i < int(start)+n; i++ {
		idx := strconv.Itoa(i)
		stores = append(stores, model.Store{
			Lat:          s.roundedUniform(30.20, 30.29),
			Lon:          s.roundedUniform(-97.79, -97.70),
			Name:         "Store " + idx,
			Address:      "Address " + idx,
			ContactEmail: "email" + idx + "@test.com",
			ContactPhone: idx + "-111-1111",
			Thumbnail:    seedStoreThumbnail,
			Hours:        datatypes.NewJSONType(model.DefaultWeeklyHours),
		})
	}
	if err := s.storeRepo.CreateBatch(ctx, stores); err != nil {
		return 0, err
	}
	zap.S().Infof("[Seed] 新增店铺 %d 家", len(stores))
	return len(stores), nil
}

// SeedDesigners 生成 n 个设计师，男女交替
func (s *SeedService) SeedDesigners(ctx context.Context, n int) (int, error) {
	start, err := s.designerRepo.Count(ctx)
	if err != nil {
		return 0, err
	}

	designers := make([]model.Designer, 0, n)
	for i := int(start); i < int(start)+n; i++ {
		category := model.DesignerCategoryMen
		if i%2 != 0 {
			category = model.DesignerCategoryWomen
		}
		designers = append(designers, model.Designer{
			Name:     "Designer " + strconv.Itoa(i),
			Category: category,
			Image:    seedDesignerImage,
		})
	}
	if err := s.designerRepo.CreateBatch(ctx, designers); err != nil {
		return 0, err
	}
	zap.S().Infof("[Seed] 新增设计师 %d 个", len(designers))
	return len(designers), nil
}

// EnsureSubCategories 某个大类还没有子分类时补上默认列表
func (s *SeedService) EnsureSubCategories(ctx context.Context) error {
	for _, category := range model.AllClothingCategories {
		count, err := s.subCategoryRepo.CountByParent(ctx, category)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		for _, name := range defaultSubCategories[category] {
			sc := &model.SubCategory{DisplayName: name, ParentCategory: category}
			if err := s.subCategoryRepo.Create(ctx, sc); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedItems 在指定大类下随机生成 n 个商品，店铺和设计师从已有数据中随机挑选
func (s *SeedService) SeedItems(ctx context.Context, category model.ClothingCategory, n int) (int, error) {
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if err := s.EnsureSubCategories(ctx); err != nil {
		return 0, err
	}

	stores, err := s.storeRepo.ListOrderedByName(ctx)
	if err != nil {
		return 0, err
	}
	designers, err := s.designerRepo.ListOrderedByName(ctx)
	if err != nil {
		return 0, err
	}
	if len(stores) == 0 || len(designers) == 0 {
		return 0, ErrSeedPrerequisites
	}
	subCategories, err := s.subCategoryRepo.ListByParent(ctx, category)
	if err != nil {
		return 0, err
	}

	start, err := s.itemRepo.Count(ctx)
	if err != nil {
		return 0, err
	}

	image := seedItemImages[category]
	now := time.Now()
	items := make([]model.Item, 0, n)
	for i := int(start); i < int(start)+n; i++ {
		idx := strconv.Itoa(i)
		store := stores[s.rnd.Intn(len(stores))]
		designer := designers[s.rnd.Intn(len(designers))]
		item := model.Item{
			Name:       "Item " + idx,
			SKU:        idx,
			UPC:        idx + idx,
			Price:      decimal.NewFromFloat(10 + s.rnd.Float64()*990).StringFixed(2),
			Images:     pq.StringArray{image + "?1=1", image},
			StoreID:    store.ID,
			DesignerID: designer.ID,
			Category:   category,
			// 冗余字段，只在写入时拷贝
			DesignerName: designer.Name,
			Thumbnail:    image,
			Sizes:        append(pq.StringArray(nil), seedSizes...),
			AddedOn:      now,
		}
		if len(subCategories) > 0 {
			id := subCategories[s.rnd.Intn(len(subCategories))].ID
			item.SubCategoryID = &id
		}
		items = append(items, item)
	}
	if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
		return 0, err
	}
	zap.S().Infof("[Seed] 新增商品 %d 个 (category=%s)", len(items), category)
	return len(items), nil
}

func (s *SeedService) roundedUniform(lo, hi float64) float64 {
	v := lo + s.rnd.Float64()*(hi-lo)
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

var (
	ErrInvalidCategory   = errors.New("invalid clothing category")
	ErrSeedPrerequisites = errors.New("seed stores and designers before items")
)
