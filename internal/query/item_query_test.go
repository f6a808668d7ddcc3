package query

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickandmortr_server/internal/model"
)

// ==================== 测试数据 ====================

func int64Ptr(v int64) *int64 { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sizesPtr(sizes ...string) *[]string { return &sizes }

// seedItems 五个商品：服装 12.29、包 22.29（打折）、配饰 33.29、两双鞋 44.29 / 30.00
func seedItems() []model.Item {
	now := time.Now()
	tenMin := now.Add(-10 * time.Minute)
	twentyMin := now.Add(-20 * time.Minute)
	allSizes := pq.StringArray{"small", "medium", "large", "x-large"}

	mk := func(id int64, name, price string, cat model.ClothingCategory, designer int64, added time.Time) model.Item {
		return model.Item{
			BaseModel:  model.BaseModel{ID: id},
			Name:       name,
			Price:      price,
			Category:   cat,
			StoreID:    1,
			DesignerID: designer,
			Sizes:      allSizes,
			AddedOn:    added,
		}
	}

	clothing := mk(1, "Clothing Item", "12.29", model.CategoryClothing, 1, tenMin)
	clothing.SubCategoryID = int64Ptr(7)
	bag := mk(2, "Bag Item", "22.29", model.CategoryBags, 1, twentyMin)
	bag.Sale = true

	return []model.Item{
		clothing,
		bag,
		mk(3, "Accessories Item", "33.29", model.CategoryAccessories, 1, twentyMin),
		mk(4, "Shoes Item", "44.29", model.CategoryShoes, 2, twentyMin),
		mk(5, "testing", "30.00", model.CategoryShoes, 2, twentyMin),
	}
}

func names(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

// ==================== 参数解析 ====================

func TestParseItemParams(t *testing.T) {
	t.Run("empty string means no filter", func(t *testing.T) {
		p, err := ParseItemParams("")
		require.NoError(t, err)
		assert.Empty(t, p.Categories)
		assert.Nil(t, p.Price.Min)
	})

	t.Run("prices accept strings and numbers", func(t *testing.T) {
		p, err := ParseItemParams(`{"price": {"min": "20.00", "max": 40}}`)
		require.NoError(t, err)
		require.NotNil(t, p.Price.Min)
		require.NotNil(t, p.Price.Max)
		assert.True(t, p.Price.Min.Equal(decimal.NewFromInt(20)))
		assert.True(t, p.Price.Max.Equal(decimal.NewFromInt(40)))
	})

	t.Run("subcategory without sizes", func(t *testing.T) {
		p, err := ParseItemParams(`{"subcategories": [{"id": 3}]}`)
		require.NoError(t, err)
		require.Len(t, p.SubCategories, 1)
		assert.Nil(t, p.SubCategories[0].Sizes)
		assert.Equal(t, []int64{3}, p.SubCategoryIDs())
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseItemParams(`{"categories": [`)
		assert.ErrorIs(t, err, ErrMalformedParams)
	})

	t.Run("malformed price", func(t *testing.T) {
		_, err := ParseItemParams(`{"price": {"min": "cheap"}}`)
		assert.ErrorIs(t, err, ErrMalformedParams)
	})
}

// ==================== 场景 ====================

func TestApplyItems_Scenario(t *testing.T) {
	items := seedItems()

	tests := []struct {
		name      string
		params    *ItemParams
		wantCount int
		wantFirst string
	}{
		{"no params", nil, 5, "Accessories Item"},
		{"categories c,b", &ItemParams{Categories: []model.ClothingCategory{"c", "b"}}, 2, "Bag Item"},
		{"categories s,a", &ItemParams{Categories: []model.ClothingCategory{"s", "a"}}, 3, "Accessories Item"},
		{"designer 1", &ItemParams{Designers: []int64{1}}, 3, "Accessories Item"},
		{"designer 2", &ItemParams{Designers: []int64{2}}, 2, "Shoes Item"},
		{"store 1", &ItemParams{Stores: []int64{1}}, 5, "Accessories Item"},
		{"unknown store", &ItemParams{Stores: []int64{99}}, 0, ""},
		{"sort price_low", &ItemParams{Sort: SortPriceLow}, 5, "Clothing Item"},
		{"sort price_high", &ItemParams{Sort: SortPriceHigh}, 5, "Shoes Item"},
		{"sort new_items", &ItemParams{Sort: SortNewItems}, 5, "Clothing Item"},
		{"sort sale", &ItemParams{Sort: SortSale}, 5, "Bag Item"},
		{"unknown sort keeps name order", &ItemParams{Sort: "popular"}, 5, "Accessories Item"},
		{"search", &ItemParams{Search: "test"}, 1, "testing"},
		{"price min 20", &ItemParams{Price: PriceRange{Min: decPtr("20.00")}}, 4, "Accessories Item"},
		{"price max 30", &ItemParams{Price: PriceRange{Max: decPtr("30.00")}}, 3, "Bag Item"},
		{"price 30-40", &ItemParams{Price: PriceRange{Min: decPtr("30.00"), Max: decPtr("40.00")}}, 2, "Accessories Item"},
		{"subcategory large", &ItemParams{SubCategories: []SubCategoryParam{{ID: 7, Sizes: sizesPtr("large")}}}, 1, "Clothing Item"},
		{"subcategory missing size", &ItemParams{SubCategories: []SubCategoryParam{{ID: 7, Sizes: sizesPtr("nonexistent-size")}}}, 0, ""},
		{"subcategory without sizes", &ItemParams{SubCategories: []SubCategoryParam{{ID: 7}}}, 1, "Clothing Item"},
		{"subcategory empty sizes", &ItemParams{SubCategories: []SubCategoryParam{{ID: 7, Sizes: sizesPtr()}}}, 1, "Clothing Item"},
		{"unknown subcategory", &ItemParams{SubCategories: []SubCategoryParam{{ID: 8}}}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyItems(items, tt.params)
			require.Len(t, got, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, got[0].Name)
			}
		})
	}
}

func TestApplyItems_CombinedFilters(t *testing.T) {
	items := seedItems()

	got := ApplyItems(items, &ItemParams{
		Categories: []model.ClothingCategory{"s", "b"},
		Price:      PriceRange{Min: decPtr("25")},
		Sort:       SortPriceHigh,
	})
	assert.Equal(t, []string{"Shoes Item", "testing"}, names(got))
}

func TestFilterItems_CategoryMembership(t *testing.T) {
	items := seedItems()
	cats := []model.ClothingCategory{"s", "c"}

	got := FilterItems(items, &ItemParams{Categories: cats})

	for _, it := range got {
		assert.Contains(t, cats, it.Category)
	}
	var expected int
	for _, it := range items {
		if it.Category == "s" || it.Category == "c" {
			expected++
		}
	}
	assert.Len(t, got, expected)
}

func TestFilterItems_UnparseablePriceExcludedByBounds(t *testing.T) {
	items := []model.Item{{Name: "Broken", Price: "n/a"}, {Name: "Ok", Price: "15"}}

	got := FilterItems(items, &ItemParams{Price: PriceRange{Min: decPtr("1")}})
	assert.Equal(t, []string{"Ok"}, names(got))

	// 没有价格条件时不受影响
	assert.Len(t, FilterItems(items, &ItemParams{}), 2)
}

// ==================== 排序性质 ====================

func TestSortItems_Idempotent(t *testing.T) {
	items := seedItems()
	once := SortItems(items, SortPriceLow)
	twice := SortItems(once, SortPriceLow)
	assert.Equal(t, names(once), names(twice))
}

func TestSortItems_PriceLowReversedIsPriceHigh(t *testing.T) {
	items := seedItems()
	low := names(SortItems(items, SortPriceLow))
	high := names(SortItems(items, SortPriceHigh))

	reversed := make([]string, len(low))
	for i, n := range low {
		reversed[len(low)-1-i] = n
	}
	assert.Equal(t, high, reversed)
}

func TestSortItems_NameTiebreak(t *testing.T) {
	items := []model.Item{
		{Name: "b", Price: "10"},
		{Name: "a", Price: "10"},
		{Name: "c", Price: "5"},
	}
	assert.Equal(t, []string{"c", "a", "b"}, names(SortItems(items, SortPriceLow)))
	assert.Equal(t, []string{"a", "b", "c"}, names(SortItems(items, SortPriceHigh)))
	assert.Equal(t, []string{"a", "b", "c"}, names(SortItems(items, SortSale)))
}

func TestSortItems_DoesNotMutateInput(t *testing.T) {
	items := seedItems()
	before := names(items)
	SortItems(items, SortPriceHigh)
	assert.Equal(t, before, names(items))
}

// ==================== 推荐 ====================

func TestFeaturedItems(t *testing.T) {
	t.Run("flagged items win", func(t *testing.T) {
		items := seedItems()
		items[4].Featured = true
		items[1].Featured = true
		assert.Equal(t, []string{"Bag Item", "testing"}, names(FeaturedItems(items)))
	})

	t.Run("fallback to most expensive", func(t *testing.T) {
		items := seedItems()
		assert.Equal(t,
			[]string{"Shoes Item", "Accessories Item", "testing", "Bag Item", "Clothing Item"},
			names(FeaturedItems(items)))
	})

	t.Run("fallback capped at ten", func(t *testing.T) {
		var items []model.Item
		for i := 0; i < 15; i++ {
			items = append(items, model.Item{Name: string(rune('a' + i)), Price: decimal.NewFromInt(int64(i)).String()})
		}
		got := FeaturedItems(items)
		require.Len(t, got, FeaturedFallbackSize)
		assert.Equal(t, "o", got[0].Name)
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Empty(t, FeaturedItems(nil))
	})
}
