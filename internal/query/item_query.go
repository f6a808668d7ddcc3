package query

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/pkg/utils"
)

// ErrMalformedParams query_params 不是合法的 JSON 过滤对象
var ErrMalformedParams = errors.New("malformed query_params")

// FeaturedFallbackSize 没有推荐商品时按价格取前 N 个
const FeaturedFallbackSize = 10

// ==================== 排序 ====================

// SortKey 排序方式
type SortKey string

const (
	SortNewItems  SortKey = "new_items"  // 上架时间倒序
	SortSale      SortKey = "sale"       // 打折优先
	SortPriceLow  SortKey = "price_low"  // 价格升序
	SortPriceHigh SortKey = "price_high" // 价格降序
)

// ==================== 过滤参数 ====================

// SubCategoryParam 子分类 + 尺码过滤条件
// Sizes 为 nil 或空时不限制尺码
type SubCategoryParam struct {
	ID    int64     `json:"id"`
	Sizes *[]string `json:"sizes,omitempty"`
}

// PriceRange 价格区间，两端均可单独提供，含边界
type PriceRange struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// ItemParams 商品列表过滤对象，对应 query_params
type ItemParams struct {
	Categories    []model.ClothingCategory `json:"categories,omitempty"`
	Designers     []int64                  `json:"designers,omitempty"`
	Stores        []int64                  `json:"stores,omitempty"`
	SubCategories []SubCategoryParam       `json:"subcategories,omitempty"`
	Search        string                   `json:"search,omitempty"`
	Price         PriceRange               `json:"price"`
	Sort          SortKey                  `json:"sort,omitempty"`
}

// ParseItemParams 解析 query_params，空字符串等同于不过滤
func ParseItemParams(raw string) (*ItemParams, error) {
	params := &ItemParams{}
	if strings.TrimSpace(raw) == "" {
		return params, nil
	}
	if err := json.Unmarshal([]byte(raw), params); err != nil {
		return nil, errors.Join(ErrMalformedParams, err)
	}
	return params, nil
}

// SubCategoryIDs 过滤条件中出现的子分类 ID
func (p *ItemParams) SubCategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.SubCategories))
	for _, sc := range p.SubCategories {
		ids = append(ids, sc.ID)
	}
	return ids
}

// ==================== 执行 ====================

// ApplyItems 先排序再过滤，过滤不改变顺序
func ApplyItems(items []model.Item, params *ItemParams) []model.Item {
	if params == nil {
		params = &ItemParams{}
	}
	sorted := SortItems(items, params.Sort)
	return FilterItems(sorted, params)
}

// SortItems 按排序方式返回新切片，所有方式都以名称升序兜底
func SortItems(items []model.Item, key SortKey) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)

	var cmp func(a, b *model.Item) int
	switch key {
	case SortNewItems:
		cmp = func(a, b *model.Item) int {
			switch {
			case a.AddedOn.After(b.AddedOn):
				return -1
			case a.AddedOn.Before(b.AddedOn):
				return 1
			}
			return 0
		}
	case SortSale:
		cmp = func(a, b *model.Item) int {
			switch {
			case a.Sale && !b.Sale:
				return -1
			case !a.Sale && b.Sale:
				return 1
			}
			return 0
		}
	case SortPriceLow:
		cmp = func(a, b *model.Item) int {
			return sortablePrice(a).Cmp(sortablePrice(b))
		}
	case SortPriceHigh:
		cmp = func(a, b *model.Item) int {
			return sortablePrice(b).Cmp(sortablePrice(a))
		}
	default:
		cmp = func(a, b *model.Item) int { return 0 }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := cmp(&out[i], &out[j]); c != 0 {
			return c < 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// FilterItems 按所有生效条件过滤，条件之间为 AND
func FilterItems(items []model.Item, params *ItemParams) []model.Item {
	preds := itemPredicates(params)
	out := make([]model.Item, 0, len(items))
	for i := range items {
		keep := true
		for _, pred := range preds {
			if !pred(&items[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, items[i])
		}
	}
	return out
}

type itemPredicate func(*model.Item) bool

func itemPredicates(p *ItemParams) []itemPredicate {
	var preds []itemPredicate

	if p.Search != "" {
		search := p.Search
		preds = append(preds, func(it *model.Item) bool {
			return utils.FuzzyMatch(it.Name, search)
		})
	}
	if len(p.Categories) > 0 {
		set := toSet(p.Categories)
		preds = append(preds, func(it *model.Item) bool {
			_, ok := set[it.Category]
			return ok
		})
	}
	if len(p.Designers) > 0 {
		set := toSet(p.Designers)
		preds = append(preds, func(it *model.Item) bool {
			_, ok := set[it.DesignerID]
			return ok
		})
	}
	if len(p.Stores) > 0 {
		set := toSet(p.Stores)
		preds = append(preds, func(it *model.Item) bool {
			_, ok := set[it.StoreID]
			return ok
		})
	}
	if len(p.SubCategories) > 0 {
		entries := p.SubCategories
		preds = append(preds, func(it *model.Item) bool {
			return matchesSubCategory(it, entries)
		})
	}
	if p.Price.Max != nil {
		upper := *p.Price.Max
		preds = append(preds, func(it *model.Item) bool {
			price, ok := it.PriceDecimal()
			return ok && price.LessThanOrEqual(upper)
		})
	}
	if p.Price.Min != nil {
		lower := *p.Price.Min
		preds = append(preds, func(it *model.Item) bool {
			price, ok := it.PriceDecimal()
			return ok && price.GreaterThanOrEqual(lower)
		})
	}
	return preds
}

// matchesSubCategory 子分类 ID 命中任一条目，且尺码有交集（条目未指定尺码时只看 ID）
// 没有子分类的商品一律排除
func matchesSubCategory(it *model.Item, entries []SubCategoryParam) bool {
	if !it.HasSubCategory() {
		return false
	}
	for _, entry := range entries {
		if entry.ID != *it.SubCategoryID {
			continue
		}
		if entry.Sizes == nil || len(*entry.Sizes) == 0 {
			return true
		}
		if intersects(it.Sizes, *entry.Sizes) {
			return true
		}
	}
	return false
}

// ==================== 推荐 ====================

// FeaturedItems 返回推荐商品（按名称排序）；没有推荐商品时返回价格最高的前 10 个
func FeaturedItems(items []model.Item) []model.Item {
	featured := make([]model.Item, 0)
	for _, it := range items {
		if it.Featured {
			featured = append(featured, it)
		}
	}
	if len(featured) > 0 {
		return SortItems(featured, "")
	}

	top := SortItems(items, SortPriceHigh)
	if len(top) > FeaturedFallbackSize {
		top = top[:FeaturedFallbackSize]
	}
	return top
}

// ==================== 辅助 ====================

// sortablePrice 无法解析的价格按 0 参与排序
func sortablePrice(it *model.Item) decimal.Decimal {
	price, _ := it.PriceDecimal()
	return price
}

func toSet[T comparable](values []T) map[T]struct{} {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func intersects(a, b []string) bool {
	set := toSet(b)
	for _, v := range a {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
