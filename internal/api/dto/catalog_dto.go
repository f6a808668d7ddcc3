package dto

import (
	"time"

	"brickandmortr_server/internal/model"
)

// ==================== 店铺 ====================

// StoreResponse 店铺
type StoreResponse struct {
	ID           int64             `json:"id"`
	Lat          float64           `json:"lat"`
	Lon          float64           `json:"lon"`
	Name         string            `json:"name"`
	Address      string            `json:"address"`
	ContactEmail string            `json:"contact_email"`
	ContactPhone string            `json:"contact_phone"`
	Thumbnail    string            `json:"thumbnail"`
	Hours        model.WeeklyHours `json:"hours"`
}

// NewStoreResponse 转换店铺
func NewStoreResponse(s *model.Store) StoreResponse {
	return StoreResponse{
		ID:           s.ID,
		Lat:          s.Lat,
		Lon:          s.Lon,
		Name:         s.Name,
		Address:      s.Address,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Thumbnail:    s.Thumbnail,
		Hours:        s.Hours.Data(),
	}
}

// NewStoreList 批量转换店铺
func NewStoreList(stores []model.Store) []StoreResponse {
	out := make([]StoreResponse, len(stores))
	for i := range stores {
		out[i] = NewStoreResponse(&stores[i])
	}
	return out
}

// ==================== 设计师 ====================

// DesignerResponse 设计师
type DesignerResponse struct {
	ID       int64                  `json:"id"`
	Name     string                 `json:"name"`
	Category model.DesignerCategory `json:"category"`
	Image    string                 `json:"image"`
}

// NewDesignerResponse 转换设计师
func NewDesignerResponse(d *model.Designer) DesignerResponse {
	return DesignerResponse{ID: d.ID, Name: d.Name, Category: d.Category, Image: d.Image}
}

// NewDesignerList 批量转换设计师
func NewDesignerList(designers []model.Designer) []DesignerResponse {
	out := make([]DesignerResponse, len(designers))
	for i := range designers {
		out[i] = NewDesignerResponse(&designers[i])
	}
	return out
}

// ==================== 子分类 ====================

// SubCategoryResponse 子分类
type SubCategoryResponse struct {
	ID             int64                  `json:"id"`
	DisplayName    string                 `json:"display_name"`
	ParentCategory model.ClothingCategory `json:"parent_category"`
}

// NewSubCategoryResponse 转换子分类
func NewSubCategoryResponse(sc *model.SubCategory) SubCategoryResponse {
	return SubCategoryResponse{ID: sc.ID, DisplayName: sc.DisplayName, ParentCategory: sc.ParentCategory}
}

// SubCategoryWithSizes 子分类及其下商品的全部尺码
type SubCategoryWithSizes struct {
	SubCategoryResponse
	Sizes []string `json:"sizes"`
}

// SubCategoryListResponse 子分类列表（不分页）
type SubCategoryListResponse struct {
	Results []SubCategoryWithSizes `json:"results"`
}

// ==================== 商品 ====================

// ItemResponse 商品，关联对象展开一层
type ItemResponse struct {
	ID          int64                  `json:"id"`
	Name        string                 `json:"name"`
	SKU         string                 `json:"sku"`
	UPC         string                 `json:"upc"`
	Price       string                 `json:"price"`
	Images      []string               `json:"images"`
	Store       *StoreResponse         `json:"store"`
	Category    model.ClothingCategory `json:"category"`
	SubCategory *SubCategoryResponse   `json:"subcategory"`
	Designer    *DesignerResponse      `json:"designer"`
	Thumbnail   string                 `json:"thumbnail"`
	Sizes       []string               `json:"sizes"`
	Sale        bool                   `json:"sale"`
	OldPrice    *string                `json:"old_price"`
	AddedOn     time.Time              `json:"added_on"`
}

// NewItemResponse 转换商品
func NewItemResponse(it *model.Item) ItemResponse {
	resp := ItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		SKU:       it.SKU,
		UPC:       it.UPC,
		Price:     it.Price,
		Images:    nonNil(it.Images),
		Category:  it.Category,
		Thumbnail: it.Thumbnail,
		Sizes:     nonNil(it.Sizes),
		Sale:      it.Sale,
		OldPrice:  it.OldPrice,
		AddedOn:   it.AddedOn,
	}
	if it.Store != nil {
		s := NewStoreResponse(it.Store)
		resp.Store = &s
	}
	if it.Designer != nil {
		d := NewDesignerResponse(it.Designer)
		resp.Designer = &d
	}
	if it.SubCategory != nil {
		sc := NewSubCategoryResponse(it.SubCategory)
		resp.SubCategory = &sc
	}
	return resp
}

// NewItemList 批量转换商品
func NewItemList(items []model.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = NewItemResponse(&items[i])
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
