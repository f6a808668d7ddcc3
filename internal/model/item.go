package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Item 商品
type Item struct {
	BaseModel
	Name  string `gorm:"size:100;index;not null"`
	SKU   string `gorm:"type:text"`
	UPC   string `gorm:"type:text"`
	Price string `gorm:"size:100;not null"` // 文本存储的十进制价格，比较时再解析

	Images pq.StringArray `gorm:"type:text[]"`

	// --- 关联 ---
	StoreID       int64        `gorm:"index;not null"`
	Store         *Store       `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	DesignerID    int64        `gorm:"index;not null"`
	Designer      *Designer    `gorm:"foreignKey:DesignerID;constraint:OnDelete:CASCADE"`
	SubCategoryID *int64       `gorm:"index"`
	SubCategory   *SubCategory `gorm:"foreignKey:SubCategoryID;constraint:OnDelete:SET NULL"`

	Category ClothingCategory `gorm:"size:1;not null;default:'c';index"`

	// 冗余字段：创建时从 Designer 拷贝，之后不会自动同步
	DesignerName string `gorm:"size:100"`

	Thumbnail string         `gorm:"type:text"`
	Sizes     pq.StringArray `gorm:"type:text[]"`
	Sale      bool           `gorm:"default:false;index"`
	OldPrice  *string        `gorm:"size:100"`
	AddedOn   time.Time      `gorm:"index"`
	Featured  bool           `gorm:"default:false;index"`
}

func (Item) TableName() string {
	return "items"
}

// PriceDecimal 解析价格，ok=false 表示价格文本不是合法数字
func (i *Item) PriceDecimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(i.Price)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// HasSubCategory 是否挂了子分类
func (i *Item) HasSubCategory() bool {
	return i.SubCategoryID != nil
}
