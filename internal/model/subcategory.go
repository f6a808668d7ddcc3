package model

// ClothingCategory 商品大类
type ClothingCategory string

const (
	CategoryClothing    ClothingCategory = "c"
	CategoryShoes       ClothingCategory = "s"
	CategoryBags        ClothingCategory = "b"
	CategoryAccessories ClothingCategory = "a"
)

// AllClothingCategories 全部大类，顺序固定
var AllClothingCategories = []ClothingCategory{CategoryClothing, CategoryShoes, CategoryBags, CategoryAccessories}

// Valid 是否为合法大类
func (c ClothingCategory) Valid() bool {
	switch c {
	case CategoryClothing, CategoryShoes, CategoryBags, CategoryAccessories:
		return true
	}
	return false
}

// SubCategory 子分类，挂在某个大类下
type SubCategory struct {
	BaseModel
	DisplayName    string           `gorm:"type:text;not null" json:"display_name"`
	ParentCategory ClothingCategory `gorm:"size:1;not null;default:'c';index" json:"parent_category"`
}

func (SubCategory) TableName() string {
	return "sub_categories"
}
