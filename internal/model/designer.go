package model

// DesignerCategory 设计师分类
type DesignerCategory string

const (
	DesignerCategoryMen   DesignerCategory = "m"
	DesignerCategoryWomen DesignerCategory = "w"
)

// Valid 是否为合法分类
func (c DesignerCategory) Valid() bool {
	return c == DesignerCategoryMen || c == DesignerCategoryWomen
}

// Designer 设计师 / 品牌
type Designer struct {
	BaseModel
	Category DesignerCategory `gorm:"size:1;not null;default:'m';index" json:"category"`
	Name     string           `gorm:"size:100;index;not null" json:"name"`
	Image    string           `gorm:"type:text" json:"image"`
}

func (Designer) TableName() string {
	return "designers"
}
