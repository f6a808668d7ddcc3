package model

import (
	"time"
)

// BaseModel 公共字段
// 业务上没有软删除，删除即物理删除（级联规则见 Item）
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// All 需要自动建表的模型，顺序即建表顺序
func All() []interface{} {
	return []interface{}{
		&Store{}, &Designer{}, &SubCategory{}, &Item{},
		&User{}, &APIKey{}, &Contact{},
	}
}
