package model

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WeeklyHours 每周营业时间，周一到周日各一行 [开门, 关门]
type WeeklyHours [7][2]int

// DefaultWeeklyHours 默认营业时间 8:00-16:00
var DefaultWeeklyHours = WeeklyHours{{8, 16}, {8, 16}, {8, 16}, {8, 16}, {8, 16}, {8, 16}, {8, 16}}

var ErrInvalidHours = errors.New("store hours must be 7 rows of [open, close] within 0-24")

// Store 实体店铺
type Store struct {
	BaseModel
	Lat          float64                          `gorm:"not null" json:"lat"`
	Lon          float64                          `gorm:"not null" json:"lon"`
	Name         string                           `gorm:"size:100;index;not null" json:"name"`
	Address      string                           `gorm:"type:text" json:"address"`
	ContactEmail string                           `gorm:"size:100" json:"contact_email"`
	ContactPhone string                           `gorm:"size:20" json:"contact_phone"`
	Thumbnail    string                           `gorm:"type:text" json:"thumbnail"`
	Hours        datatypes.JSONType[WeeklyHours] `json:"hours"`
}

func (Store) TableName() string {
	return "stores"
}

// Validate 校验营业时间
func (s *Store) Validate() error {
	for _, row := range s.Hours.Data() {
		open, closing := row[0], row[1]
		if open < 0 || closing > 24 || open > closing {
			return ErrInvalidHours
		}
	}
	return nil
}

// BeforeSave 写库前校验营业时间
func (s *Store) BeforeSave(tx *gorm.DB) error {
	return s.Validate()
}
