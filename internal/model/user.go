package model

import (
	"time"

	"gorm.io/datatypes"
)

// 未提供坐标时的默认位置（达拉斯）
const (
	DefaultUserLat = 32.7767
	DefaultUserLon = -96.7970
)

// 用户 JSON 数据的初始值
const (
	EmptyJSONArray  = "[]"
	EmptyJSONObject = "{}"
)

// User App 用户
type User struct {
	BaseModel
	Username string `gorm:"size:150;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // bcrypt 哈希
	Name     string `gorm:"size:100"`

	Lat float64
	Lon float64

	IsStaff  bool `gorm:"default:false"`
	IsActive bool `gorm:"default:true"`

	// 客户端自定义的 JSON 数据，不做结构校验
	FavoritesJSON   datatypes.JSON `gorm:"column:favorites_json"`
	BagJSON         datatypes.JSON `gorm:"column:bag_json"`
	PreferencesJSON datatypes.JSON `gorm:"column:preferences_json"`

	// 找回密码
	PasswordResetCode        *string    `gorm:"size:64;index"`
	PasswordResetCodeExpires *time.Time `gorm:""`

	LastLoginAt *time.Time
}

func (User) TableName() string {
	return "users"
}

// BlobKind 用户 JSON 数据类型
type BlobKind string

const (
	BlobFavorites   BlobKind = "favorites"
	BlobBag         BlobKind = "bag"
	BlobPreferences BlobKind = "preferences"
)

// Column 对应的数据库列
func (k BlobKind) Column() string {
	switch k {
	case BlobFavorites:
		return "favorites_json"
	case BlobBag:
		return "bag_json"
	case BlobPreferences:
		return "preferences_json"
	}
	return ""
}

// Default 初始值
func (k BlobKind) Default() string {
	if k == BlobPreferences {
		return EmptyJSONObject
	}
	return EmptyJSONArray
}

// Blob 读取对应的 JSON 数据，未初始化时返回默认值
func (u *User) Blob(kind BlobKind) datatypes.JSON {
	var raw datatypes.JSON
	switch kind {
	case BlobFavorites:
		raw = u.FavoritesJSON
	case BlobBag:
		raw = u.BagJSON
	case BlobPreferences:
		raw = u.PreferencesJSON
	}
	if len(raw) == 0 {
		return datatypes.JSON(kind.Default())
	}
	return raw
}

// ResetCodeExpired 重置码是否已过期
func (u *User) ResetCodeExpired(now time.Time) bool {
	return u.PasswordResetCodeExpires != nil && now.After(*u.PasswordResetCodeExpires)
}
