package model

// APIKey 客户端访问凭证，只保存 sha256 摘要
type APIKey struct {
	BaseModel
	Name    string `gorm:"size:50;not null"`
	Prefix  string `gorm:"size:8;index"`
	KeyHash string `gorm:"size:64;uniqueIndex;not null"`
	Revoked bool   `gorm:"default:false"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
