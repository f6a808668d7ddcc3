package model

// Contact 落地页留下的邮箱
type Contact struct {
	BaseModel
	Email string `gorm:"size:100;not null"`
}

func (Contact) TableName() string {
	return "contacts"
}
