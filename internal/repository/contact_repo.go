package repository

import (
	"context"

	"gorm.io/gorm"

	"brickandmortr_server/internal/model"
)

// ContactRepository 落地页邮箱仓储
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Count(ctx context.Context) (int64, error)
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contact{}).Count(&count).Error
	return count, err
}
