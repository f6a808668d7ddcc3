package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/repository"
)

var ErrInvalidEmail = errors.New("invalid email address")

// ContactService 落地页邮箱收集
type ContactService struct {
	repo     repository.ContactRepository
	validate *validator.Validate
}

func NewContactService(repo repository.ContactRepository) *ContactService {
	return &ContactService{repo: repo, validate: validator.New()}
}

// Submit 保存访客邮箱，只接受裸地址
func (s *ContactService) Submit(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := s.validate.Var(email, "required,email,max=100"); err != nil {
		return ErrInvalidEmail
	}
	return s.repo.Create(ctx, &model.Contact{Email: email})
}
