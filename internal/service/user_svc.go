package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"brickandmortr_server/internal/api/dto"
	"brickandmortr_server/internal/middleware"
	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/repository"
)

// ==================== UserService 用户服务 ====================

// UserService App 用户：注册、登录、收藏 / 购物袋 / 偏好
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ==================== 注册 ====================

// CreateUser 注册；用户名已存在时返回 ErrUsernameExists，不改动已有记录
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	return s.createUser(ctx, req, false)
}

// CreateStaffUser 创建后台用户
func (s *UserService) CreateStaffUser(ctx context.Context, req *dto.CreateUserRequest) (*model.User, error) {
	return s.createUser(ctx, req, true)
}

func (s *UserService) createUser(ctx context.Context, req *dto.CreateUserRequest, isStaff bool) (*model.User, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	lat, lon, err := resolveLocation(req.Lat, req.Lon)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:        req.Username,
		Password:        string(hashedPassword),
		Name:            req.Name,
		Lat:             lat,
		Lon:             lon,
		IsStaff:         isStaff,
		IsActive:        true,
		FavoritesJSON:   datatypes.JSON(model.BlobFavorites.Default()),
		BagJSON:         datatypes.JSON(model.BlobBag.Default()),
		PreferencesJSON: datatypes.JSON(model.BlobPreferences.Default()),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册同一用户名时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}
	return user, nil
}

// resolveLocation lat / lon 都提供时才使用，否则落到默认位置
func resolveLocation(rawLat, rawLon interface{}) (float64, float64, error) {
	if isBlank(rawLat) || isBlank(rawLon) {
		return model.DefaultUserLat, model.DefaultUserLon, nil
	}
	lat, err := cast.ToFloat64E(rawLat)
	if err != nil {
		return 0, 0, ErrInvalidLocation
	}
	lon, err := cast.ToFloat64E(rawLon)
	if err != nil {
		return 0, 0, ErrInvalidLocation
	}
	return lat, lon, nil
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// ==================== 认证相关 ====================

// Login 用户登录
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	// 更新最后登录时间
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)
	return resp, nil
}

// RefreshToken 刷新 Token
func (s *UserService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.LoginResponse, error) {
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil || !claims.IsRefresh() {
		return nil, ErrInvalidToken
	}

	// 确保用户仍然有效
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserDisabled
	}

	return s.issueTokens(user)
}

func (s *UserService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
		User:         toUserInfo(user),
	}, nil
}

func toUserInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		IsStaff:  user.IsStaff,
		Lat:      user.Lat,
		Lon:      user.Lon,
	}
}

// ==================== 收藏 / 购物袋 / 偏好 ====================

// GetBlob 读取用户 JSON 数据，原样返回
func (s *UserService) GetBlob(ctx context.Context, userID int64, kind model.BlobKind) (json.RawMessage, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return json.RawMessage(user.Blob(kind)), nil
}

// UpdateBlob 整体替换用户 JSON 数据，内容只要求是合法 JSON
func (s *UserService) UpdateBlob(ctx context.Context, userID int64, kind model.BlobKind, body []byte) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return ErrInvalidJSON
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return ErrInvalidJSON
	}

	err := s.userRepo.UpdateBlob(ctx, userID, kind, datatypes.JSON(compact.Bytes()))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	return nil
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already in use")
	ErrInvalidLocation    = errors.New("lat and lon must be numbers")
	ErrInvalidJSON        = errors.New("request body must be valid JSON")
)
