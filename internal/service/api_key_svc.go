package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/repository"
	"brickandmortr_server/pkg/utils"
)

// apiKeyLength 明文 Key 长度，前 8 位作为前缀明文保存
const (
	apiKeyLength = 40
	apiKeyPrefix = 8
)

// APIKeyService 客户端 API Key
type APIKeyService struct {
	repo  repository.APIKeyRepository
	cache *utils.TTLCache[bool]
}

// NewAPIKeyService 创建 API Key 服务，cacheTTL 为校验结果的缓存时间
func NewAPIKeyService(repo repository.APIKeyRepository, cacheTTL time.Duration) *APIKeyService {
	return &APIKeyService{repo: repo, cache: utils.NewTTLCache[bool](cacheTTL)}
}

// Create 生成新 Key，明文只在这里返回一次
func (s *APIKeyService) Create(ctx context.Context, name string) (string, *model.APIKey, error) {
	if name == "" {
		return "", nil, ErrAPIKeyNameRequired
	}
	raw, err := utils.GenerateRandomString(apiKeyLength)
	if err != nil {
		return "", nil, fmt.Errorf("generate api key: %w", err)
	}
	key := &model.APIKey{
		Name:    name,
		Prefix:  raw[:apiKeyPrefix],
		KeyHash: utils.HashKey(raw),
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return "", nil, err
	}
	return raw, key, nil
}

// Validate 实现 middleware.APIKeyValidator；只缓存校验通过的结果
func (s *APIKeyService) Validate(ctx context.Context, rawKey string) (bool, error) {
	hash := utils.HashKey(rawKey)
	if ok, hit := s.cache.Get(hash); hit {
		return ok, nil
	}

	key, err := s.repo.GetActiveByHash(ctx, hash)
	if err != nil {
		return false, err
	}
	if key == nil {
		return false, nil
	}
	s.cache.Set(hash, true)
	return true, nil
}

// Revoke 按前缀吊销；缓存中的校验结果在 TTL 到期后失效
func (s *APIKeyService) Revoke(ctx context.Context, prefix string) error {
	n, err := s.repo.RevokeByPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAPIKeyNotFound
	}
	zap.S().Infof("[APIKey] 已吊销 %d 个 Key (prefix=%s)", n, prefix)
	return nil
}

// List 全部 Key
func (s *APIKeyService) List(ctx context.Context) ([]model.APIKey, error) {
	return s.repo.List(ctx)
}

var (
	ErrAPIKeyNameRequired = errors.New("api key name is required")
	ErrAPIKeyNotFound     = errors.New("api key not found")
)
