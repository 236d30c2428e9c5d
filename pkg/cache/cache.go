package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL 상수 정의
const (
	TTLProfile = 5 * time.Minute // 공개 프로필
	TTLDefault = 5 * time.Minute
)

// 캐시 키 접두사
const PrefixProfile = "profile:"

// ErrMiss is returned when the key is absent or the cache is disabled
var ErrMiss = errors.New("cache miss")

// Service cache used in front of read-mostly lookups
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetProfile(ctx context.Context, userID string, dest interface{}) error
	SetProfile(ctx context.Context, userID string, profile interface{}) error
	InvalidateProfile(ctx context.Context, userID string) error

	IsAvailable() bool
}

// redisCache Redis 기반 캐시 구현. A nil client turns every call into a miss/no-op.
type redisCache struct {
	client *redis.Client
}

// NewService 새로운 캐시 서비스 생성
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable Redis 연결 가능 여부
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Get 캐시에서 값 조회
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return json.Unmarshal(data, dest)
}

// Set 캐시에 값 저장
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Redis 없으면 무시
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete 캐시 삭제
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetProfile(ctx context.Context, userID string, dest interface{}) error {
	return c.Get(ctx, PrefixProfile+userID, dest)
}

func (c *redisCache) SetProfile(ctx context.Context, userID string, profile interface{}) error {
	return c.Set(ctx, PrefixProfile+userID, profile, TTLProfile)
}

func (c *redisCache) InvalidateProfile(ctx context.Context, userID string) error {
	return c.Delete(ctx, PrefixProfile+userID)
}
