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
	TTLMember  = 10 * time.Minute // 회원 프로필 (변경 빈도 낮음)
	TTLItem    = 5 * time.Minute  // 상품 요약
	TTLShort   = 1 * time.Minute  // 짧은 캐시 (실시간성 필요)
	TTLDefault = 5 * time.Minute  // 기본값
)

// 캐시 키 접두사
const (
	PrefixMember = "member:"
	PrefixItem   = "item:"
)

// ErrCacheMiss 캐시 미스
var ErrCacheMiss = errors.New("cache miss")

// Service Redis 캐시 서비스 인터페이스
type Service interface {
	// 기본 캐시 연산
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// 회원 프로필 캐시
	GetMember(ctx context.Context, memberID uint64, dest interface{}) error
	SetMember(ctx context.Context, memberID uint64, data interface{}) error
	InvalidateMember(ctx context.Context, memberID uint64) error

	// 상품 요약 캐시
	GetItem(ctx context.Context, itemID uint64, dest interface{}) error
	SetItem(ctx context.Context, itemID uint64, data interface{}) error
	InvalidateItem(ctx context.Context, itemID uint64) error

	// 유틸리티
	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis 기반 캐시 구현
type redisCache struct {
	client *redis.Client
}

// NewService 캐시 서비스 생성
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetMember(ctx context.Context, memberID uint64, dest interface{}) error {
	return c.Get(ctx, memberKey(memberID), dest)
}

func (c *redisCache) SetMember(ctx context.Context, memberID uint64, data interface{}) error {
	return c.Set(ctx, memberKey(memberID), data, TTLMember)
}

func (c *redisCache) InvalidateMember(ctx context.Context, memberID uint64) error {
	return c.Delete(ctx, memberKey(memberID))
}

func (c *redisCache) GetItem(ctx context.Context, itemID uint64, dest interface{}) error {
	return c.Get(ctx, itemKey(itemID), dest)
}

func (c *redisCache) SetItem(ctx context.Context, itemID uint64, data interface{}) error {
	return c.Set(ctx, itemKey(itemID), data, TTLItem)
}

func (c *redisCache) InvalidateItem(ctx context.Context, itemID uint64) error {
	return c.Delete(ctx, itemKey(itemID))
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func memberKey(id uint64) string {
	return fmt.Sprintf("%s%d", PrefixMember, id)
}

func itemKey(id uint64) string {
	return fmt.Sprintf("%s%d", PrefixItem, id)
}
