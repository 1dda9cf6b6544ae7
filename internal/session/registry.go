package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenKind distinguishes the two registry namespaces.
type TokenKind string

const (
	KindAccess  TokenKind = "access_token"
	KindRefresh TokenKind = "refresh_token"
)

// TokenRegistry tracks which issued tokens are still live. A token absent
// from the registry is treated as revoked regardless of its signature.
type TokenRegistry interface {
	Store(ctx context.Context, kind TokenKind, userID, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, kind TokenKind, userID, tokenID string) (bool, error)
	Revoke(ctx context.Context, kind TokenKind, userID, tokenID string) error
	RevokeAll(ctx context.Context, userID string) error
}

type redisTokenRegistry struct {
	client *redis.Client
}

func NewRedisTokenRegistry(client *redis.Client) TokenRegistry {
	return &redisTokenRegistry{client: client}
}

func registryKey(kind TokenKind, userID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID, tokenID)
}

func (r *redisTokenRegistry) Store(ctx context.Context, kind TokenKind, userID, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, registryKey(kind, userID, tokenID), "valid", ttl).Err()
}

func (r *redisTokenRegistry) IsActive(ctx context.Context, kind TokenKind, userID, tokenID string) (bool, error) {
	exists, err := r.client.Exists(ctx, registryKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (r *redisTokenRegistry) Revoke(ctx context.Context, kind TokenKind, userID, tokenID string) error {
	return r.client.Del(ctx, registryKey(kind, userID, tokenID)).Err()
}

func (r *redisTokenRegistry) RevokeAll(ctx context.Context, userID string) error {
	for _, kind := range []TokenKind{KindAccess, KindRefresh} {
		pattern := fmt.Sprintf("%s:%s:*", kind, userID)
		keys, err := r.client.Keys(ctx, pattern).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
