package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStorage keeps the token/user pair in Redis. Writes and deletes go
// through a transactional pipeline so both keys change together.
type redisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) Storage {
	return &redisStorage{client: client, ttl: ttl}
}

func tokenKey(sessionID string) string {
	return fmt.Sprintf("session:%s:token", sessionID)
}

func userKey(sessionID string) string {
	return fmt.Sprintf("session:%s:user", sessionID)
}

func (s *redisStorage) Load(ctx context.Context, sessionID string) (string, []byte, error) {
	values, err := s.client.MGet(ctx, tokenKey(sessionID), userKey(sessionID)).Result()
	if err != nil {
		return "", nil, err
	}

	token, _ := values[0].(string)
	rawUser, _ := values[1].(string)
	return token, []byte(rawUser), nil
}

func (s *redisStorage) Save(ctx context.Context, sessionID, token string, user []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(sessionID), token, s.ttl)
	pipe.Set(ctx, userKey(sessionID), user, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStorage) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, tokenKey(sessionID), userKey(sessionID)).Err()
}
