package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis — хранилище access-токена в Redis для multi-instance деплоя шлюза:
// все реплики видят токен, обновлённый любой из них.
// Ключ собирается из префикса и id сессии; TTL ограничивает жизнь записи
// сверху (сам токен несёт exp внутри и ревалидируется через 401).
type Redis struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

const redisKeyPrefix = "access_token:"

func NewRedis(client *redis.Client, sessionID string, ttl time.Duration) *Redis {
	return &Redis{client: client, sessionID: sessionID, ttl: ttl}
}

func (r *Redis) key() string {
	return redisKeyPrefix + r.sessionID
}

func (r *Redis) Token(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, r.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokens: redis get: %w", err)
	}

	return val, nil
}

func (r *Redis) Save(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, r.key(), token, r.ttl).Err(); err != nil {
		return fmt.Errorf("tokens: redis set: %w", err)
	}

	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		return fmt.Errorf("tokens: redis del: %w", err)
	}

	return nil
}
