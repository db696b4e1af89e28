package cache

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"Knudge/storage/redis"
)

// RedisPersister 引导会话快照的 redis 后端，一个会话一个 string key，不设过期
// Key: knudge:{storage_key}
type RedisPersister struct {
	client *goredis.Client
}

func NewRedisPersister(client *goredis.Client) *RedisPersister {
	return &RedisPersister{client: client}
}

// Load key 不存在时返回 nil, nil
func (p *RedisPersister) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := p.client.Get(ctx, redis.Key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get onboarding snapshot from redis: %w", err)
	}
	return data, nil
}

func (p *RedisPersister) Save(ctx context.Context, key string, data []byte) error {
	if err := p.client.Set(ctx, redis.Key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set onboarding snapshot in redis: %w", err)
	}
	return nil
}
