package cache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"Knudge/storage/redis"
)

// 基于 SET NX 的分布式锁，value 为持有者 token，只有持有者能释放
const (
	lockPrefix = "lock"
)

var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().SetNX(ctx, fullkey, token, ttl).Result()
}

// Unlock token 不匹配（锁已过期被他人持有）时不做任何事
func Unlock(ctx context.Context, key, token string) error {
	fullkey := redis.Key(lockPrefix, key)

	return unlockScript.Run(ctx, redis.Client(), []string{fullkey}, token).Err()
}
