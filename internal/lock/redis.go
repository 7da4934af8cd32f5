package lock

import (
	"context"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "vehicle-rental:lock:"
	retryInterval = 50 * time.Millisecond
	maxAttempts   = 20
)

// releases the key only if it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker holds locks as SET NX keys with a TTL, so a crashed holder cannot block forever.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// NewRedisClient connects to addr and verifies it with PING
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		logger.ExternalServiceCall("redis", "SETNX", "key", redisKey, "attempt", attempt)
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			logger.ExternalServiceResult("redis", "SETNX", err, "key", redisKey)
			return nil, fmt.Errorf("acquire lock %s: %w", redisKey, err)
		}
		if ok {
			logger.ExternalServiceResult("redis", "SETNX", nil, "key", redisKey)
			return func() { l.release(redisKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, domain.ErrLockHeld
}

func (l *RedisLocker) release(key, token string) {
	// the request context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		logger.ExternalServiceResult("redis", "UNLOCK", err, "key", key)
	}
}
