package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL bounds how long a login session survives without a refresh.
const SessionTTL = 24 * time.Hour

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SessionKey is the hash holding the active login session of a user.
func SessionKey(userID string) string {
	return "user:session:" + userID
}

// RedisHSetTTL writes fields into a hash and (re)arms its expiry in one round trip.
func RedisHSetTTL(ctx context.Context, rdb *redis.Client, key string, fields map[string]any, ttl time.Duration) error {
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func RedisDel(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err()
}
