package redissvc

import (
	"context"
	"errors"
	"time"

	"github.com/iselbouch1/bouchauto-showcase/internal/cache"
	"github.com/redis/go-redis/v9"
)

// RedisService exposes a go-redis client as a cache.Store.
type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{
		rdb: rdb,
	}
}

// Connect dials addr and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*RedisService, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return NewRedisService(rdb), nil
}

func (a *RedisService) Rdb() *redis.Client {
	return a.rdb
}

func (a *RedisService) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := a.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrMiss
	}
	return v, err
}

func (a *RedisService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return a.rdb.Set(ctx, key, value, ttl).Err()
}

func (a *RedisService) Incr(ctx context.Context, key string) (int64, error) {
	return a.rdb.Incr(ctx, key).Result()
}

func (a *RedisService) Close() error {
	return a.rdb.Close()
}

var _ cache.Store = (*RedisService)(nil)
