// Package redisstore wraps the redis client used for request counters.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// IncrWindow bumps a counter and starts its expiry window on first use.
func (s *Store) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		s.rdb.Expire(ctx, key, window)
	}
	return count, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
