package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store implements kv.Store on plain redis strings. Records never expire.
type Store struct {
	RDB *redis.Client
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.RDB.Get(ctx, fmt.Sprintf(KeyRecord, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.RDB.Set(ctx, fmt.Sprintf(KeyRecord, key), value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(KeyRecord, key)).Err()
}
