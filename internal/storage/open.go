// Package storage picks the kv backend named in the config.
package storage

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-party-rentals.git/internal/config"
	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
	"github.com/ariefcatur/go-party-rentals.git/internal/postgres"
	"github.com/ariefcatur/go-party-rentals.git/internal/redisx"
	"github.com/ariefcatur/go-party-rentals.git/internal/sqlite"
)

// Open returns the store and a close func that releases its connections.
func Open(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	switch cfg.StoreBackend {
	case "", "memory":
		return kv.NewMemory(), func() {}, nil
	case "redis":
		rdb := redisx.New(cfg.RedisAddr)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return &redisx.Store{RDB: rdb}, func() { _ = rdb.Close() }, nil
	case "postgres":
		s, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
