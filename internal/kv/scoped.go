package kv

import (
	"context"
	"fmt"
)

type scoped struct {
	inner Store
	scope string
}

// Scoped prefixes every key with scope, so several clients can share one
// backend without seeing each other's session or cart.
func Scoped(s Store, scope string) Store {
	return &scoped{inner: s, scope: scope}
}

// ForClient is Scoped with the per-client scope layout.
func ForClient(s Store, clientID string) Store {
	return Scoped(s, fmt.Sprintf(ClientScope, clientID))
}

func (s *scoped) key(k string) string { return s.scope + ":" + k }

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.key(key))
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.key(key), value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.key(key))
}
