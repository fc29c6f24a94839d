package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrWriteRejected is returned by Flaky once writes are switched off.
var ErrWriteRejected = errors.New("kv: write rejected")

// Flaky wraps a Store and can be told to reject writes for selected keys.
// It stands in for quota errors and backend outages in tests.
type Flaky struct {
	Store
	mu     sync.Mutex
	reject map[string]bool
}

func NewFlaky(inner Store) *Flaky {
	return &Flaky{Store: inner, reject: map[string]bool{}}
}

func (f *Flaky) RejectWrites(key string, on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reject[key] = on
}

func (f *Flaky) rejected(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reject[key]
}

func (f *Flaky) Set(ctx context.Context, key string, value []byte) error {
	if f.rejected(key) {
		return ErrWriteRejected
	}
	return f.Store.Set(ctx, key, value)
}

func (f *Flaky) Delete(ctx context.Context, key string) error {
	if f.rejected(key) {
		return ErrWriteRejected
	}
	return f.Store.Delete(ctx, key)
}
