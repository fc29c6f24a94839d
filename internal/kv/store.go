// Package kv is the persistence surface shared by the cart, order and
// session ledgers. Every record is a full snapshot replaced on write.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Store is a synchronous key-value surface. Get reports found=false for a
// key that was never written or has been deleted.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ErrCorruptSnapshot wraps decode failures of a stored record.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// GetJSON decodes the record at key into out.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	b, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, key, err)
	}
	return true, nil
}

// PutJSON encodes v and replaces the record at key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b)
}
