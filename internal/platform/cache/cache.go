// Package cache holds short-lived lookup data (insurance providers and
// policies) fetched from upstream. Entries are raw JSON so that the memory
// and Redis backends behave the same.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented TTL store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key builds "<namespace>:<scope-digest>". The scope is usually a bearer
// token, which must never appear in a key verbatim.
func Key(namespace, scope string) string {
	sum := sha256.Sum256([]byte(scope))
	return namespace + ":" + hex.EncodeToString(sum[:8])
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result for ttl. force skips the read but still stores the fresh value.
// A broken cache never fails the call; it just falls through to load.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, force bool, load func(context.Context) (T, error)) (T, error) {
	if !force {
		if raw, err := c.Get(ctx, key); err == nil {
			var v T
			if json.Unmarshal(raw, &v) == nil {
				return v, nil
			}
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if raw, err := json.Marshal(v); err == nil {
		_ = c.Set(ctx, key, raw, ttl)
	}
	return v, nil
}

// Invalidate drops every entry under namespace.
func Invalidate(ctx context.Context, c Cache, namespace string) error {
	if err := c.DeletePrefix(ctx, namespace+":"); err != nil {
		return fmt.Errorf("invalidate %s: %w", namespace, err)
	}
	return nil
}
