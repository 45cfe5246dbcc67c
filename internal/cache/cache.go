// Package cache memoizes calculator responses in process or in Redis.
package cache

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Cache stores encoded responses by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key derives a cache key from the calculation kind and its canonical
// request payload.
func Key(kind string, payload []byte) string {
	return kind + ":" + strconv.FormatUint(xxhash.Sum64(payload), 16)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte) error  { return nil }
func (Nop) Close() error                               { return nil }
