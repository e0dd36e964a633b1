// Package cache stores rendered lookup tables, such as compiled smiley
// sets, between renders. Values are opaque bytes; callers choose the
// encoding.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache closed")

// Cache is a TTL key/value store. A miss is (nil, false, nil); errors are
// reserved for backend failures, which callers treat as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Nop never stores anything.
type Nop struct{}

// Compile-time interface checks.
var (
	_ Cache = Nop{}
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Put discards value.
func (Nop) Put(context.Context, string, []byte, time.Duration) error { return nil }
