package smiley

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/elkarte/go-bbc/internal/cache"
)

// DefaultTTL is how long a loaded set stays cached.
const DefaultTTL = 600 * time.Second

// CacheKey returns the cache key for set.
func CacheKey(set string) string {
	return "parsing_smileys_" + set
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache sets the cache backend. The default is cache.Nop.
func WithCache(c cache.Cache) LoaderOption {
	return func(l *Loader) {
		if c != nil {
			l.cache = c
		}
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithLoaderLogger sets the logger for cache failures.
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithParserOptions sets the options every compiled Parser receives.
func WithParserOptions(opts ...Option) LoaderOption {
	return func(l *Loader) {
		l.parserOpts = append(l.parserOpts, opts...)
	}
}

type compiled struct {
	sum    uint64
	parser *Parser
}

// Loader fetches sets from a Source through a cache. Concurrent misses for
// the same set share one Source call. Cache failures are logged and treated
// as misses.
type Loader struct {
	source     Source
	cache      cache.Cache
	ttl        time.Duration
	logger     *zap.Logger
	parserOpts []Option

	group singleflight.Group

	mu       sync.Mutex
	compiled map[string]compiled
}

// NewLoader returns a Loader reading from source.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:   source,
		cache:    cache.Nop{},
		ttl:      DefaultTTL,
		logger:   zap.NewNop(),
		compiled: make(map[string]compiled),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the smileys of set.
func (l *Loader) Load(ctx context.Context, set string) (Set, error) {
	payload, err := l.payload(ctx, set)
	if err != nil {
		return Set{}, err
	}
	return decodePayload(set, payload)
}

// Parser returns a compiled Parser for set. Parsers are reused while the
// underlying set is unchanged.
func (l *Loader) Parser(ctx context.Context, set string) (*Parser, error) {
	payload, err := l.payload(ctx, set)
	if err != nil {
		return nil, err
	}
	h := fnv.New64a()
	_, _ = h.Write(payload)
	sum := h.Sum64()

	l.mu.Lock()
	c, ok := l.compiled[set]
	l.mu.Unlock()
	if ok && c.sum == sum {
		return c.parser, nil
	}

	s, err := decodePayload(set, payload)
	if err != nil {
		return nil, err
	}
	p, err := NewParser(s, l.parserOpts...)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.compiled[set] = compiled{sum: sum, parser: p}
	l.mu.Unlock()
	return p, nil
}

// payload returns the JSON encoded smiley list, from cache or source.
func (l *Loader) payload(ctx context.Context, set string) ([]byte, error) {
	key := CacheKey(set)

	if b, ok, err := l.cache.Get(ctx, key); err != nil {
		l.logger.Warn("smiley cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var probe []Smiley
		if json.Unmarshal(b, &probe) == nil {
			return b, nil
		}
		l.logger.Warn("discarding corrupt smiley cache entry", zap.String("key", key))
	}

	v, err, shared := l.group.Do(key, func() (any, error) {
		smileys, err := l.source.Load(ctx, set)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(smileys)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceFailed, err)
		}
		if err := l.cache.Put(ctx, key, b, l.ttl); err != nil {
			l.logger.Warn("smiley cache write failed", zap.String("key", key), zap.Error(err))
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loaded smiley set",
		zap.String("set", set),
		zap.Bool("shared", shared))
	return v.([]byte), nil
}

func decodePayload(set string, payload []byte) (Set, error) {
	var smileys []Smiley
	if err := json.Unmarshal(payload, &smileys); err != nil {
		return Set{}, fmt.Errorf("%w: %v", ErrInvalidSet, err)
	}
	return Set{Name: set, Smileys: smileys}, nil
}
