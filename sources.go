package bbc

import (
	"database/sql"
	"errors"

	"github.com/elkarte/go-bbc/internal/cache"
	"github.com/elkarte/go-bbc/internal/smiley"
)

// Cache stores loaded smiley sets between renders.
type Cache = cache.Cache

// RedisOptions configures NewRedisCache.
type RedisOptions = cache.RedisOptions

// Smiley is one code to image mapping.
type Smiley = smiley.Smiley

// SmileySource loads the smileys of a named set.
type SmileySource = smiley.Source

// SmileySourceFunc adapts a function to SmileySource.
type SmileySourceFunc = smiley.SourceFunc

// NewMemoryCache returns an in-process cache.
func NewMemoryCache() Cache {
	return cache.NewMemory()
}

// NewNopCache returns a cache that stores nothing, so every render reloads
// its smiley set.
func NewNopCache() Cache {
	return cache.Nop{}
}

// NewRedisCache returns a cache shared through a Redis server. The
// connection is made on first use.
func NewRedisCache(opts RedisOptions) *cache.Redis {
	return cache.NewRedis(opts)
}

// NewSQLSmileySource reads the forum smiley table {prefix}smileys from db.
// Any database/sql driver works; the CLI registers sqlite, mysql and pgx.
func NewSQLSmileySource(db *sql.DB, prefix string) (SmileySource, error) {
	src, err := smiley.NewSQLSource(db, prefix)
	if err != nil {
		return nil, convertSmileyError(err)
	}
	return src, nil
}

// convertSmileyError maps internal smiley errors to public sentinels.
func convertSmileyError(err error) error {
	switch {
	case errors.Is(err, smiley.ErrSetNotFound):
		return errors.Join(ErrSmileySetNotFound, err)
	case errors.Is(err, smiley.ErrSourceFailed),
		errors.Is(err, smiley.ErrInvalidSet),
		errors.Is(err, smiley.ErrInvalidPrefix):
		return errors.Join(ErrSmileySource, err)
	default:
		return err
	}
}
