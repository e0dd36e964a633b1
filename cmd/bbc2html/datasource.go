package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // sqlite driver

	bbc "github.com/elkarte/go-bbc"
	"github.com/elkarte/go-bbc/internal/config"
	"github.com/elkarte/go-bbc/internal/hints"
)

// connectTimeout bounds database and Redis pings at startup.
const connectTimeout = 5 * time.Second

// Sentinel errors for data sources.
var (
	ErrDatabase     = errors.New("smiley database unavailable")
	ErrCacheConnect = errors.New("redis cache unavailable")
)

// closers releases data source handles in reverse order.
type closers []io.Closer

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openDatabase opens and pings the forum database named by cfg.
// Returns nil, nil when no driver is configured.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Driver == "" {
		return nil, nil
	}
	driver, ok := config.Drivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: database.driver: %q", config.ErrInvalidValue, cfg.Driver)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrDatabase, err, hints.ForDatabaseConnect(cfg.Driver))
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v%s", ErrDatabase, err, hints.ForDatabaseConnect(cfg.Driver))
	}
	return db, nil
}

// openSmileySource returns the forum smiley table when a database is
// configured, or nil to use the asset loader.
func openSmileySource(ctx context.Context, cfg config.DatabaseConfig) (bbc.SmileySource, io.Closer, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil || db == nil {
		return nil, nil, err
	}
	src, err := bbc.NewSQLSmileySource(db, cfg.Prefix)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return src, db, nil
}

// openCache builds the smiley cache named by cfg. Redis is pinged so a
// bad address fails before any file is rendered.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (bbc.Cache, io.Closer, error) {
	switch strings.ToLower(cfg.Backend) {
	case "none":
		return bbc.NewNopCache(), nil, nil
	case "", "memory":
		return bbc.NewMemoryCache(), nil, nil
	case "redis":
	default:
		return nil, nil, fmt.Errorf("%w: cache.backend: %q", config.ErrInvalidValue, cfg.Backend)
	}

	rc := bbc.NewRedisCache(bbc.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
		Timeout:  connectTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("%w: %v%s", ErrCacheConnect, err, hints.ForCacheConnect(cfg.Redis.Addr))
	}
	logger.Debug("redis cache connected", zap.String("addr", cfg.Redis.Addr))
	return rc, rc, nil
}
