package smiley

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/elkarte/go-bbc/internal/assets"
)

// Source supplies the smileys of a named set.
type Source interface {
	Load(ctx context.Context, set string) ([]Smiley, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, set string) ([]Smiley, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context, set string) ([]Smiley, error) {
	return f(ctx, set)
}

// Compile-time interface checks.
var (
	_ Source = SourceFunc(nil)
	_ Source = (*AssetSource)(nil)
	_ Source = (*SQLSource)(nil)
)

// AssetSource reads YAML set definitions through an asset loader, so custom
// directories override the embedded default set.
type AssetSource struct {
	loader assets.AssetLoader
}

// NewAssetSource wraps loader. A nil loader uses the embedded assets.
func NewAssetSource(loader assets.AssetLoader) *AssetSource {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	return &AssetSource{loader: loader}
}

// Load implements Source.
func (s *AssetSource) Load(ctx context.Context, set string) ([]Smiley, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := s.loader.LoadSmileySet(set)
	if err != nil {
		if errors.Is(err, assets.ErrSmileySetNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrSetNotFound, set)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceFailed, err)
	}
	decoded, err := DecodeSet(raw)
	if err != nil {
		return nil, err
	}
	return decoded.Smileys, nil
}

var tablePrefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]{0,32}$`)

// ErrInvalidPrefix is returned for table prefixes that are not plain identifiers.
var ErrInvalidPrefix = errors.New("invalid table prefix")

// SQLSource reads the forum's smileys table. Every set shares the table;
// the set name only selects the image directory. The query is portable
// across MySQL, PostgreSQL and SQLite.
type SQLSource struct {
	db    *sql.DB
	query string
}

// NewSQLSource reads {prefix}smileys from db.
func NewSQLSource(db *sql.DB, prefix string) (*SQLSource, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil database", ErrSourceFailed)
	}
	if !tablePrefixPattern.MatchString(prefix) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}
	q := `SELECT code, filename, description FROM ` + prefix + `smileys WHERE hidden IN (0, 2) ORDER BY LENGTH(code) DESC`
	return &SQLSource{db: db, query: q}, nil
}

// Load implements Source.
func (s *SQLSource) Load(ctx context.Context, _ string) ([]Smiley, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceFailed, err)
	}
	defer rows.Close()

	var out []Smiley
	for rows.Next() {
		var sm Smiley
		var desc sql.NullString
		if err := rows.Scan(&sm.Code, &sm.Filename, &desc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceFailed, err)
		}
		sm.Code = strings.TrimSpace(sm.Code)
		if sm.Code == "" {
			continue
		}
		sm.Description = desc.String
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceFailed, err)
	}
	return out, nil
}
