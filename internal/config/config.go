package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/elkarte/go-bbc/internal/dateutil"
	"github.com/elkarte/go-bbc/internal/site"
	"github.com/elkarte/go-bbc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength        = 2048 // Browser limit
	MaxNameLength       = 64   // Smiley set, style and asset names
	MaxTagNameLength    = 16   // Longest BBCode tag name
	MaxDSNLength        = 1024
	MaxPrefixLength     = 32
	MaxAddrLength       = 255 // host:port
	MaxLabelLength      = 100 // Localized label
	MaxDateFormatLength = dateutil.MaxDateFormatLength
	MaxImageDimension   = 10000
)

// Accepted enum values.
var (
	// Drivers maps config driver names to database/sql driver names.
	Drivers = map[string]string{
		"sqlite":   "sqlite",
		"mysql":    "mysql",
		"postgres": "pgx",
	}
	cacheBackends = []string{"none", "memory", "redis"}
	prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)
)

// Config holds all configuration for message rendering.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	BBC      BBCConfig      `yaml:"bbc"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Smileys  SmileysConfig  `yaml:"smileys"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Output   OutputConfig   `yaml:"output"`
	Strings  site.Strings   `yaml:"strings"`
}

// SiteConfig defines the URLs used in generated markup.
type SiteConfig struct {
	ScriptURL  string `yaml:"scriptUrl"`  // e.g. https://forum.example.com/index.php
	SmileysURL string `yaml:"smileysUrl"` // base URL of smiley set directories
	ImagesURL  string `yaml:"imagesUrl"`
}

// BBCConfig defines tag rendering options.
type BBCConfig struct {
	Enabled         bool     `yaml:"enabled"`
	DisabledTags    []string `yaml:"disabledTags"`
	AutoLink        bool     `yaml:"autoLink"`
	PrintImages     bool     `yaml:"printImages"`
	MaxImageWidth   int      `yaml:"maxImageWidth"`  // 0 = unlimited
	MaxImageHeight  int      `yaml:"maxImageHeight"` // 0 = unlimited
	Highlight       bool     `yaml:"highlight"`
	HighlightStyle  string   `yaml:"highlightStyle"` // chroma style name
	QuoteDateFormat string   `yaml:"quoteDateFormat"`
	Sanitize        bool     `yaml:"sanitize"`
}

// MarkdownConfig defines the markdown pre-pass.
type MarkdownConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SmileysConfig defines smiley and emoji substitution.
type SmileysConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Emoji     bool   `yaml:"emoji"`
	Set       string `yaml:"set"`
	AssetPath string `yaml:"assetPath"` // Empty = use embedded sets
}

// DatabaseConfig points at a forum database holding the smileys table.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "", "sqlite", "mysql", "postgres"
	DSN    string `yaml:"dsn"`
	Prefix string `yaml:"prefix"` // table prefix, default "elk_"
}

// CacheConfig defines where loaded smiley sets are cached.
type CacheConfig struct {
	Backend    string      `yaml:"backend"`    // "none", "memory", "redis"
	TTLSeconds int         `yaml:"ttlSeconds"` // 0 = default
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig defines the Redis connection.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
	Standalone bool   `yaml:"standalone"` // wrap fragments in a full HTML document
}

// TTL returns the cache lifetime, or 0 for the default.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Settings converts the config into render settings.
func (c *Config) Settings() site.Settings {
	return site.Settings{
		EnableBBC:       c.BBC.Enabled,
		DisabledTags:    append([]string(nil), c.BBC.DisabledTags...),
		AutoLinkURLs:    c.BBC.AutoLink,
		EnableSmileys:   c.Smileys.Enabled,
		EnableEmoji:     c.Smileys.Emoji,
		EnableMarkdown:  c.Markdown.Enabled,
		PrintImages:     c.BBC.PrintImages,
		MaxImageWidth:   c.BBC.MaxImageWidth,
		MaxImageHeight:  c.BBC.MaxImageHeight,
		HighlightCode:   c.BBC.Highlight,
		QuoteDateFormat: c.BBC.QuoteDateFormat,
		SmileySet:       c.Smileys.Set,
	}
}

// Validate checks field lengths and enum values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	// Validate site URLs
	for field, v := range map[string]string{
		"site.scriptUrl":  c.Site.ScriptURL,
		"site.smileysUrl": c.Site.SmileysURL,
		"site.imagesUrl":  c.Site.ImagesURL,
	} {
		if err := validateFieldLength(field, v, MaxURLLength); err != nil {
			return err
		}
	}

	// Validate bbc fields
	for i, name := range c.BBC.DisabledTags {
		field := fmt.Sprintf("bbc.disabledTags[%d]", i)
		if name == "" {
			return fmt.Errorf("%w: %s: empty tag name", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field, name, MaxTagNameLength); err != nil {
			return err
		}
	}
	if c.BBC.MaxImageWidth < 0 || c.BBC.MaxImageWidth > MaxImageDimension {
		return fmt.Errorf("%w: bbc.maxImageWidth: must be between 0 and %d, got %d", ErrInvalidValue, MaxImageDimension, c.BBC.MaxImageWidth)
	}
	if c.BBC.MaxImageHeight < 0 || c.BBC.MaxImageHeight > MaxImageDimension {
		return fmt.Errorf("%w: bbc.maxImageHeight: must be between 0 and %d, got %d", ErrInvalidValue, MaxImageDimension, c.BBC.MaxImageHeight)
	}
	if err := validateFieldLength("bbc.highlightStyle", c.BBC.HighlightStyle, MaxNameLength); err != nil {
		return err
	}
	if c.BBC.QuoteDateFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.BBC.QuoteDateFormat); err != nil {
			return fmt.Errorf("bbc.quoteDateFormat: %w", err)
		}
	}

	// Validate smiley fields
	if err := validateFieldLength("smileys.set", c.Smileys.Set, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("smileys.assetPath", c.Smileys.AssetPath, MaxURLLength); err != nil {
		return err
	}

	// Validate database fields
	if c.Database.Driver != "" {
		if _, ok := Drivers[c.Database.Driver]; !ok {
			return fmt.Errorf("%w: database.driver: %q (must be sqlite, mysql, or postgres)", ErrInvalidValue, c.Database.Driver)
		}
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn: required when a driver is set", ErrInvalidValue)
		}
	}
	if err := validateFieldLength("database.dsn", c.Database.DSN, MaxDSNLength); err != nil {
		return err
	}
	if err := validateFieldLength("database.prefix", c.Database.Prefix, MaxPrefixLength); err != nil {
		return err
	}
	if !prefixPattern.MatchString(c.Database.Prefix) {
		return fmt.Errorf("%w: database.prefix: %q (letters, digits and underscores only)", ErrInvalidValue, c.Database.Prefix)
	}

	// Validate cache fields
	if c.Cache.Backend != "" && !contains(cacheBackends, strings.ToLower(c.Cache.Backend)) {
		return fmt.Errorf("%w: cache.backend: %q (must be none, memory, or redis)", ErrInvalidValue, c.Cache.Backend)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: cache.ttlSeconds: must not be negative, got %d", ErrInvalidValue, c.Cache.TTLSeconds)
	}
	if err := validateFieldLength("cache.redis.addr", c.Cache.Redis.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("cache.redis.prefix", c.Cache.Redis.Prefix, MaxPrefixLength); err != nil {
		return err
	}

	// Validate localized strings
	for field, v := range map[string]string{
		"strings.code":       c.Strings.Code,
		"strings.codeSelect": c.Strings.CodeSelect,
		"strings.quote":      c.Strings.Quote,
		"strings.quoteFrom":  c.Strings.QuoteFrom,
		"strings.spoiler":    c.Strings.Spoiler,
		"strings.searchOn":   c.Strings.SearchOn,
		"strings.footnote":   c.Strings.Footnote,
	} {
		if err := validateFieldLength(field, v, MaxLabelLength); err != nil {
			return err
		}
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig mirrors a fresh forum install: BBCode, markdown, smileys
// and emoji on, no database, in-memory cache.
func DefaultConfig() *Config {
	s := site.DefaultSettings()
	return &Config{
		Site: SiteConfig{
			ScriptURL:  "index.php",
			SmileysURL: "smileys",
			ImagesURL:  "images",
		},
		BBC: BBCConfig{
			Enabled:         s.EnableBBC,
			AutoLink:        s.AutoLinkURLs,
			Highlight:       s.HighlightCode,
			HighlightStyle:  "github",
			QuoteDateFormat: s.QuoteDateFormat,
		},
		Markdown: MarkdownConfig{Enabled: s.EnableMarkdown},
		Smileys: SmileysConfig{
			Enabled: s.EnableSmileys,
			Emoji:   s.EnableEmoji,
			Set:     s.SmileySet,
		},
		Database: DatabaseConfig{Prefix: "elk_"},
		Cache:    CacheConfig{Backend: "memory"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-bbc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-bbc", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
