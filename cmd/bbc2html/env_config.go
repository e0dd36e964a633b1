package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/elkarte/go-bbc/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // BBC_CONFIG: config file path
	OutputDir  string // BBC_OUTPUT_DIR: default output directory
	Workers    int    // BBC_WORKERS: parallel workers

	// Tier 2 - Smileys
	SmileySet string // BBC_SMILEY_SET: smiley set name
	AssetPath string // BBC_ASSET_PATH: directory with custom smiley sets

	// Tier 3 - Data sources
	DBDriver      string // BBC_DB_DRIVER: sqlite, mysql, postgres
	DBDSN         string // BBC_DB_DSN: driver specific DSN
	DBPrefix      string // BBC_DB_PREFIX: forum table prefix
	Cache         string // BBC_CACHE: none, memory, redis
	RedisAddr     string // BBC_REDIS_ADDR: host:port
	RedisPassword string // BBC_REDIS_PASSWORD
}

// knownEnvVars lists valid BBC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"BBC_CONFIG":     true,
	"BBC_OUTPUT_DIR": true,
	"BBC_WORKERS":    true,
	// Tier 2 - Smileys
	"BBC_SMILEY_SET": true,
	"BBC_ASSET_PATH": true,
	// Tier 3 - Data sources
	"BBC_DB_DRIVER":      true,
	"BBC_DB_DSN":         true,
	"BBC_DB_PREFIX":      true,
	"BBC_CACHE":          true,
	"BBC_REDIS_ADDR":     true,
	"BBC_REDIS_PASSWORD": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized BBC_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:    os.Getenv("BBC_CONFIG"),
		OutputDir:     os.Getenv("BBC_OUTPUT_DIR"),
		SmileySet:     os.Getenv("BBC_SMILEY_SET"),
		AssetPath:     os.Getenv("BBC_ASSET_PATH"),
		DBDriver:      os.Getenv("BBC_DB_DRIVER"),
		DBDSN:         os.Getenv("BBC_DB_DSN"),
		DBPrefix:      os.Getenv("BBC_DB_PREFIX"),
		Cache:         strings.ToLower(os.Getenv("BBC_CACHE")),
		RedisAddr:     os.Getenv("BBC_REDIS_ADDR"),
		RedisPassword: os.Getenv("BBC_REDIS_PASSWORD"),
	}

	// Parse int for workers
	if workers := os.Getenv("BBC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized BBC_* variables.
// Helps catch typos like BBC_SMILEYSET instead of BBC_SMILEY_SET.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "BBC_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// A value is only set when the config still holds its default, so a
// config file wins over the environment.
// This ensures: CLI flags > config file > env vars > defaults,
// except BBC_CACHE which beats the config file.
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	def := config.DefaultConfig()

	// Tier 1 - I/O
	if env.OutputDir != "" && cfg.Output.DefaultDir == def.Output.DefaultDir {
		cfg.Output.DefaultDir = env.OutputDir
	}

	// Tier 2 - Smileys
	if env.SmileySet != "" && cfg.Smileys.Set == def.Smileys.Set {
		cfg.Smileys.Set = env.SmileySet
	}
	if env.AssetPath != "" && cfg.Smileys.AssetPath == def.Smileys.AssetPath {
		cfg.Smileys.AssetPath = env.AssetPath
	}

	// Tier 3 - Database (driver and DSN travel together)
	if env.DBDriver != "" && cfg.Database.Driver == def.Database.Driver {
		cfg.Database.Driver = env.DBDriver
		if env.DBDSN != "" {
			cfg.Database.DSN = env.DBDSN
		}
	}
	if env.DBPrefix != "" && cfg.Database.Prefix == def.Database.Prefix {
		cfg.Database.Prefix = env.DBPrefix
	}

	// Tier 3 - Cache. BBC_CACHE also overrides the config file.
	if env.Cache != "" {
		cfg.Cache.Backend = env.Cache
	}
	if env.RedisAddr != "" && cfg.Cache.Redis.Addr == def.Cache.Redis.Addr {
		cfg.Cache.Redis.Addr = env.RedisAddr
	}
	if env.RedisPassword != "" && cfg.Cache.Redis.Password == def.Cache.Redis.Password {
		cfg.Cache.Redis.Password = env.RedisPassword
	}
}
