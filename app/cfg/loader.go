package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

const (
	ViewStoreSQLite = "sqlite"
	ViewStoreRedis  = "redis"
	ViewStoreMemory = "memory"
)

type rawCfg struct {
	// Content configuration
	ContentDir    string `long:"content-dir" env:"CONTENT_DIR" default:"./content" description:"Directory containing collection files"`
	DefaultLocale string `long:"default-locale" env:"DEFAULT_LOCALE" default:"tr" choice:"tr" choice:"en" choice:"ar" description:"Locale used when a request does not name a supported one"`
	PageSize      int    `long:"page-size" env:"PAGE_SIZE" default:"9" description:"Items per listing page"`

	// Saved view storage
	ViewStore      string `long:"view-store" env:"VIEW_STORE" default:"sqlite" choice:"sqlite" choice:"redis" choice:"memory" description:"Backend for saved views"`
	DBPath         string `long:"db-path" env:"DB_PATH" default:"./content-comb.db" description:"SQLite database file for saved views"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address for saved views"`
	RedisNamespace string `long:"redis-namespace" env:"REDIS_NAMESPACE" default:"content-comb" description:"Prefix for Redis keys"`

	// HTTP configuration
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://www.example-law.com)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"Europe/Istanbul" description:"Timezone that decides the current calendar date (e.g., UTC, Europe/Istanbul)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses command line arguments and environment variables. It returns
// nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.PageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", raw.PageSize)
	}

	cfg := &Cfg{
		ContentDir:     raw.ContentDir,
		DefaultLocale:  raw.DefaultLocale,
		PageSize:       raw.PageSize,
		ViewStore:      raw.ViewStore,
		DBPath:         raw.DBPath,
		RedisAddr:      raw.RedisAddr,
		RedisNamespace: raw.RedisNamespace,
		Port:           raw.Port,
		BaseUrl:        raw.BaseUrl,
		Timezone:       raw.Timezone,
		Location:       loadLocation(raw.Timezone),
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	return cfg, nil
}

func loadLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", timezone, "error", err)
		return time.Local
	}
	return loc
}
