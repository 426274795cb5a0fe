package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Run modes for the process entrypoint.
const (
	ModeOneshot = "oneshot"
	ModeServe   = "serve"
)

// RedisConfig holds the optional Redis connection used for the
// distributed run lock. The lock is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:""`
	Password string        `env:"REDIS_PASSWORD" envDefault:""`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL  time.Duration `env:"RUN_LOCK_TTL" envDefault:"15m"`
}

// Config holds all configuration for the sync module.
type Config struct {
	// Target (Notion) configuration
	NotionToken      string `env:"NOTION_TOKEN,required"`
	NotionDatabaseID string `env:"NOTION_DATABASE_ID,required"`
	// TitleProperty is the name of the database's title column.
	TitleProperty string `env:"TITLE_PROPERTY" envDefault:"Content"`
	// DeleteMode is informational only. Deletion is always a soft
	// archive regardless of this value.
	DeleteMode string `env:"DELETE_MODE" envDefault:"archive"`

	// Source (MongoDB-backed document store) configuration
	MongoDBURI      string `env:"MONGODB_URI,required"`
	DatabaseName    string `env:"MONGODB_DATABASE" envDefault:"notes_db"`
	NotesCollection string `env:"NOTES_COLLECTION" envDefault:"notes"`
	// OwnerUID restricts the source query to one owner when set.
	OwnerUID string `env:"OWNER_UID" envDefault:""`

	// Pacing and pagination
	RequestDelay time.Duration `env:"REQUEST_DELAY" envDefault:"220ms"`
	ScanPageSize int           `env:"SCAN_PAGE_SIZE" envDefault:"100"`

	// Mode selects between a single reconciliation run (oneshot) and
	// the long-lived HTTP surface (serve).
	Mode string `env:"SYNC_MODE" envDefault:"oneshot"`

	Redis RedisConfig
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load sync configuration from environment: " + err.Error() +
			". Please ensure all required environment variables are set.")
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}

	// The required tag only rejects unset variables; empty values are
	// still a setup error.
	if cfg.NotionToken == "" {
		return nil, errors.New("NOTION_TOKEN environment variable is not set")
	}
	if cfg.NotionDatabaseID == "" {
		return nil, errors.New("NOTION_DATABASE_ID environment variable is not set")
	}
	if cfg.MongoDBURI == "" {
		return nil, errors.New("MONGODB_URI environment variable is not set")
	}
	if cfg.Mode != ModeOneshot && cfg.Mode != ModeServe {
		return nil, errors.New("SYNC_MODE must be one of: oneshot, serve")
	}
	if cfg.TitleProperty == "" {
		cfg.TitleProperty = "Content"
	}
	if cfg.ScanPageSize <= 0 || cfg.ScanPageSize > 100 {
		cfg.ScanPageSize = 100
	}
	if cfg.RequestDelay < 0 {
		cfg.RequestDelay = 220 * time.Millisecond
	}

	return cfg, nil
}
