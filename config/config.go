// Package config loads article-manager settings from defaults, an optional
// .env file, an optional YAML file and ARTICLES_* environment variables, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/TzzJokerzzT/article-manager/model"
)

// EnvPrefix marks the environment variables that override config keys.
// ARTICLES_STORAGE_PATH sets storage.path.
const EnvPrefix = "ARTICLES_"

// Config is the full set of article-manager settings.
type Config struct {
	Storage StorageConfig `koanf:"storage"`
	Seed    SeedConfig    `koanf:"seed"`
	User    UserConfig    `koanf:"user"`
	Catalog CatalogConfig `koanf:"catalog"`
	Log     LogConfig     `koanf:"log"`
	Page    PageConfig    `koanf:"page"`
}

// StorageConfig locates the SQLite database holding the slots.
type StorageConfig struct {
	Path string `koanf:"path"`
}

// SeedConfig controls sample data for a fresh store.
type SeedConfig struct {
	// Enabled generates sample articles when the store has never been written.
	Enabled bool `koanf:"enabled"`
}

// UserConfig names the user favorites and ratings belong to when none is given.
type UserConfig struct {
	Default string `koanf:"default"`
}

// CatalogConfig points at an optional category catalog file.
type CatalogConfig struct {
	// Path to a YAML category list. Empty means the built-in catalog.
	Path string `koanf:"path"`
}

// LogConfig sets the level and output format of the logger.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
}

// PageConfig sets the default page size of list results.
type PageConfig struct {
	Limit int `koanf:"limit"`
}

// DefaultStoragePath returns ~/.config/article-manager/articles.db, or a file
// in the working directory when there is no home directory.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "articles.db"
	}
	return filepath.Join(home, ".config", "article-manager", "articles.db")
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Path: DefaultStoragePath()},
		Seed:    SeedConfig{Enabled: true},
		User:    UserConfig{Default: "user-1"},
		Log:     LogConfig{Level: "info", Format: "console"},
		Page:    PageConfig{Limit: model.DefaultLimit},
	}
}

// Load builds a Config. envFile and configFile are optional; a missing .env
// file is ignored, a missing config file given explicitly is an error.
func Load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	conf := Default()
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate rejects settings the stores cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return &model.ValidationError{Field: "storage.path", Message: "is required"}
	}
	if strings.TrimSpace(c.User.Default) == "" {
		return &model.ValidationError{Field: "user.default", Message: "is required"}
	}
	if c.Page.Limit < 1 || c.Page.Limit > model.MaxLimit {
		return &model.ValidationError{Field: "page.limit", Message: fmt.Sprintf("must be between 1 and %d", model.MaxLimit)}
	}
	return nil
}
