// Package config loads and saves mealbook's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/mealbook/internal/model"
)

// Backend modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Server store kinds.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config holds all mealbook configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Meals      MealsConfig      `toml:"meals"`
	Backend    BackendConfig    `toml:"backend"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	User        string `toml:"user,omitempty"`
	DefaultDays int    `toml:"default_days"`
	WeekStart   string `toml:"week_start"`
}

// MealsConfig holds the per-meal price and the budget for a ledger view.
type MealsConfig struct {
	Price    float64 `toml:"price"`
	Budget   float64 `toml:"budget"`
	Currency string  `toml:"currency"`
}

// BackendConfig selects where the CLI reads and writes ledger rows.
type BackendConfig struct {
	Mode   string `toml:"mode"`
	DBPath string `toml:"db_path,omitempty"`
	URL    string `toml:"url,omitempty"`
	Token  string `toml:"token,omitempty"`
}

// ServerConfig configures `mealbook serve`.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	Store          string `toml:"store"`
	MongoURI       string `toml:"mongo_uri,omitempty"`
	MongoDatabase  string `toml:"mongo_database,omitempty"`
	JWTSecret      string `toml:"jwt_secret,omitempty"`
	RequestsPerMin int    `toml:"requests_per_min"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 0,
			WeekStart:   "monday",
		},
		Meals: MealsConfig{
			Price:    40,
			Budget:   1000,
			Currency: "$",
		},
		Backend: BackendConfig{
			Mode: ModeLocal,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8740",
			Store:          StoreSQLite,
			MongoDatabase:  "mealbook",
			RequestsPerMin: 120,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

var pathOverride string

// SetPath makes Load and Save use p instead of the XDG location.
func SetPath(p string) {
	pathOverride = p
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mealbook")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mealbook")
}

// DataDir returns the XDG-compliant data directory holding the local ledger.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mealbook")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mealbook")
}

// Path returns the full path to the config file.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	if p := os.Getenv("MEALBOOK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Validate reports settings that would make the CLI or server unusable.
func (c Config) Validate() error {
	var errs []error
	if c.Meals.Price < 0 {
		errs = append(errs, errors.New("meals.price must not be negative"))
	}
	switch c.Backend.Mode {
	case ModeLocal:
	case ModeRemote:
		if c.Backend.URL == "" {
			errs = append(errs, errors.New("backend.url is required in remote mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend.mode %q: want %s or %s", c.Backend.Mode, ModeLocal, ModeRemote))
	}
	switch c.Server.Store {
	case StoreSQLite, StoreMongo:
	default:
		errs = append(errs, fmt.Errorf("server.store %q: want %s or %s", c.Server.Store, StoreSQLite, StoreMongo))
	}
	if c.General.DefaultDays < 0 || c.General.DefaultDays > model.MaxRangeDays {
		errs = append(errs, fmt.Errorf("general.default_days %d: want 0..%d", c.General.DefaultDays, model.MaxRangeDays))
	}
	switch strings.ToLower(c.General.WeekStart) {
	case "", "monday", "sunday":
	default:
		errs = append(errs, fmt.Errorf("general.week_start %q: want monday or sunday", c.General.WeekStart))
	}
	return errors.Join(errs...)
}

// GetUser returns the local ledger owner from env var or config, in that order.
func GetUser(cfg Config) string {
	if u := os.Getenv("MEALBOOK_USER"); u != "" {
		return u
	}
	if cfg.General.User != "" {
		return cfg.General.User
	}
	return os.Getenv("USER")
}

// GetToken returns the remote backend bearer token from env var or config.
func GetToken(cfg Config) string {
	if t := os.Getenv("MEALBOOK_TOKEN"); t != "" {
		return t
	}
	return cfg.Backend.Token
}

// GetJWTSecret returns the server signing secret from env var or config.
func GetJWTSecret(cfg Config) string {
	if s := os.Getenv("MEALBOOK_JWT_SECRET"); s != "" {
		return s
	}
	return cfg.Server.JWTSecret
}

// DBPath returns the local SQLite ledger path, defaulting under DataDir.
func DBPath(cfg Config) string {
	if cfg.Backend.DBPath != "" {
		return cfg.Backend.DBPath
	}
	return filepath.Join(DataDir(), "ledger.db")
}
