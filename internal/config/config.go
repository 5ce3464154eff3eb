// Package config handles loading and resolving railview configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags (--base-url, --db, --ttl, ...)
//  2. Environment variables (RAILVIEW_BASE_URL, RAILVIEW_DB_PATH)
//  3. config.toml, then config.json, in the current working directory
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigTOML = "config.toml"
	DefaultConfigJSON = "config.json"
	DefaultFormat     = "table"
	DefaultTimeout    = 30 * time.Second
	DefaultTTL        = 10 * time.Minute
	DefaultRate       = 5.0
	DefaultBaseURL    = "https://strapi-dev.trilogyapps.com"
	EnvBaseURL        = "RAILVIEW_BASE_URL"
	EnvDBPath         = "RAILVIEW_DB_PATH"
	EnvTTL            = "RAILVIEW_TTL"
)

// File is the on-disk representation of config.toml / config.json.
// Durations are strings ("30s", "10m") so both encodings stay readable.
type File struct {
	BaseURL       string  `json:"base_url"       toml:"base_url"`
	DefaultFormat string  `json:"default_format" toml:"default_format"`
	Timeout       string  `json:"timeout"        toml:"timeout"`
	TTL           string  `json:"ttl"            toml:"ttl"`
	Rate          float64 `json:"rate"           toml:"rate"`
	DBPath        string  `json:"db_path"        toml:"db_path"`
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	BaseURL    string
	Format     string
	Timeout    time.Duration
	TTL        time.Duration
	Rate       float64
	DBPath     string
	ConfigPath string // path of the config file that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	NoCache bool
	Refresh bool
	Quiet   bool
	Verbose bool
	Debug   bool
}

// Load resolves configuration from all sources. Flag-level overrides are
// applied by the caller after Load returns.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL: DefaultBaseURL,
		Format:  DefaultFormat,
		Timeout: DefaultTimeout,
		TTL:     DefaultTTL,
		Rate:    DefaultRate,
	}

	// Layer 1: config file (lowest priority)
	if f, path, err := loadFile(); err == nil {
		applyFile(cfg, f, path)
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvTTL); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TTL = d
		}
	}

	// Set default DB path if still unset
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DBPath = filepath.Join(home, ".railview", "railview.db")
		}
	}

	return cfg, nil
}

// loadFile reads config.toml, falling back to config.json, from the current
// working directory.
func loadFile() (*File, string, error) {
	for _, name := range []string{DefaultConfigTOML, DefaultConfigJSON} {
		path, err := filepath.Abs(name)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := decode(name, data)
		if err != nil {
			return nil, "", fmt.Errorf("parsing %s: %w", name, err)
		}
		return f, path, nil
	}
	return nil, "", os.ErrNotExist
}

func decode(name string, data []byte) (*File, error) {
	var f File
	if strings.HasSuffix(name, ".toml") {
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return &f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// applyFile copies values from a parsed File into cfg,
// skipping any fields that are zero/empty.
func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if f.TTL != "" {
		if d, err := time.ParseDuration(f.TTL); err == nil && d > 0 {
			cfg.TTL = d
		}
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
}

// Template returns a File populated with sensible defaults, suitable for
// writing an initial config file via `railview config init`.
func Template() File {
	return File{
		BaseURL:       DefaultBaseURL,
		DefaultFormat: DefaultFormat,
		Timeout:       "30s",
		TTL:           "10m",
		Rate:          DefaultRate,
	}
}

// WriteFile serialises a File to the given path, choosing the encoding from
// the extension (.toml writes TOML, anything else JSON).
func WriteFile(path string, f File) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".toml") {
		data, err = toml.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
