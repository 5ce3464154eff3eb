package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/MurthyAvanithsa/railview/internal/config"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// chtemp changes the working directory to dir for the duration of the test so
// config.Load() looks for config files there.
func chtemp(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// writeJSONConfig writes a config.json into dir and chdirs there.
func writeJSONConfig(t *testing.T, dir string, f config.File) {
	t.Helper()
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), append(data, '\n'), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chtemp(t, dir)
}

// writeTOMLConfig writes a config.toml into dir and chdirs there.
func writeTOMLConfig(t *testing.T, dir string, f config.File) {
	t.Helper()
	data, err := toml.Marshal(f)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chtemp(t, dir)
}

// clearEnv unsets the RAILVIEW_* variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvDBPath, "")
	t.Setenv(config.EnvTTL, "")
}

// ─── Defaults ─────────────────────────────────────────────────────────────────

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chtemp(t, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Format != config.DefaultFormat {
		t.Errorf("Format: expected %q, got %q", config.DefaultFormat, cfg.Format)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("Timeout: expected %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
	if cfg.TTL != config.DefaultTTL {
		t.Errorf("TTL: expected %v, got %v", config.DefaultTTL, cfg.TTL)
	}
	if cfg.Rate != config.DefaultRate {
		t.Errorf("Rate: expected %g, got %g", config.DefaultRate, cfg.Rate)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL: expected %q, got %q", config.DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath should have a default (home dir based) value")
	}
}

// ─── Config file loading ──────────────────────────────────────────────────────

func TestLoadFromJSONFile(t *testing.T) {
	clearEnv(t)
	writeJSONConfig(t, t.TempDir(), config.File{
		BaseURL:       "https://cms.example.com",
		DefaultFormat: "json",
		Timeout:       "60s",
		TTL:           "5m",
		Rate:          2.5,
		DBPath:        "/tmp/test.db",
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "https://cms.example.com" {
		t.Errorf("BaseURL: expected custom URL, got %q", cfg.BaseURL)
	}
	if cfg.Format != "json" {
		t.Errorf("Format: expected json, got %q", cfg.Format)
	}
	if cfg.Timeout.String() != "1m0s" {
		t.Errorf("Timeout: expected 1m0s, got %q", cfg.Timeout.String())
	}
	if cfg.TTL.String() != "5m0s" {
		t.Errorf("TTL: expected 5m0s, got %q", cfg.TTL.String())
	}
	if cfg.Rate != 2.5 {
		t.Errorf("Rate: expected 2.5, got %g", cfg.Rate)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath: expected /tmp/test.db, got %q", cfg.DBPath)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	clearEnv(t)
	writeTOMLConfig(t, t.TempDir(), config.File{
		BaseURL: "https://toml.example.com",
		TTL:     "15m",
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://toml.example.com" {
		t.Errorf("BaseURL: expected toml URL, got %q", cfg.BaseURL)
	}
	if cfg.TTL.String() != "15m0s" {
		t.Errorf("TTL: expected 15m0s, got %q", cfg.TTL.String())
	}
}

func TestLoadTOMLPreferredOverJSON(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	writeJSONConfig(t, dir, config.File{BaseURL: "https://json.example.com"})
	writeTOMLConfig(t, dir, config.File{BaseURL: "https://toml.example.com"})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://toml.example.com" {
		t.Errorf("config.toml should win over config.json, got %q", cfg.BaseURL)
	}
}

func TestLoadConfigPathRecorded(t *testing.T) {
	clearEnv(t)
	writeJSONConfig(t, t.TempDir(), config.File{BaseURL: "https://x.example.com"})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigPath == "" {
		t.Error("ConfigPath should be set when a config file is found")
	}
	if !strings.Contains(cfg.ConfigPath, "config.json") {
		t.Errorf("ConfigPath should contain config.json, got %q", cfg.ConfigPath)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	clearEnv(t)
	chtemp(t, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load without a config file should not error: %v", err)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath should be empty when no file found, got %q", cfg.ConfigPath)
	}
}

func TestLoadInvalidDurationsIgnored(t *testing.T) {
	// Invalid duration strings in the file should be ignored, not error
	clearEnv(t)
	writeJSONConfig(t, t.TempDir(), config.File{
		Timeout: "not-a-duration",
		TTL:     "-5m",
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("invalid timeout should use default %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
	if cfg.TTL != config.DefaultTTL {
		t.Errorf("non-positive ttl should use default %v, got %v", config.DefaultTTL, cfg.TTL)
	}
}

// ─── Environment variable priority ───────────────────────────────────────────

func TestLoadEnvBaseURLOverridesFile(t *testing.T) {
	writeJSONConfig(t, t.TempDir(), config.File{BaseURL: "https://file.example.com"})
	t.Setenv(config.EnvBaseURL, "https://env.example.com")
	t.Setenv(config.EnvDBPath, "")
	t.Setenv(config.EnvTTL, "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Errorf("env RAILVIEW_BASE_URL should override file: got %q", cfg.BaseURL)
	}
}

func TestLoadEnvDBPath(t *testing.T) {
	clearEnv(t)
	chtemp(t, t.TempDir())
	t.Setenv(config.EnvDBPath, "/custom/path/railview.db")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/custom/path/railview.db" {
		t.Errorf("RAILVIEW_DB_PATH: expected /custom/path/railview.db, got %q", cfg.DBPath)
	}
}

func TestLoadEnvTTL(t *testing.T) {
	clearEnv(t)
	chtemp(t, t.TempDir())
	t.Setenv(config.EnvTTL, "2m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TTL.String() != "2m0s" {
		t.Errorf("RAILVIEW_TTL: expected 2m0s, got %q", cfg.TTL)
	}
}

// ─── WriteFile / Template ─────────────────────────────────────────────────────

func TestWriteFileJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	f := config.File{
		BaseURL:       "https://api.example.com",
		DefaultFormat: "csv",
		Timeout:       "45s",
		TTL:           "20m",
		Rate:          3.0,
		DBPath:        "/data/railview.db",
	}

	if err := config.WriteFile(path, f); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got config.File
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if got != f {
		t.Errorf("round trip mismatch: expected %+v, got %+v", f, got)
	}
}

func TestWriteFileTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	f := config.Template()
	if err := config.WriteFile(path, f); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got config.File
	if err := toml.Unmarshal(data, &got); err != nil {
		t.Fatalf("toml.Unmarshal: %v", err)
	}
	if got != f {
		t.Errorf("round trip mismatch: expected %+v, got %+v", f, got)
	}
}

func TestWriteFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if err := config.WriteFile(path, config.File{BaseURL: "https://x"}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	// Should be 0600 — owner read/write only
	if info.Mode().Perm() != 0600 {
		t.Errorf("file permissions: expected 0600, got %04o", info.Mode().Perm())
	}
}

func TestTemplateDefaults(t *testing.T) {
	tmpl := config.Template()

	if tmpl.DefaultFormat != "table" {
		t.Errorf("Template.DefaultFormat: expected table, got %q", tmpl.DefaultFormat)
	}
	if tmpl.Timeout != "30s" {
		t.Errorf("Template.Timeout: expected 30s, got %q", tmpl.Timeout)
	}
	if tmpl.TTL != "10m" {
		t.Errorf("Template.TTL: expected 10m, got %q", tmpl.TTL)
	}
	if tmpl.Rate != config.DefaultRate {
		t.Errorf("Template.Rate: expected %g, got %g", config.DefaultRate, tmpl.Rate)
	}
	if !strings.HasPrefix(tmpl.BaseURL, "https://") {
		t.Errorf("Template.BaseURL should be an https URL, got %q", tmpl.BaseURL)
	}
}
