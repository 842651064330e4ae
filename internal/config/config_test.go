package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"animeid/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TRACEMOE_API_KEY", "")
	t.Setenv("ANIMEID_LOG_LEVEL", "")
	return home
}

func TestLoadDefaultConfigWithoutFile(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantPath := filepath.Join(home, ".config", "animeid", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}
	if cfg.TraceMoe.Endpoint != "https://api.trace.moe/search" {
		t.Fatalf("unexpected endpoint: %q", cfg.TraceMoe.Endpoint)
	}
	if cfg.TraceMoe.Timeout() != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.TraceMoe.Timeout())
	}
	if cfg.TraceMoe.MaxUploadBytes() != 25*1024*1024 {
		t.Fatalf("unexpected upload ceiling: %d", cfg.TraceMoe.MaxUploadBytes())
	}
	if cfg.TraceMoe.APIKey != "" {
		t.Fatalf("expected empty api key, got %q", cfg.TraceMoe.APIKey)
	}
	if cfg.Links.SearchURL != "https://kaido.to/search" || cfg.Links.QueryParam != "keyword" {
		t.Fatalf("unexpected links config: %+v", cfg.Links)
	}
	if cfg.Output.Format != "table" || cfg.Output.Color != "auto" {
		t.Fatalf("unexpected output config: %+v", cfg.Output)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "animeid.toml")

	type payload struct {
		TraceMoe struct {
			Endpoint    string `toml:"endpoint"`
			MaxUploadMB int    `toml:"max_upload_mb"`
		} `toml:"tracemoe"`
		Output struct {
			Format string `toml:"format"`
			Limit  int    `toml:"limit"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.TraceMoe.Endpoint = "http://127.0.0.1:9999/search"
	custom.TraceMoe.MaxUploadMB = 5
	custom.Output.Format = " JSON "
	custom.Output.Limit = 3
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.TraceMoe.Endpoint != "http://127.0.0.1:9999/search" {
		t.Fatalf("expected endpoint override, got %q", cfg.TraceMoe.Endpoint)
	}
	if cfg.TraceMoe.MaxUploadBytes() != 5*1024*1024 {
		t.Fatalf("expected 5 MiB ceiling, got %d", cfg.TraceMoe.MaxUploadBytes())
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("expected normalized output format, got %q", cfg.Output.Format)
	}
	if cfg.Output.Limit != 3 {
		t.Fatalf("expected limit 3, got %d", cfg.Output.Limit)
	}
	if cfg.TraceMoe.TimeoutSeconds != 30 {
		t.Fatalf("expected default timeout to survive partial file, got %d", cfg.TraceMoe.TimeoutSeconds)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	isolateEnv(t)
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "animeid.toml")
	if err := os.WriteFile(configPath, []byte("[tracemoe]\nendpoitn = \"https://x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "animeid.toml")
	contents := "[tracemoe]\napi_key = \"file-key\"\n\n[logging]\nlevel = \"error\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TRACEMOE_API_KEY", "env-key")
	t.Setenv("ANIMEID_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TraceMoe.APIKey != "env-key" {
		t.Errorf("expected api key from env, got %q", cfg.TraceMoe.APIKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "api.trace.moe") {
		t.Fatalf("sample config missing endpoint: %s", contents)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to be found")
	}
	if *cfg != config.Default() {
		t.Fatalf("expected sample to match defaults, got %+v", *cfg)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"endpoint scheme", func(c *config.Config) { c.TraceMoe.Endpoint = "ftp://api.trace.moe/search" }},
		{"endpoint host", func(c *config.Config) { c.TraceMoe.Endpoint = "https:///search" }},
		{"negative timeout", func(c *config.Config) { c.TraceMoe.TimeoutSeconds = -1 }},
		{"negative upload", func(c *config.Config) { c.TraceMoe.MaxUploadMB = -5 }},
		{"oversized upload", func(c *config.Config) { c.TraceMoe.MaxUploadMB = config.MaxUploadMBLimit + 1 }},
		{"overflowing upload", func(c *config.Config) { c.TraceMoe.MaxUploadMB = 1 << 50 }},
		{"negative pacing", func(c *config.Config) { c.TraceMoe.RequestsPerMinute = -1 }},
		{"search url", func(c *config.Config) { c.Links.SearchURL = "kaido.to" }},
		{"output format", func(c *config.Config) { c.Output.Format = "yaml" }},
		{"output color", func(c *config.Config) { c.Output.Color = "sometimes" }},
		{"output limit", func(c *config.Config) { c.Output.Limit = -1 }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.TraceMoe.MaxUploadMB = config.MaxUploadMBLimit
	if err := cfg.Validate(); err != nil {
		t.Fatalf("upload limit at the cap should validate: %v", err)
	}
	if cfg.TraceMoe.MaxUploadBytes() <= 0 {
		t.Fatalf("byte ceiling must stay positive, got %d", cfg.TraceMoe.MaxUploadBytes())
	}
}
