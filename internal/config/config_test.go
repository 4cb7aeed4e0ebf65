package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verdin/denom/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090
  api_key: "secret"
sources:
  coingecko_api_key: "cg-key"
archive:
  enabled: true
  type: "s3"
  s3:
    bucket: "denom-data"
    region: "us-east-1"
insight:
  provider: "ollama"
  ollama:
    endpoint: "http://localhost:11434"
    model: "llama3"
events:
  - date: "2008-09-15"
    label: "Lehman collapse"
    color: "#b22222"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Sources.CoinGeckoAPIKey != "cg-key" {
		t.Errorf("coingecko key = %q", cfg.Sources.CoinGeckoAPIKey)
	}
	if cfg.Archive.S3.Bucket != "denom-data" {
		t.Errorf("bucket = %q", cfg.Archive.S3.Bucket)
	}
	if cfg.Insight.Provider != "ollama" {
		t.Errorf("provider = %q", cfg.Insight.Provider)
	}
	if len(cfg.Events) != 1 || cfg.Events[0].Label != "Lehman collapse" {
		t.Errorf("events = %+v", cfg.Events)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DENOM_TEST_API_KEY", "from-env")
	path := writeConfig(t, `
server:
  api_key: "${DENOM_TEST_API_KEY}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.APIKey != "from-env" {
		t.Errorf("api_key = %q, want env expansion", cfg.Server.APIKey)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Archive.Type != "localfs" {
		t.Errorf("default archive type = %q", cfg.Archive.Type)
	}
	if len(cfg.Events) == 0 {
		t.Error("expected default historical events")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestHistoricalEvents(t *testing.T) {
	cfg := &Config{Events: []EventConfig{
		{Date: "2008-09-15", Label: "Lehman collapse", Color: "#b22222"},
		{Date: "not-a-date", Label: "bad"},
	}}

	events := cfg.HistoricalEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Label != "Lehman collapse" {
		t.Errorf("label = %q", events[0].Label)
	}
	if events[0].Date.Year() != 2008 {
		t.Errorf("date = %v", events[0].Date)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: core.ErrConfigInvalid,
		},
		{
			name:    "unknown archive type",
			mutate:  func(c *Config) { c.Archive.Type = "ftp" },
			wantErr: core.ErrConfigInvalid,
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.Archive.Type = "s3" },
			wantErr: core.ErrConfigMissing,
		},
		{
			name:    "claude without key",
			mutate:  func(c *Config) { c.Insight.Provider = "claude" },
			wantErr: core.ErrConfigMissing,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Insight.Provider = "bard" },
			wantErr: core.ErrConfigInvalid,
		},
		{
			name: "ollama with endpoint",
			mutate: func(c *Config) {
				c.Insight.Provider = "ollama"
				c.Insight.Ollama.Endpoint = "http://localhost:11434"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
