package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/verdin/denom/internal/core"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Sources SourcesConfig `mapstructure:"sources"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Insight InsightConfig `mapstructure:"insight"`
	Events  []EventConfig `mapstructure:"events"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

// SourcesConfig overrides the upstream data source endpoints. Empty values
// fall back to each source's default URL.
type SourcesConfig struct {
	ShillerURL string `mapstructure:"shiller_url"`
	HomeURL    string `mapstructure:"home_url"`
	GoldURL    string `mapstructure:"gold_url"`
	BitcoinURL string `mapstructure:"bitcoin_url"`

	CoinGeckoAPIKey string `mapstructure:"coingecko_api_key"`
}

type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type InsightConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// EventConfig is one historical event annotation for chart overlays.
type EventConfig struct {
	Date  string `mapstructure:"date"` // YYYY-MM-DD
	Label string `mapstructure:"label"`
	Color string `mapstructure:"color"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Type:    "localfs",
		},
		Events: []EventConfig{
			{Date: "1929-10-24", Label: "1929 crash", Color: "#b22222"},
			{Date: "1971-08-15", Label: "Gold window closes", Color: "#daa520"},
			{Date: "1980-01-21", Label: "Gold peak", Color: "#daa520"},
			{Date: "1987-10-19", Label: "Black Monday", Color: "#b22222"},
			{Date: "2000-03-10", Label: "Dot-com peak", Color: "#b22222"},
			{Date: "2008-09-15", Label: "Lehman collapse", Color: "#b22222"},
			{Date: "2020-03-23", Label: "COVID bottom", Color: "#4682b4"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// HistoricalEvents parses the configured event annotations, skipping entries
// whose date does not parse.
func (c *Config) HistoricalEvents() []core.HistoricalEvent {
	out := make([]core.HistoricalEvent, 0, len(c.Events))
	for _, e := range c.Events {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		out = append(out, core.HistoricalEvent{Date: d, Label: e.Label, Color: e.Color})
	}
	return out
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	// Archive validation
	switch c.Archive.Type {
	case "", "localfs":
	case "s3":
		if c.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Archive.Type))
	}

	// Insight validation - if provider set, check config exists
	if c.Insight.Provider != "" {
		switch c.Insight.Provider {
		case "claude":
			if c.Insight.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.Insight.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.Insight.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown insight provider %q", c.Insight.Provider))
		}
	}

	return nil
}
