package factory

import (
	"fmt"

	"github.com/verdin/denom/internal/config"
	"github.com/verdin/denom/internal/insight"
	"github.com/verdin/denom/internal/insight/claude"
	"github.com/verdin/denom/internal/insight/ollama"
	"github.com/verdin/denom/internal/insight/openai"
)

// New creates an insight provider based on configuration.
func New(cfg config.InsightConfig) (insight.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, fmt.Errorf("unknown insight provider: %s", cfg.Provider)
	}
}
