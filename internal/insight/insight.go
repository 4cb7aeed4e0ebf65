// Package insight produces short LLM-written commentary on the current
// valuation snapshot. It is strictly additive: nothing in valuation or stats
// depends on it, and a missing or failing provider degrades to an error the
// caller can surface.
package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/metrics"
	"github.com/verdin/denom/internal/stats"
	"go.uber.org/zap"
)

// Provider defines the interface for LLM providers
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest holds the request parameters
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// Message represents a chat message
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ChatResponse holds the response from the LLM
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
}

const systemPrompt = `You are a market historian writing a brief, neutral note
on long-run stock market valuation. You are given the current CAPE ratio, the
gold price, the CAPE-to-gold ratio, and where that ratio sits in its full
historical distribution. Write two or three sentences of plain commentary.
Do not give investment advice. Do not predict future prices.`

// Commentary is a generated note with its provenance.
type Commentary struct {
	Text        string    `json:"text"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generator turns a statistics snapshot into commentary via the configured
// provider.
type Generator struct {
	provider Provider
	logger   *zap.Logger
	metrics  *metrics.Registry
}

// NewGenerator creates a generator. provider may be nil when insight is not
// configured; logger and m may be nil.
func NewGenerator(p Provider, logger *zap.Logger, m *metrics.Registry) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{provider: p, logger: logger, metrics: m}
}

// Enabled reports whether a provider is configured.
func (g *Generator) Enabled() bool { return g.provider != nil }

// Generate produces commentary for the snapshot.
func (g *Generator) Generate(ctx context.Context, snap stats.Snapshot) (*Commentary, error) {
	if g.provider == nil {
		return nil, core.ErrInsightDisabled
	}

	resp, err := g.provider.Chat(ctx, ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     []Message{{Role: "user", Content: buildPrompt(snap)}},
		MaxTokens:    512,
		Temperature:  0.4,
	})
	if g.metrics != nil {
		g.metrics.RecordInsight(g.provider.Name(), insightStatus(err))
	}
	if err != nil {
		return nil, core.WrapError(core.ErrInsightFailed, err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return nil, core.WrapError(core.ErrInsightFailed,
			fmt.Errorf("%s returned an empty response", g.provider.Name()))
	}

	g.logger.Info("insight generated",
		zap.String("provider", g.provider.Name()),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)

	return &Commentary{
		Text:        text,
		Provider:    g.provider.Name(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func buildPrompt(snap stats.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current CAPE ratio: %.2f\n", snap.CurrentCAPE)
	fmt.Fprintf(&b, "Current gold price (USD/oz): %.2f\n", snap.CurrentGold)
	fmt.Fprintf(&b, "Current CAPE/gold ratio: %.6f\n", snap.CurrentRatio)
	fmt.Fprintf(&b, "Historical percentile of that ratio: %.1f%% (of %d monthly readings)\n",
		snap.Percentile, snap.RatioCount)
	b.WriteString("Write the commentary now.")
	return b.String()
}

func insightStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
