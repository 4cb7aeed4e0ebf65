package openai

import (
	"testing"

	"github.com/verdin/denom/internal/insight"
)

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ insight.Provider = (*Provider)(nil)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New("", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNew_DefaultModel(t *testing.T) {
	p, err := New("test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.model != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", p.model)
	}
}
