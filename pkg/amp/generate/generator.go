// Package generate abstracts the text-generation backend behind a small
// interface. Two providers are supported: the Anthropic Messages API and
// OpenAI-compatible chat completions. Agents depend only on Generator, so
// tests swap in a stub.
package generate

import (
	"context"
	"fmt"

	"github.com/newmusiclives/truefans-amp-magazine/pkg/amp/config"
)

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Result is one completed generation.
type Result struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}

// Generator produces text from a prompt. Implementations handle protocol
// details: authentication, request shape, response parsing.
type Generator interface {
	// Generate sends a single-turn prompt and returns the completed text.
	// A systemPrompt of "" omits the system turn. maxTokens <= 0 falls back
	// to the configured default.
	Generate(ctx context.Context, systemPrompt, prompt string, maxTokens int) (*Result, error)
}

// New builds the provider selected by the AI configuration.
func New(cfg config.AIConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropic(cfg), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
