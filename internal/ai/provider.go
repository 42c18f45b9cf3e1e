package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/mentoro/internal/config"
)

// Provider turns a prompt into free text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

var ErrEmptyResponse = errors.New("ai: empty response")

// NewProvider builds the provider named by cfg.Provider. "none" yields a nil
// Provider, which the Generator treats as always failing.
func NewProvider(ctx context.Context, cfg config.AIConfig, hc *http.Client) (Provider, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "gemini":
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAI(OpenAIOptions{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout.Duration,
			MaxRetries: 1,
			HTTPClient: hc,
		})
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
