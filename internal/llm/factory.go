package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects and configures a provider.
type Options struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	OllamaHost string
	RPS        float64
	Burst      int
	Logger     logrus.FieldLogger
}

// NewFromConfig builds the provider named by opts.Provider and wraps it with
// logging and rate limiting. It returns ErrMissingCredential when the provider
// cannot be reached without further configuration.
func NewFromConfig(ctx context.Context, opts Options) (LLMClient, error) {
	var (
		base LLMClient
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "gemini":
		base, err = NewGeminiClient(ctx, opts.APIKey, opts.Model)
	case "ollama":
		base, err = NewOllamaClient(opts.OllamaHost, opts.Model)
	case "openai":
		base, err = NewOpenAIClient(opts.APIKey, opts.BaseURL, opts.Model)
	case "fake":
		base = NewFakeClient()
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	return Wrap(base, WithLogging(opts.Logger), RateLimit(opts.RPS, opts.Burst)), nil
}
