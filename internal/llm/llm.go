package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrEmptyResponse is returned when a call completed but the model produced no text.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// ErrMissingCredential is returned by NewFromConfig when the selected provider has
// no API key or endpoint configured.
var ErrMissingCredential = errors.New("llm: provider credential is not configured")

// LLMClient sends one prompt plus its input to a model and returns the raw JSON text.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}
