package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

const DefaultOllamaModel = "llama3.1"

// OllamaClient talks to an Ollama server and asks for JSON-formatted output.
type OllamaClient struct {
	cli   *ollama.Client
	host  string
	model string
}

func NewOllamaClient(host, model string) (*OllamaClient, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, ErrMissingCredential
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaClient{cli: ollama.NewClient(u, http.DefaultClient), host: host, model: model}, nil
}

func (o *OllamaClient) Name() string { return "Ollama:" + o.model }
func (o *OllamaClient) Close() error { return nil }

func (o *OllamaClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	stream := false
	req := &ollama.GenerateRequest{
		Model:  o.model,
		System: prompt,
		Prompt: inputText(input),
		Stream: &stream,
	}
	if ResponseMIMETypeFrom(ctx) == JSONMIMEType {
		req.Format = json.RawMessage(`"json"`)
	}
	var out strings.Builder
	err := o.cli.Generate(ctx, req, func(res ollama.GenerateResponse) error {
		out.WriteString(res.Response)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama generate failed: %w", err)
	}
	txt := strings.TrimSpace(out.String())
	if txt == "" {
		return nil, ErrEmptyResponse
	}
	return json.RawMessage(txt), nil
}
