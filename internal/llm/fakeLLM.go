package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// FakeClient returns a deterministic payload for offline runs and tests.
// When Payload is set it is returned verbatim.
type FakeClient struct {
	Payload json.RawMessage
	Err     error
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Payload) > 0 {
		return f.Payload, nil
	}
	text := inputText(input)
	blocks := strings.Count(text, "--- FILE ")
	obj := map[string]any{
		"summary": fmt.Sprintf("fake refactor of %d file(s)", blocks),
		"logs": []string{
			fmt.Sprintf("read %d bytes of source", len(text)),
			"fake run complete",
		},
		"files": []any{
			map[string]any{
				"id":       "readme",
				"name":     "README.md",
				"path":     "README.md",
				"language": "markdown",
				"content":  "# Refactored project\n\nGenerated offline by " + f.Name() + ".\n",
			},
		},
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
