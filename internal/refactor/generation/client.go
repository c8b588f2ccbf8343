// Package generation issues the single call to the generation endpoint and
// turns its answer into a RunResult or a typed Error.
package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"refactorengine/internal/llm"
	"refactorengine/internal/refactor/prompt"
	"refactorengine/internal/types"
	"refactorengine/internal/util/jsonutil"
)

// Invoker is the generation boundary the run controller depends on.
type Invoker interface {
	Invoke(ctx context.Context, req prompt.Request) (types.RunResult, error)
}

// Phase tags LLM log lines emitted by refactor runs.
const Phase = "refactor"

// Client implements Invoker on top of an LLMClient. A nil LLMClient means the
// endpoint is not configured.
type Client struct {
	llm      llm.LLMClient
	defaults Defaults
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDefaults overrides the normalization fallbacks. Empty fields keep the
// built-in copy.
func WithDefaults(d Defaults) Option {
	return func(c *Client) {
		if d.Summary != "" {
			c.defaults.Summary = d.Summary
		}
		if d.Log != "" {
			c.defaults.Log = d.Log
		}
		if d.Language != "" {
			c.defaults.Language = d.Language
		}
	}
}

// WithTimeout bounds each call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(cli llm.LLMClient, opts ...Option) *Client {
	c := &Client{llm: cli, defaults: DefaultFallbacks}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Invoke performs exactly one call and never retries.
func (c *Client) Invoke(ctx context.Context, req prompt.Request) (types.RunResult, error) {
	if c == nil || c.llm == nil {
		return types.RunResult{}, newError(KindConfiguration, nil)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx = llm.WithResponseMIMEType(llm.WithPhase(ctx, Phase), req.ResponseMIMEType)
	raw, err := c.llm.GenerateJSON(ctx, req.Instruction, req.Files)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrEmptyResponse):
			return types.RunResult{}, newError(KindEmptyResponse, nil)
		case errors.Is(err, llm.ErrMissingCredential):
			return types.RunResult{}, newError(KindConfiguration, err)
		default:
			return types.RunResult{}, newError(KindTransport, err)
		}
	}
	if strings.TrimSpace(string(raw)) == "" {
		return types.RunResult{}, newError(KindEmptyResponse, nil)
	}

	var obj map[string]any
	if err := jsonutil.UnmarshalFlex(raw, &obj); err != nil {
		return types.RunResult{}, newError(KindMalformedResponse, err)
	}
	if obj == nil {
		return types.RunResult{}, newError(KindMalformedResponse, errors.New("response is not a JSON object"))
	}

	d := c.defaults
	if d.Language == "" {
		d.Language = req.TargetLanguage
	}
	res, err := Normalize(obj, d)
	if err != nil {
		return types.RunResult{}, newError(KindMalformedResponse, err)
	}
	return res, nil
}
