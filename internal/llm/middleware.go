package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (rate limiting, logging, etc.).
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit limits request rate using rpsLimiter.
// If rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next LLMClient) LLMClient {
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next LLMClient
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateJSON(ctx, prompt, input)
}

// -------- Logging --------

// WithLogging logs request size, latency and errors. A nil logger uses the
// logrus standard logger.
func WithLogging(logger logrus.FieldLogger) Middleware {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(next LLMClient) LLMClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next LLMClient
	log  logrus.FieldLogger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	entry := l.log.WithFields(logrus.Fields{
		"client": l.next.Name(),
		"phase":  PhaseFrom(ctx),
	})
	entry.WithField("bytes", len(prompt)+len(inputText(input))).Info("LLM request")
	start := time.Now()
	raw, err := l.next.GenerateJSON(ctx, prompt, input)
	entry = entry.WithField("elapsed", time.Since(start).Round(time.Millisecond))
	if err != nil {
		entry.WithError(err).Warn("LLM error")
		return raw, err
	}
	entry.WithField("response_bytes", len(raw)).Info("LLM response")
	return raw, nil
}
