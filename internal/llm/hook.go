package llm

import "context"

type ctxKeyPhase struct{}

// WithPhase tags the context with the pipeline phase used in log lines.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase string stored in the context.
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

type ctxKeyMIME struct{}

// JSONMIMEType is the response type requested when none is set.
const JSONMIMEType = "application/json"

// WithResponseMIMEType sets the response type a provider should request.
func WithResponseMIMEType(ctx context.Context, mime string) context.Context {
	return context.WithValue(ctx, ctxKeyMIME{}, mime)
}

// ResponseMIMETypeFrom returns the requested response type, JSON by default.
func ResponseMIMETypeFrom(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyMIME{}).(string); ok && s != "" {
		return s
	}
	return JSONMIMEType
}
