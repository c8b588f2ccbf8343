package generation

import (
	"errors"
	"fmt"
)

// Kind classifies why a generation call failed.
type Kind int

const (
	// KindConfiguration: no credential or endpoint configured. Not retried.
	KindConfiguration Kind = iota + 1
	// KindTransport: the call did not complete. Caller-level retry is reasonable.
	KindTransport
	// KindEmptyResponse: the call completed without a textual payload.
	KindEmptyResponse
	// KindMalformedResponse: the payload is not the expected JSON shape.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindEmptyResponse:
		return "empty_response"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrConfiguration     = errors.New("generation: endpoint credential is not configured")
	ErrTransport         = errors.New("generation: call to the generation endpoint failed")
	ErrEmptyResponse     = errors.New("generation: no response from the model")
	ErrMalformedResponse = errors.New("generation: response is not in the expected format")
)

// Error is the typed failure returned by Invoke.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool { return target == e.sentinel() }

// Retryable reports whether re-issuing the same request may succeed.
func (e *Error) Retryable() bool { return e.Kind == KindTransport }

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindConfiguration:
		return ErrConfiguration
	case KindTransport:
		return ErrTransport
	case KindEmptyResponse:
		return ErrEmptyResponse
	default:
		return ErrMalformedResponse
	}
}

func newError(kind Kind, err error) *Error { return &Error{Kind: kind, Err: err} }

// KindOf extracts the kind of err, or 0 when err is not a generation error.
func KindOf(err error) Kind {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr.Kind
	}
	return 0
}
