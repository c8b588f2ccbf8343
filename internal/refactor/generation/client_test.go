package generation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refactorengine/internal/llm"
	"refactorengine/internal/refactor/prompt"
	"refactorengine/internal/types"
)

type scriptedLLM struct {
	raw     string
	err     error
	calls   int
	gotIn   any
	gotMIME string
	block   bool
}

func (s *scriptedLLM) Name() string { return "scripted" }
func (s *scriptedLLM) Close() error { return nil }
func (s *scriptedLLM) GenerateJSON(ctx context.Context, p string, input any) (json.RawMessage, error) {
	s.calls++
	s.gotIn = input
	s.gotMIME = llm.ResponseMIMETypeFrom(ctx)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.raw), nil
}

func request() prompt.Request {
	return prompt.Build(types.DemoFiles(), types.RefactorConfiguration{TargetLanguage: "go"})
}

func TestInvoke_NoClientIsConfigurationError(t *testing.T) {
	_, err := New(nil).Invoke(context.Background(), request())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, KindConfiguration, KindOf(err))
}

func TestInvoke_MissingCredentialMakesNoCall(t *testing.T) {
	cli, err := llm.NewFromConfig(context.Background(), llm.Options{Provider: "gemini"})
	require.ErrorIs(t, err, llm.ErrMissingCredential)
	require.Nil(t, cli)

	_, err = New(cli).Invoke(context.Background(), request())
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestInvoke_TransportError(t *testing.T) {
	s := &scriptedLLM{err: errors.New("connection refused")}
	_, err := New(s).Invoke(context.Background(), request())
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1, s.calls)

	var gErr *Error
	require.True(t, errors.As(err, &gErr))
	assert.True(t, gErr.Retryable())
	assert.Contains(t, err.Error(), "connection refused")
}

func TestInvoke_TimeoutIsTransportError(t *testing.T) {
	s := &scriptedLLM{block: true}
	_, err := New(s, WithTimeout(10*time.Millisecond)).Invoke(context.Background(), request())
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInvoke_EmptyResponse(t *testing.T) {
	for _, s := range []*scriptedLLM{{raw: "  "}, {err: llm.ErrEmptyResponse}} {
		_, err := New(s).Invoke(context.Background(), request())
		assert.ErrorIs(t, err, ErrEmptyResponse)
		assert.Equal(t, 1, s.calls)
	}
}

func TestInvoke_Malformed(t *testing.T) {
	cases := map[string]string{
		"prose":          "Sure! Here is your code.",
		"missing files":  `{"summary":"done","logs":[]}`,
		"files not list": `{"files":"a.py"}`,
		"null":           `null`,
		"array":          `[{"content":"x"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(&scriptedLLM{raw: raw}).Invoke(context.Background(), request())
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.False(t, errors.Is(err, ErrTransport))
		})
	}
}

func TestInvoke_EmptyFilesIsValid(t *testing.T) {
	res, err := New(&scriptedLLM{raw: `{"files":[]}`}).Invoke(context.Background(), request())
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Equal(t, DefaultFallbacks.Summary, res.Summary)
	assert.Equal(t, []string{DefaultFallbacks.Log}, res.Logs)
}

func TestInvoke_SendsFileBlock(t *testing.T) {
	s := &scriptedLLM{raw: `{"files":[]}`}
	req := request()
	_, err := New(s).Invoke(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.Files, s.gotIn)
}

func TestInvoke_ConfigurableDefaults(t *testing.T) {
	d := Defaults{Summary: "done", Log: "ok", Language: "plaintext"}
	res, err := New(&scriptedLLM{raw: `{"files":[{"content":"x"}]}`}, WithDefaults(d)).Invoke(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "done", res.Summary)
	assert.Equal(t, []string{"ok"}, res.Logs)
	assert.Equal(t, "plaintext", res.Files[0].Language)
}

func TestInvoke_StringWrappedPayload(t *testing.T) {
	res, err := New(&scriptedLLM{raw: `"{\"summary\":\"s\",\"files\":[]}"`}).Invoke(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "s", res.Summary)
}

func TestInvoke_EmptyDefaultsKeepBuiltins(t *testing.T) {
	res, err := New(&scriptedLLM{raw: `{"files":[]}`}, WithDefaults(Defaults{})).Invoke(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, DefaultFallbacks.Summary, res.Summary)
	assert.Equal(t, []string{DefaultFallbacks.Log}, res.Logs)
}

func TestInvoke_RequestsResponseMIMEType(t *testing.T) {
	cli := &scriptedLLM{raw: `{"files":[]}`}
	req := request()
	_, err := New(cli).Invoke(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "application/json", cli.gotMIME)

	req.ResponseMIMEType = "text/x.custom"
	_, err = New(cli).Invoke(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "text/x.custom", cli.gotMIME)
}
