package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyClient records when calls reach it.
type spyClient struct {
	times []time.Time
	err   error
}

func (s *spyClient) Name() string { return "spy" }
func (s *spyClient) Close() error { return nil }
func (s *spyClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	s.times = append(s.times, time.Now())
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{}`), nil
}

type tagClient struct {
	next  LLMClient
	tag   string
	order *[]string
}

func (t *tagClient) Name() string { return t.next.Name() }
func (t *tagClient) Close() error { return t.next.Close() }
func (t *tagClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	*t.order = append(*t.order, t.tag)
	return t.next.GenerateJSON(ctx, prompt, input)
}

func tag(name string, order *[]string) Middleware {
	return func(next LLMClient) LLMClient { return &tagClient{next: next, tag: name, order: order} }
}

func TestWrap_LeftToRight(t *testing.T) {
	var order []string
	cli := Wrap(&spyClient{}, tag("a", &order), tag("b", &order))
	_, err := cli.GenerateJSON(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRateLimit_SpacesCalls(t *testing.T) {
	spy := &spyClient{}
	cli := Wrap(spy, RateLimit(20, 1))
	t.Cleanup(func() { _ = cli.Close() })

	for i := 0; i < 2; i++ {
		_, err := cli.GenerateJSON(context.Background(), "p", nil)
		require.NoError(t, err)
	}
	require.Len(t, spy.times, 2)
	assert.GreaterOrEqual(t, spy.times[1].Sub(spy.times[0]), 40*time.Millisecond)
}

func TestRateLimit_DisabledAndCanceled(t *testing.T) {
	cli := Wrap(&spyClient{}, RateLimit(0, 0))
	_, err := cli.GenerateJSON(context.Background(), "p", nil)
	require.NoError(t, err)

	limited := Wrap(&spyClient{}, RateLimit(0.001, 1))
	t.Cleanup(func() { _ = limited.Close() })
	_, err = limited.GenerateJSON(context.Background(), "p", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.GenerateJSON(ctx, "p", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithLogging_RecordsPhaseAndErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	boom := errors.New("boom")
	cli := Wrap(&spyClient{err: boom}, WithLogging(log))

	_, err := cli.GenerateJSON(WithPhase(context.Background(), "refactor"), "prompt", "files")
	require.ErrorIs(t, err, boom)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "refactor", entries[0].Data["phase"])
	assert.Equal(t, len("prompt")+len("files"), entries[0].Data["bytes"])
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, boom, entries[1].Data[logrus.ErrorKey])
}

func TestPhaseFrom_Default(t *testing.T) {
	assert.Equal(t, "unknown", PhaseFrom(context.Background()))
}

func TestInputText(t *testing.T) {
	assert.Equal(t, "", inputText(nil))
	assert.Equal(t, "raw", inputText("raw"))
	assert.Equal(t, "[INPUT JSON]\n{\n  \"a\": 1\n}", inputText(map[string]int{"a": 1}))
}

func TestResponseMIMETypeFrom(t *testing.T) {
	assert.Equal(t, JSONMIMEType, ResponseMIMETypeFrom(context.Background()))
	assert.Equal(t, JSONMIMEType, ResponseMIMETypeFrom(WithResponseMIMEType(context.Background(), "")))
	assert.Equal(t, "text/plain", ResponseMIMETypeFrom(WithResponseMIMEType(context.Background(), "text/plain")))
}
