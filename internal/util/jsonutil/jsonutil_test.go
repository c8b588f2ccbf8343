package jsonutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalFlex_Direct(t *testing.T) {
	var out map[string]any
	require.NoError(t, UnmarshalFlex([]byte(` {"a":1} `), &out))
	assert.Equal(t, float64(1), out["a"])
}

func TestUnmarshalFlex_StringWrapped(t *testing.T) {
	var out map[string]any
	require.NoError(t, UnmarshalFlex([]byte(`"{\"files\":[]}"`), &out))
	assert.Contains(t, out, "files")
}

func TestUnmarshalFlex_KeepsEscapesInValues(t *testing.T) {
	var out map[string]string
	require.NoError(t, UnmarshalFlex([]byte(`{"content":"print(\"\\u00e9\")"}`), &out))
	assert.Equal(t, `print("\u00e9")`, out["content"])
}

func TestUnmarshalFlex_Garbage(t *testing.T) {
	var out map[string]any
	err := UnmarshalFlex([]byte("here is your code: ```json"), &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotJSON))
}

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"c": "a < b && c > d"})
	require.NoError(t, err)
	assert.Equal(t, `{"c":"a < b && c > d"}`, string(b))
}
