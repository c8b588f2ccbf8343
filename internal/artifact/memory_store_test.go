package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, RunKey(3), "/b.zip", []byte("b")))
	require.NoError(t, s.Put(ctx, RunKey(3), "a.zip", []byte("a")))
	require.NoError(t, s.Put(ctx, RunKey(4), "c.zip", []byte("c")))

	got, err := s.Get(ctx, "run-3", "b.zip")
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))

	names, err := s.List(ctx, "run-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.zip", "b.zip"}, names)

	url, err := s.GetURL(ctx, "run-3", "a.zip")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "run-1", "missing.zip")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Put(ctx, "", "x", nil))
	assert.Error(t, s.Put(ctx, "run-1", " ", nil))
	_, err = s.List(ctx, "")
	assert.Error(t, err)
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.ErrorContains(t, err, "endpoint")
	_, err = NewS3Store(S3Config{Endpoint: "minio:9000"})
	assert.ErrorContains(t, err, "access key")
	_, err = NewS3Store(S3Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket")
}
