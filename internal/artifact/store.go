// Package artifact stores exported archives so they can be fetched later.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store persists exported archives grouped by run key.
type Store interface {
	Put(ctx context.Context, runKey, name string, content []byte) error
	Get(ctx context.Context, runKey, name string) ([]byte, error)
	// GetURL returns a direct download URL, or "" when the store cannot serve one.
	GetURL(ctx context.Context, runKey, name string) (string, error)
	List(ctx context.Context, runKey string) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")

// RunKey names the group of artifacts exported for run seq.
func RunKey(seq int64) string { return fmt.Sprintf("run-%d", seq) }

func objectKey(runKey, name string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(name), "/")
	return strings.TrimSpace(runKey) + "/" + normalized
}

func validate(runKey, name string) (string, string, error) {
	runKey = strings.TrimSpace(runKey)
	name = strings.TrimSpace(name)
	if runKey == "" {
		return "", "", fmt.Errorf("run key is required")
	}
	if name == "" {
		return "", "", fmt.Errorf("name is required")
	}
	return runKey, name, nil
}
