package packaging

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"refactorengine/internal/types"
)

// CachedPackager memoizes archives by run sequence. Output files are immutable
// once a run commits them, so one archive per sequence is enough.
type CachedPackager struct {
	p     Packager
	cache *lru.Cache[int64, []byte]
}

func NewCachedPackager(p Packager, size int) (*CachedPackager, error) {
	if size <= 0 {
		size = 16
	}
	cache, err := lru.New[int64, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("init archive cache: %w", err)
	}
	return &CachedPackager{p: p, cache: cache}, nil
}

// Package returns the archive for the outputs committed by run seq.
func (c *CachedPackager) Package(seq int64, files []types.FileRecord) ([]byte, error) {
	if blob, ok := c.cache.Get(seq); ok {
		return blob, nil
	}
	blob, err := c.p.Package(files)
	if err != nil {
		return nil, err
	}
	c.cache.Add(seq, blob)
	return blob, nil
}

// Len reports the number of cached archives.
func (c *CachedPackager) Len() int { return c.cache.Len() }
