// Package packaging flattens output files into one zip archive.
package packaging

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"refactorengine/internal/types"
)

const (
	// DefaultRoot is the single top-level directory of every archive.
	DefaultRoot = "refactored_project"
	// DefaultPrefix is the download file name prefix.
	DefaultPrefix = "refactored_project"
)

var (
	// ErrEmptyPackage is returned instead of producing a zero-entry archive.
	ErrEmptyPackage = errors.New("packaging: no files to package")
	// ErrInvalidPath is returned for a file whose path names a directory.
	ErrInvalidPath = errors.New("packaging: path does not name a file")
)

// Packager writes archives under Root.
type Packager struct {
	Root string
	// Now stamps entry modification times; defaults to time.Now.
	Now func() time.Time
}

// Package zips files under DefaultRoot.
func Package(files []types.FileRecord) ([]byte, error) {
	return Packager{}.Package(files)
}

// EntryPath returns root joined with p, with one leading "/" stripped from p.
// ".." segments are dropped so no entry escapes root.
func EntryPath(root, p string) string {
	p = strings.TrimPrefix(p, "/")
	if strings.Contains(p, "..") {
		segs := strings.Split(p, "/")
		kept := segs[:0]
		for _, s := range segs {
			if s != ".." {
				kept = append(kept, s)
			}
		}
		p = strings.Join(kept, "/")
	}
	if root == "" {
		return p
	}
	return strings.TrimSuffix(root, "/") + "/" + p
}

// ArchiveName returns the download file name for an archive built at now.
func ArchiveName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%d.zip", prefix, now.UnixMilli())
}

// Package writes one entry per distinct entry path. When two files map to the
// same entry the later file's content wins and the entry keeps the earlier
// position. Content is written byte for byte.
func (p Packager) Package(files []types.FileRecord) ([]byte, error) {
	if len(files) == 0 {
		return nil, ErrEmptyPackage
	}
	root := p.Root
	if root == "" {
		root = DefaultRoot
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	order := make([]string, 0, len(files))
	content := make(map[string]string, len(files))
	for _, f := range files {
		name := EntryPath(root, f.Path)
		if strings.Trim(strings.TrimPrefix(name, root), "/") == "" || strings.HasSuffix(name, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, f.Path)
		}
		if _, ok := content[name]; !ok {
			order = append(order, name)
		}
		content[name] = f.Content
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	mod := now()
	for _, name := range order {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: mod,
		})
		if err != nil {
			return nil, fmt.Errorf("create entry %s: %w", name, err)
		}
		if _, err := w.Write([]byte(content[name])); err != nil {
			return nil, fmt.Errorf("write entry %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}
