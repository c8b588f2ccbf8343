// Package sourcefs reads a directory tree into input files.
package sourcefs

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	ignore "github.com/sabhiram/go-gitignore"

	"refactorengine/internal/types"
)

// DefaultMaxFileSize skips files larger than this many bytes.
const DefaultMaxFileSize = 256 << 10

// Options tunes Read.
type Options struct {
	MaxFileSize int64
	// Extra are gitignore-style patterns applied on top of .gitignore.
	Extra []string
}

var alwaysSkip = []string{".git/", "node_modules/", "vendor/", "__pycache__/", ".venv/"}

var languages = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".go":    "go",
	".rs":    "rust",
	".java":  "java",
	".kt":    "kotlin",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".swift": "swift",
	".sh":    "shell",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".md":    "markdown",
}

// LanguageOf guesses a language tag from a file name.
func LanguageOf(name string) string {
	if lang, ok := languages[strings.ToLower(path.Ext(name))]; ok {
		return lang
	}
	return "plaintext"
}

// Read walks root and returns one FileRecord per text file not excluded by
// .gitignore. Paths are "/"-prefixed and relative to root; IDs are 1-based
// positions in walk order.
func Read(root string, opts Options) ([]types.FileRecord, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	rules := append([]string{}, alwaysSkip...)
	if lines, err := readIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		rules = append(rules, lines...)
	}
	rules = append(rules, opts.Extra...)
	ign := ignore.CompileIgnoreLines(rules...)

	var out []types.FileRecord
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if ign.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || ign.MatchesPath(rel) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if fi.Size() > opts.MaxFileSize {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if !isText(data) {
			return nil
		}
		out = append(out, types.FileRecord{
			ID:       fmt.Sprint(len(out) + 1),
			Name:     d.Name(),
			Language: LanguageOf(d.Name()),
			Content:  string(data),
			Path:     "/" + rel,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read sources from %s: %w", root, err)
	}
	return out, nil
}

func isText(data []byte) bool {
	return !bytes.Contains(data, []byte{0}) && utf8.Valid(data)
}

func readIgnoreFile(p string) ([]string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
