package generation

import (
	"fmt"
	"strings"

	"refactorengine/internal/types"
)

// Defaults are the fallbacks used when the model omits optional fields.
type Defaults struct {
	Summary  string
	Log      string
	Language string
}

// DefaultFallbacks is the copy used when no configuration overrides it.
var DefaultFallbacks = Defaults{
	Summary: "Đã hoàn thành tái cấu trúc và tạo file cấu hình.",
	Log:     "Hoàn tất xử lý.",
}

// Normalize converts the untyped response object into a RunResult. raw must
// carry a "files" list; everything else is optional. Content is never invented.
func Normalize(raw map[string]any, d Defaults) (types.RunResult, error) {
	filesVal, ok := raw["files"]
	if !ok || filesVal == nil {
		return types.RunResult{}, fmt.Errorf("missing \"files\" field")
	}
	list, ok := filesVal.([]any)
	if !ok {
		return types.RunResult{}, fmt.Errorf("\"files\" is %T, want a list", filesVal)
	}

	res := types.RunResult{
		Summary: stringField(raw, "summary"),
		Files:   make([]types.FileRecord, 0, len(list)),
	}
	if res.Summary == "" {
		res.Summary = d.Summary
	}
	if logs, ok := raw["logs"].([]any); ok {
		res.Logs = make([]string, 0, len(logs))
		for _, l := range logs {
			res.Logs = append(res.Logs, fmt.Sprint(l))
		}
	} else {
		res.Logs = []string{d.Log}
	}

	seen := make(map[string]bool, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return types.RunResult{}, fmt.Errorf("files[%d] is %T, want an object", i, item)
		}
		f := types.FileRecord{
			ID:       stringField(obj, "id"),
			Name:     stringField(obj, "name"),
			Path:     stringField(obj, "path"),
			Language: stringField(obj, "language"),
			Content:  stringField(obj, "content"),
			IsNew:    true,
		}
		if f.ID == "" || seen[f.ID] {
			f.ID = uniqueID(fmt.Sprintf("out_%d", i), seen)
		}
		seen[f.ID] = true
		if f.Name == "" {
			f.Name = fmt.Sprintf("file_%d", i)
		}
		if !isFilePath(f.Path) {
			f.Path = fmt.Sprintf("src/file_%d", i)
		}
		if f.Language == "" {
			f.Language = d.Language
		}
		res.Files = append(res.Files, f)
	}
	return res, nil
}

// isFilePath reports whether p names a file rather than nothing or a directory
// such as "/" or "dir/".
func isFilePath(p string) bool {
	p = strings.TrimSpace(p)
	return strings.Trim(p, "/") != "" && !strings.HasSuffix(p, "/")
}

func uniqueID(base string, seen map[string]bool) string {
	id := base
	for n := 1; seen[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
