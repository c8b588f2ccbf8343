// Package diffview compares an output file against the input it came from.
package diffview

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"refactorengine/internal/types"
)

// Op is the kind of a diff hunk.
type Op string

const (
	OpEqual  Op = "equal"
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// Hunk is a run of lines with the same Op.
type Hunk struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Result is a line diff between two texts.
type Result struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
	Hunks   []Hunk `json:"hunks"`
}

// Lines diffs before and after line by line.
func Lines(before, after string) Result {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var res Result
	for _, d := range diffs {
		h := Hunk{Text: d.Text}
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			h.Op = OpInsert
			res.Added += n
		case diffmatchpatch.DiffDelete:
			h.Op = OpDelete
			res.Removed += n
		default:
			h.Op = OpEqual
		}
		res.Hunks = append(res.Hunks, h)
	}
	return res
}

// Match finds the input whose path equals out's path, ignoring one leading "/".
func Match(inputs []types.FileRecord, out types.FileRecord) (types.FileRecord, bool) {
	want := strings.TrimPrefix(out.Path, "/")
	for _, in := range inputs {
		if strings.TrimPrefix(in.Path, "/") == want {
			return in, true
		}
	}
	return types.FileRecord{}, false
}

// File diffs out against its matching input. A file with no matching input is
// reported as entirely added.
func File(inputs []types.FileRecord, out types.FileRecord) Result {
	in, ok := Match(inputs, out)
	res := Lines(in.Content, out.Content)
	if ok {
		res.From = in.Path
	}
	res.To = out.Path
	return res
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
