package workspace

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refactorengine/internal/packaging"
	"refactorengine/internal/refactor/generation"
	"refactorengine/internal/refactor/prompt"
	"refactorengine/internal/refactor/run"
	"refactorengine/internal/types"
)

type fakeInvoker struct {
	res  types.RunResult
	err  error
	last prompt.Request
}

func (f *fakeInvoker) Invoke(_ context.Context, req prompt.Request) (types.RunResult, error) {
	f.last = req
	return f.res, f.err
}

func quiet() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func newWorkspace(t *testing.T, inv generation.Invoker) *Workspace {
	t.Helper()
	w, err := New(run.NewController(inv, quiet()), Options{Logger: quiet()})
	require.NoError(t, err)
	return w
}

func refactored() types.RunResult {
	return types.RunResult{
		Summary: "Đã tái cấu trúc.",
		Logs:    []string{"renamed"},
		Files: []types.FileRecord{
			{ID: "out_0", Name: "legacy_processor.py", Path: "/src/legacy_processor.py", Content: "def do_something(x, y):\n    return x + y\n", IsNew: true},
			{ID: "out_1", Name: "README.md", Path: "README.md", Content: "# Docs\n", IsNew: true},
		},
	}
}

func TestNew_SeedsDemoFilesAndDefaults(t *testing.T) {
	w := newWorkspace(t, &fakeInvoker{})
	s := w.Snapshot()

	require.Len(t, s.Inputs, 2)
	assert.Equal(t, "1", s.SelectedInput)
	assert.Equal(t, types.DefaultConfiguration(), s.Config)
	assert.Equal(t, types.TabInput, s.Tab)
	assert.Equal(t, types.StatusIdle, s.Run.Status)
	assert.Empty(t, s.Outputs)
}

func TestEditAndSelectInput(t *testing.T) {
	w := newWorkspace(t, &fakeInvoker{})

	f, err := w.EditInput("2", "  spaced\r\n")
	require.NoError(t, err)
	assert.Equal(t, "  spaced\r\n", f.Content)
	assert.Equal(t, "  spaced\r\n", w.Inputs()[1].Content)

	_, err = w.EditInput("missing", "x")
	assert.ErrorIs(t, err, ErrFileNotFound)

	require.NoError(t, w.SelectInput("2"))
	assert.Equal(t, "2", w.Snapshot().SelectedInput)
	assert.ErrorIs(t, w.SelectInput("missing"), ErrFileNotFound)
}

func TestAddInput(t *testing.T) {
	w := newWorkspace(t, &fakeInvoker{})
	f := w.AddInput()

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "new_file.py", f.Name)
	assert.Equal(t, "python", f.Language)
	assert.Equal(t, "/src/new_file.py", f.Path)
	assert.Equal(t, "# New file content here", f.Content)
	assert.Len(t, w.Inputs(), 3)
	assert.Equal(t, f.ID, w.Snapshot().SelectedInput)

	g := w.AddInput()
	assert.NotEqual(t, f.ID, g.ID)
}

func TestSetConfigField(t *testing.T) {
	w := newWorkspace(t, &fakeInvoker{})

	cfg, err := w.SetConfigField("targetLanguage", "Go")
	require.NoError(t, err)
	assert.Equal(t, "Go", cfg.TargetLanguage)

	cfg, err = w.SetConfigField("additionalPrompt", "  keep comments ")
	require.NoError(t, err)
	assert.Equal(t, "  keep comments ", cfg.AdditionalPrompt)

	_, err = w.SetConfigField("temperature", "1")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSetTab(t *testing.T) {
	w := newWorkspace(t, &fakeInvoker{res: refactored()})

	assert.ErrorIs(t, w.SetTab(types.TabOutput), ErrNoOutputs)
	assert.ErrorIs(t, w.SetTab("settings"), ErrUnknownTab)

	_, err := w.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.SetTab(types.TabInput))
	require.NoError(t, w.SetTab(types.TabOutput))
	assert.Equal(t, types.TabOutput, w.Tab())
}

func TestRun_SuccessSelectsFirstOutput(t *testing.T) {
	inv := &fakeInvoker{res: refactored()}
	w := newWorkspace(t, inv)
	_, err := w.SetConfigField("targetLanguage", "Go")
	require.NoError(t, err)

	res, err := w.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Files, 2)
	assert.Equal(t, "Go", inv.last.TargetLanguage)
	assert.Equal(t, 2, strings.Count(inv.last.Files, "--- FILE "))
	assert.Contains(t, inv.last.Files, "legacy_processor.py")
	assert.Contains(t, inv.last.Files, "utils.js")
	s := w.Snapshot()
	assert.Equal(t, types.TabOutput, s.Tab)
	assert.Equal(t, "out_0", s.SelectedOutput)
	assert.Equal(t, types.StatusCompleted, s.Run.Status)
	assert.Equal(t, "Đã tái cấu trúc.", s.Summary)
}

func TestRun_FailureReturnsToInputTab(t *testing.T) {
	inv := &fakeInvoker{err: &generation.Error{Kind: generation.KindTransport}}
	w := newWorkspace(t, inv)

	_, err := w.Run(context.Background())
	require.ErrorIs(t, err, generation.ErrTransport)

	s := w.Snapshot()
	assert.Equal(t, types.TabInput, s.Tab)
	assert.Equal(t, types.StatusError, s.Run.Status)
	assert.NotEmpty(t, s.Run.Error)
}

func TestSelectOutputAndDiff(t *testing.T) {
	w := newWorkspace(t, &fakeInvoker{res: refactored()})
	_, err := w.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, w.SelectOutput("out_1"))
	assert.ErrorIs(t, w.SelectOutput("nope"), ErrFileNotFound)

	d, err := w.Diff("out_0")
	require.NoError(t, err)
	assert.Equal(t, "/src/legacy_processor.py", d.From)
	assert.Positive(t, d.Added)
	assert.Positive(t, d.Removed)

	d, err = w.Diff("out_1")
	require.NoError(t, err)
	assert.Empty(t, d.From)
	assert.Equal(t, 1, d.Added)

	_, err = w.Diff("nope")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestPackage(t *testing.T) {
	w := newWorkspace(t, &fakeInvoker{res: refactored()})

	_, err := w.Package()
	require.ErrorIs(t, err, packaging.ErrEmptyPackage)

	_, err = w.Run(context.Background())
	require.NoError(t, err)

	a, err := w.Package()
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Seq)
	assert.Regexp(t, `^refactored_project_\d+\.zip$`, a.Name)

	zr, err := zip.NewReader(bytes.NewReader(a.Data), int64(len(a.Data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"refactored_project/src/legacy_processor.py", "refactored_project/README.md"}, names)

	again, err := w.Package()
	require.NoError(t, err)
	assert.Equal(t, a.Data, again.Data)
}

func TestNarration(t *testing.T) {
	inv := &fakeInvoker{res: refactored()}
	w := newWorkspace(t, inv)

	_, err := w.Narration()
	assert.ErrorIs(t, err, ErrNothingToNarrate)

	_, err = w.Run(context.Background())
	require.NoError(t, err)
	n, err := w.Narration()
	require.NoError(t, err)
	assert.Equal(t, Narration{Text: "Đã tái cấu trúc.", Lang: "vi-VN"}, n)
}
