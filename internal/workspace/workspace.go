// Package workspace holds the interactive session: editable inputs, the
// refactor configuration, the active tab and the committed outputs. Views
// read and mutate it; runs go through the run controller.
package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"refactorengine/internal/diffview"
	"refactorengine/internal/packaging"
	"refactorengine/internal/refactor/run"
	"refactorengine/internal/types"
)

var (
	ErrFileNotFound     = errors.New("workspace: file not found")
	ErrUnknownField     = errors.New("workspace: unknown configuration field")
	ErrUnknownTab       = errors.New("workspace: unknown tab")
	ErrNoOutputs        = errors.New("workspace: no outputs yet")
	ErrNothingToNarrate = errors.New("workspace: no summary to narrate")
)

// NarrationLang is the language tag used for spoken summaries.
const NarrationLang = "vi-VN"

type Options struct {
	// Inputs seeds the editor. Nil means the demo files.
	Inputs []types.FileRecord
	// Config seeds the configuration. Nil means the catalog defaults.
	Config        *types.RefactorConfiguration
	ArchivePrefix string
	Packager      *packaging.CachedPackager
	Logger        logrus.FieldLogger
}

type Workspace struct {
	ctrl     *run.Controller
	packager *packaging.CachedPackager
	prefix   string
	log      logrus.FieldLogger
	now      func() time.Time

	mu             sync.Mutex
	inputs         []types.FileRecord
	selectedInput  string
	cfg            types.RefactorConfiguration
	tab            types.Tab
	selectedOutput string
}

func New(ctrl *run.Controller, opts Options) (*Workspace, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	pk := opts.Packager
	if pk == nil {
		var err error
		if pk, err = packaging.NewCachedPackager(packaging.Packager{}, 0); err != nil {
			return nil, err
		}
	}
	inputs := opts.Inputs
	if inputs == nil {
		inputs = types.DemoFiles()
	}
	cfg := types.DefaultConfiguration()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	w := &Workspace{
		ctrl:     ctrl,
		packager: pk,
		prefix:   opts.ArchivePrefix,
		log:      log.WithField("component", "workspace"),
		now:      time.Now,
		inputs:   types.CloneFiles(inputs),
		cfg:      cfg,
		tab:      types.TabInput,
	}
	if len(w.inputs) > 0 {
		w.selectedInput = w.inputs[0].ID
	}
	return w, nil
}

// Snapshot is everything a view renders.
type Snapshot struct {
	Inputs         []types.FileRecord          `json:"inputs"`
	SelectedInput  string                      `json:"selectedInput"`
	Config         types.RefactorConfiguration `json:"config"`
	Tab            types.Tab                   `json:"tab"`
	Run            types.RunState              `json:"run"`
	Summary        string                      `json:"summary"`
	Logs           []string                    `json:"logs"`
	Outputs        []types.FileRecord          `json:"outputs"`
	SelectedOutput string                      `json:"selectedOutput"`
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	s := Snapshot{
		Inputs:         types.CloneFiles(w.inputs),
		SelectedInput:  w.selectedInput,
		Config:         w.cfg,
		Tab:            w.tab,
		SelectedOutput: w.selectedOutput,
	}
	w.mu.Unlock()

	cs := w.ctrl.Snapshot()
	s.Run = cs.State
	s.Outputs = cs.Outputs
	if cs.HasResult {
		s.Summary = cs.Result.Summary
		s.Logs = cs.Result.Logs
	}
	return s
}

func (w *Workspace) Inputs() []types.FileRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return types.CloneFiles(w.inputs)
}

func (w *Workspace) SelectInput(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if indexOf(w.inputs, id) < 0 {
		return ErrFileNotFound
	}
	w.selectedInput = id
	return nil
}

// EditInput replaces the content of input id. Content is stored verbatim.
func (w *Workspace) EditInput(id, content string) (types.FileRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := indexOf(w.inputs, id)
	if i < 0 {
		return types.FileRecord{}, ErrFileNotFound
	}
	w.inputs[i].Content = content
	return w.inputs[i], nil
}

// AddInput appends a placeholder file and selects it.
func (w *Workspace) AddInput() types.FileRecord {
	f := types.NewInputFile()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inputs = append(w.inputs, f)
	w.selectedInput = f.ID
	return f
}

func (w *Workspace) Config() types.RefactorConfiguration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// SetConfigField sets one configuration field by its JSON name.
func (w *Workspace) SetConfigField(key, value string) (types.RefactorConfiguration, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.cfg.Set(key, value) {
		return w.cfg, ErrUnknownField
	}
	return w.cfg, nil
}

func (w *Workspace) Tab() types.Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tab
}

func (w *Workspace) SetTab(tab types.Tab) error {
	switch tab {
	case types.TabInput:
	case types.TabOutput:
		if len(w.ctrl.Outputs()) == 0 && !w.ctrl.State().Running() {
			return ErrNoOutputs
		}
	default:
		return ErrUnknownTab
	}
	w.mu.Lock()
	w.tab = tab
	w.mu.Unlock()
	return nil
}

// Run refactors the current inputs with the current configuration. The view
// moves to the output tab for the duration and falls back to the input tab
// when the run fails. A rejected start leaves the tab alone.
func (w *Workspace) Run(ctx context.Context) (types.RunResult, error) {
	if w.ctrl.State().Running() {
		return types.RunResult{}, run.ErrAlreadyRunning
	}
	w.mu.Lock()
	prevTab := w.tab
	w.tab = types.TabOutput
	inputs := types.CloneFiles(w.inputs)
	cfg := w.cfg
	w.mu.Unlock()

	res, err := w.ctrl.Start(ctx, inputs, cfg)

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case errors.Is(err, run.ErrAlreadyRunning):
		w.tab = prevTab
	case err != nil:
		w.tab = types.TabInput
	default:
		w.selectedOutput = ""
		if len(res.Files) > 0 {
			w.selectedOutput = res.Files[0].ID
		}
	}
	return res, err
}

func (w *Workspace) Outputs() []types.FileRecord { return w.ctrl.Outputs() }

func (w *Workspace) SelectOutput(id string) error {
	if indexOf(w.ctrl.Outputs(), id) < 0 {
		return ErrFileNotFound
	}
	w.mu.Lock()
	w.selectedOutput = id
	w.mu.Unlock()
	return nil
}

// Archive is a packaged output collection ready for download.
type Archive struct {
	Seq  int64
	Name string
	Data []byte
}

// Package zips the committed outputs. With no outputs it fails with
// packaging.ErrEmptyPackage.
func (w *Workspace) Package() (Archive, error) {
	seq, outs := w.ctrl.Committed()
	data, err := w.packager.Package(seq, outs)
	if err != nil {
		return Archive{}, err
	}
	return Archive{Seq: seq, Name: packaging.ArchiveName(w.prefix, w.now()), Data: data}, nil
}

// Narration is the text handed to a speech synthesizer.
type Narration struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

func (w *Workspace) Narration() (Narration, error) {
	res, ok := w.ctrl.Result()
	if !ok || strings.TrimSpace(res.Summary) == "" {
		return Narration{}, ErrNothingToNarrate
	}
	return Narration{Text: res.Summary, Lang: NarrationLang}, nil
}

// Diff compares output id with the input it most likely replaces.
func (w *Workspace) Diff(id string) (diffview.Result, error) {
	outs := w.ctrl.Outputs()
	i := indexOf(outs, id)
	if i < 0 {
		return diffview.Result{}, ErrFileNotFound
	}
	return diffview.File(w.Inputs(), outs[i]), nil
}

func indexOf(files []types.FileRecord, id string) int {
	for i, f := range files {
		if f.ID == id {
			return i
		}
	}
	return -1
}
