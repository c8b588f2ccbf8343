package types

import "time"

// Documents ----------------------------------------------------------------------

// FileRecord is one source or output file. Identity is ID; Path is forward-slash
// delimited and may or may not start with "/".
type FileRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Content  string `json:"content"`
	Path     string `json:"path"`
	IsNew    bool   `json:"isNew,omitempty"`
}

// RefactorConfiguration is passed verbatim to the generator. Any combination of
// values is legal.
type RefactorConfiguration struct {
	TargetGoal         string `json:"targetGoal" yaml:"targetGoal"`
	TargetLanguage     string `json:"targetLanguage" yaml:"targetLanguage"`
	ArchitectureStyle  string `json:"architectureStyle" yaml:"architectureStyle"`
	NamingConvention   string `json:"namingConvention" yaml:"namingConvention"`
	DocumentationLevel string `json:"documentationLevel" yaml:"documentationLevel"`
	AdditionalPrompt   string `json:"additionalPrompt" yaml:"additionalPrompt"`
}

// RunResult is produced wholesale by one generation call.
type RunResult struct {
	Summary string       `json:"summary"`
	Logs    []string     `json:"logs"`
	Files   []FileRecord `json:"files"`
}

// Clone returns a deep copy so callers cannot mutate committed output.
func (r RunResult) Clone() RunResult {
	out := RunResult{Summary: r.Summary}
	if r.Logs != nil {
		out.Logs = append([]string(nil), r.Logs...)
	}
	out.Files = CloneFiles(r.Files)
	return out
}

// CloneFiles copies a file slice. A nil input stays nil.
func CloneFiles(files []FileRecord) []FileRecord {
	if files == nil {
		return nil
	}
	return append([]FileRecord(nil), files...)
}

// Run state ----------------------------------------------------------------------

type RunStatus string

const (
	StatusIdle      RunStatus = "IDLE"
	StatusAnalyzing RunStatus = "ANALYZING"
	StatusCompleted RunStatus = "COMPLETED"
	StatusError     RunStatus = "ERROR"
)

// RunState is the lifecycle of the current run. Error is set only in StatusError.
// Seq increases by one every time a run starts.
type RunState struct {
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	Seq        int64     `json:"seq"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// Running reports whether a run is in flight.
func (s RunState) Running() bool { return s.Status == StatusAnalyzing }

// View tabs ----------------------------------------------------------------------

type Tab string

const (
	TabInput  Tab = "input"
	TabOutput Tab = "output"
)
