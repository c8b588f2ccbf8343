package run

import (
	"errors"
	"time"

	"refactorengine/internal/types"
)

var (
	// ErrAlreadyRunning rejects a start while a run is ANALYZING.
	ErrAlreadyRunning = errors.New("run: a refactor run is already in progress")
	// ErrNoRunInFlight rejects a completion event outside ANALYZING.
	ErrNoRunInFlight = errors.New("run: no refactor run in progress")
)

// EventType is an input of the run state machine.
type EventType string

const (
	EventStarted   EventType = "started"
	EventSucceeded EventType = "succeeded"
	EventFailed    EventType = "failed"
)

// Event drives Transition. Err is the user-visible message of a failed run.
type Event struct {
	Type EventType
	Err  string
	At   time.Time
}

// Transition is the pure reducer of the run lifecycle:
//
//	IDLE|COMPLETED|ERROR --started--> ANALYZING
//	ANALYZING --succeeded--> COMPLETED
//	ANALYZING --failed--> ERROR
//
// Any other combination returns the state unchanged plus an error.
func Transition(s types.RunState, ev Event) (types.RunState, error) {
	switch ev.Type {
	case EventStarted:
		if s.Running() {
			return s, ErrAlreadyRunning
		}
		return types.RunState{
			Status:    types.StatusAnalyzing,
			Seq:       s.Seq + 1,
			StartedAt: ev.At,
		}, nil
	case EventSucceeded, EventFailed:
		if !s.Running() {
			return s, ErrNoRunInFlight
		}
		next := s
		next.FinishedAt = ev.At
		if ev.Type == EventSucceeded {
			next.Status = types.StatusCompleted
			next.Error = ""
		} else {
			next.Status = types.StatusError
			next.Error = ev.Err
		}
		return next, nil
	default:
		return s, errors.New("run: unknown event " + string(ev.Type))
	}
}
