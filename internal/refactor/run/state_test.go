package run

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refactorengine/internal/types"
)

func TestTransition_Lifecycle(t *testing.T) {
	at := time.Unix(100, 0)
	s := types.RunState{Status: types.StatusIdle}

	s, err := Transition(s, Event{Type: EventStarted, At: at})
	require.NoError(t, err)
	assert.Equal(t, types.StatusAnalyzing, s.Status)
	assert.Equal(t, int64(1), s.Seq)

	s, err = Transition(s, Event{Type: EventFailed, Err: "boom", At: at})
	require.NoError(t, err)
	assert.Equal(t, types.StatusError, s.Status)
	assert.Equal(t, "boom", s.Error)

	s, err = Transition(s, Event{Type: EventStarted, At: at})
	require.NoError(t, err)
	assert.Equal(t, types.StatusAnalyzing, s.Status)
	assert.Empty(t, s.Error, "start clears the previous error")
	assert.Equal(t, int64(2), s.Seq)

	s, err = Transition(s, Event{Type: EventSucceeded, At: at})
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, s.Status)

	s, err = Transition(s, Event{Type: EventStarted, At: at})
	require.NoError(t, err)
	assert.Equal(t, types.StatusAnalyzing, s.Status)
}

func TestTransition_RejectsStartWhileAnalyzing(t *testing.T) {
	s := types.RunState{Status: types.StatusAnalyzing, Seq: 4}
	next, err := Transition(s, Event{Type: EventStarted})
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, s, next)
}

func TestTransition_RejectsCompletionOutsideRun(t *testing.T) {
	for _, st := range []types.RunStatus{types.StatusIdle, types.StatusCompleted, types.StatusError} {
		s := types.RunState{Status: st}
		next, err := Transition(s, Event{Type: EventSucceeded})
		assert.ErrorIs(t, err, ErrNoRunInFlight)
		assert.Equal(t, s, next)
	}
}
