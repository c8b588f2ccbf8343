// Package run owns the lifecycle of one refactor run: IDLE, ANALYZING,
// COMPLETED and ERROR.
package run

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"refactorengine/internal/refactor/generation"
	"refactorengine/internal/refactor/prompt"
	"refactorengine/internal/types"
)

// Controller mediates between view triggers and the generation client. It is
// the only writer of the output collection.
type Controller struct {
	gen    generation.Invoker
	events *EventBroker
	log    logrus.FieldLogger
	now    func() time.Time

	mu      sync.Mutex
	state   types.RunState
	result  *types.RunResult
	outputs []types.FileRecord
	// committed is the sequence of the run that produced outputs.
	committed int64
}

func NewController(gen generation.Invoker, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		gen:    gen,
		events: NewEventBroker(),
		log:    log.WithField("component", "run"),
		now:    time.Now,
		state:  types.RunState{Status: types.StatusIdle},
	}
}

// Events exposes the transition broker.
func (c *Controller) Events() *EventBroker { return c.events }

// Start runs one refactor synchronously. While another run is ANALYZING it
// returns ErrAlreadyRunning and changes nothing. On failure the previous
// output collection is kept and the generation error is returned.
func (c *Controller) Start(ctx context.Context, files []types.FileRecord, cfg types.RefactorConfiguration) (types.RunResult, error) {
	c.mu.Lock()
	next, err := Transition(c.state, Event{Type: EventStarted, At: c.now()})
	if err != nil {
		c.mu.Unlock()
		c.log.WithField("seq", c.state.Seq).Warn("start rejected: run already in progress")
		return types.RunResult{}, err
	}
	c.state = next
	files = types.CloneFiles(files)
	c.mu.Unlock()

	log := c.log.WithFields(logrus.Fields{"seq": next.Seq, "files": len(files)})
	log.Info("run started")
	c.publish()

	req := prompt.Build(files, cfg)
	res, genErr := c.gen.Invoke(ctx, req)

	c.mu.Lock()
	if genErr != nil {
		c.state, _ = Transition(c.state, Event{Type: EventFailed, Err: genErr.Error(), At: c.now()})
	} else {
		committed := res.Clone()
		c.result = &committed
		c.outputs = types.CloneFiles(committed.Files)
		c.committed = c.state.Seq
		c.state, _ = Transition(c.state, Event{Type: EventSucceeded, At: c.now()})
	}
	c.mu.Unlock()
	c.publish()

	if genErr != nil {
		log.WithError(genErr).WithField("kind", generation.KindOf(genErr).String()).Error("run failed")
		return types.RunResult{}, genErr
	}
	log.WithField("outputs", len(res.Files)).Info("run completed")
	return res.Clone(), nil
}

// State returns a snapshot of the current state.
func (c *Controller) State() types.RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the last committed result, if any.
func (c *Controller) Result() (types.RunResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return types.RunResult{}, false
	}
	return c.result.Clone(), true
}

// Outputs returns a copy of the committed output collection.
func (c *Controller) Outputs() []types.FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.CloneFiles(c.outputs)
}

// Snapshot is a consistent read of the controller taken under one lock.
type Snapshot struct {
	State   types.RunState
	Outputs []types.FileRecord
	// Result is the last committed result; HasResult is false before any success.
	Result    types.RunResult
	HasResult bool
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{State: c.state, Outputs: types.CloneFiles(c.outputs)}
	if c.result != nil {
		s.Result = c.result.Clone()
		s.HasResult = true
	}
	return s
}

// Committed returns the output collection along with the sequence of the run
// that committed it. The sequence is zero before any run succeeds.
func (c *Controller) Committed() (int64, []types.FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed, types.CloneFiles(c.outputs)
}

func (c *Controller) publish() {
	c.mu.Lock()
	n := Notification{State: c.state, OutputCount: len(c.outputs)}
	if c.result != nil {
		n.Summary = c.result.Summary
	}
	c.mu.Unlock()
	c.events.Publish(n)
}
