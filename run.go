package tracerasdk

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tracera/tracera-sdk-go/internal/errors"
	"github.com/tracera/tracera-sdk-go/internal/record"
)

// RunOption configures a run at creation time.
type RunOption func(*Run)

// WithProject sets the project the run is filed under.
func WithProject(project string) RunOption {
	return func(r *Run) {
		r.project = project
	}
}

// WithDisplayName sets a human-readable run name.
func WithDisplayName(name string) RunOption {
	return func(r *Run) {
		r.displayName = name
	}
}

// WithRunID resumes or pins an explicit run ID instead of minting one.
func WithRunID(id string) RunOption {
	return func(r *Run) {
		r.id = id
	}
}

// Run is a handle to one run stream on a session. Log appends metric
// steps; Finish closes the stream and waits for the core to confirm it
// flushed. A finished run rejects further use.
type Run struct {
	session     *Session
	id          string
	project     string
	displayName string
	startedAt   time.Time
	step        atomic.Int64
	finished    atomic.Bool
}

func newRun(s *Session, opts []RunOption) *Run {
	r := &Run{
		session:   s,
		startedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.id == "" {
		r.id = NewRunID()
	}

	return r
}

// ID returns the run's identifier.
func (r *Run) ID() string {
	return r.id
}

func (r *Run) startRecord() *record.RunStart {
	return &record.RunStart{
		RunID:       r.id,
		Project:     r.project,
		DisplayName: r.displayName,
		StartedAt:   r.startedAt,
	}
}

// Log records one step of metrics. Steps number from zero and increase
// by one per call.
func (r *Run) Log(metrics map[string]float64) error {
	if r.finished.Load() {
		return errors.ErrRunFinished
	}

	env := &record.Envelope{
		Type:     record.TypeHistory,
		StreamID: r.id,
		History: &record.History{
			Step:    r.step.Add(1) - 1,
			Metrics: metrics,
		},
	}

	return r.session.send(env)
}

// Finish closes the run stream and blocks until the core acknowledges
// the flush or ctx expires. Finish is terminal either way: a second
// call returns ErrRunFinished.
func (r *Run) Finish(ctx context.Context) error {
	if !r.finished.CompareAndSwap(false, true) {
		return errors.ErrRunFinished
	}

	env := &record.Envelope{
		Type:      record.TypeRunFinish,
		StreamID:  r.id,
		RunFinish: &record.RunFinish{ExitCode: 0},
	}
	if err := r.session.send(env); err != nil {
		return err
	}

	ack, err := r.session.awaitAck(ctx)
	if err != nil {
		return err
	}

	if !ack.OK {
		return fmt.Errorf("core rejected run finish: %s", ack.Error)
	}

	r.session.log.Info("Run finished", "run_id", r.id, "steps", r.step.Load())

	return nil
}
