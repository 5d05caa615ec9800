package domain

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// RunState represents the lifecycle state of a pipeline run
type RunState string

const (
	StateNotStarted          RunState = "not_started"
	StateLoadingReference    RunState = "loading_reference"
	StateEnrichingAndWriting RunState = "enriching_and_writing"
	StateCompleted           RunState = "completed"
	StateFailed              RunState = "failed"
)

// allowedTransitions is the run state machine:
//
//	NotStarted -> LoadingReference -> EnrichingAndWriting -> Completed
//	     \________________\_______________________\______-> Failed
var allowedTransitions = map[RunState][]RunState{
	StateNotStarted:          {StateLoadingReference, StateFailed},
	StateLoadingReference:    {StateEnrichingAndWriting, StateFailed},
	StateEnrichingAndWriting: {StateCompleted, StateFailed},
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s RunState) CanTransitionTo(next RunState) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s is Completed or Failed.
func (s RunState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Counters tracks per-record outcomes. Safe for concurrent use by chunk workers.
type Counters struct {
	processed atomic.Int64
	enriched  atomic.Int64
	kept      atomic.Int64
	committed atomic.Int64
	chunks    atomic.Int64
}

// Record counts one enriched record.
func (c *Counters) Record(wasEnriched bool) {
	c.processed.Add(1)
	if wasEnriched {
		c.enriched.Add(1)
	} else {
		c.kept.Add(1)
	}
}

// Committed counts one chunk of n records that reached the store.
func (c *Counters) Committed(n int) {
	c.committed.Add(int64(n))
	c.chunks.Add(1)
}

// Snapshot returns a point-in-time copy of the counters.
func (c *Counters) Snapshot() Counts {
	return Counts{
		Processed:       c.processed.Load(),
		Enriched:        c.enriched.Load(),
		Kept:            c.kept.Load(),
		Committed:       c.committed.Load(),
		ChunksCommitted: c.chunks.Load(),
	}
}

// Counts is an immutable view of a run's counters.
type Counts struct {
	Processed       int64 `json:"processed"`
	Enriched        int64 `json:"enriched"`
	Kept            int64 `json:"kept"`
	Committed       int64 `json:"committed"`
	ChunksCommitted int64 `json:"chunks_committed"`
}

// PipelineResult is the outcome of one pipeline run.
type PipelineResult struct {
	RunID         string
	CorrelationID string
	StartedAt     time.Time
	FinishedAt    time.Time
	ReferenceRows int

	mu       sync.Mutex
	state    RunState
	err      error
	counters Counters
}

// NewPipelineResult creates a result in the NotStarted state.
func NewPipelineResult(runID, correlationID string, startedAt time.Time) *PipelineResult {
	return &PipelineResult{
		RunID:         runID,
		CorrelationID: correlationID,
		StartedAt:     startedAt,
		state:         StateNotStarted,
	}
}

// State returns the current run state.
func (r *PipelineResult) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the failure cause, nil unless the run Failed.
func (r *PipelineResult) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Counters returns the live counters of the run.
func (r *PipelineResult) Counters() *Counters {
	return &r.counters
}

// Counts returns a snapshot of the run counters.
func (r *PipelineResult) Counts() Counts {
	return r.counters.Snapshot()
}

// Advance moves the run to next.
func (r *PipelineResult) Advance(next RunState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, next)
	}
	r.state = next
	return nil
}

// Complete moves the run to Completed.
func (r *PipelineResult) Complete(at time.Time) error {
	if err := r.Advance(StateCompleted); err != nil {
		return err
	}
	r.FinishedAt = at
	return nil
}

// Fail moves the run to Failed with cause. Failing a terminal run is a no-op
// so the first cause is kept.
func (r *PipelineResult) Fail(cause error, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Terminal() {
		return
	}
	r.state = StateFailed
	r.err = cause
	r.FinishedAt = at
}

// Duration returns the wall time of a finished run.
func (r *PipelineResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
