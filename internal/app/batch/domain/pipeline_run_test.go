package domain

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunStateMachine verifies all valid and invalid state transitions.
func TestRunStateMachine(t *testing.T) {
	// From\To          | Loading | Enriching | Completed | Failed
	// -----------------|---------|-----------|-----------|-------
	// NotStarted       | ✓       | ✗         | ✗         | ✓
	// Loading          | ✗       | ✓         | ✗         | ✓
	// Enriching        | ✗       | ✗         | ✓         | ✓
	// Completed/Failed | ✗       | ✗         | ✗         | ✗
	tests := []struct {
		from, to RunState
		allowed  bool
	}{
		{StateNotStarted, StateLoadingReference, true},
		{StateNotStarted, StateEnrichingAndWriting, false},
		{StateNotStarted, StateCompleted, false},
		{StateNotStarted, StateFailed, true},
		{StateLoadingReference, StateEnrichingAndWriting, true},
		{StateLoadingReference, StateCompleted, false},
		{StateLoadingReference, StateFailed, true},
		{StateEnrichingAndWriting, StateCompleted, true},
		{StateEnrichingAndWriting, StateLoadingReference, false},
		{StateEnrichingAndWriting, StateFailed, true},
		{StateCompleted, StateFailed, false},
		{StateCompleted, StateLoadingReference, false},
		{StateFailed, StateCompleted, false},
		{StateFailed, StateLoadingReference, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" → "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPipelineResult_HappyPath(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewPipelineResult("run-1", "trace-1", start)
	assert.Equal(t, StateNotStarted, r.State())

	require.NoError(t, r.Advance(StateLoadingReference))
	require.NoError(t, r.Advance(StateEnrichingAndWriting))
	require.NoError(t, r.Complete(start.Add(2*time.Second)))

	assert.Equal(t, StateCompleted, r.State())
	assert.Equal(t, 2*time.Second, r.Duration())
	assert.NoError(t, r.Err())
}

func TestPipelineResult_InvalidTransition(t *testing.T) {
	r := NewPipelineResult("run-1", "", time.Now())

	err := r.Advance(StateEnrichingAndWriting)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateNotStarted, r.State())

	err = r.Complete(time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPipelineResult_FailKeepsFirstCause(t *testing.T) {
	start := time.Now()
	r := NewPipelineResult("run-1", "", start)
	require.NoError(t, r.Advance(StateLoadingReference))

	first := errors.New("first")
	r.Fail(first, start.Add(time.Second))
	r.Fail(errors.New("second"), start.Add(2*time.Second))

	assert.Equal(t, StateFailed, r.State())
	assert.Equal(t, first, r.Err())
	assert.Equal(t, time.Second, r.Duration())
}

func TestCounters_Concurrent(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				c.Record(i%2 == 0)
			}
			c.Committed(50)
		}(w)
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, int64(200), snap.Processed)
	assert.Equal(t, int64(100), snap.Enriched)
	assert.Equal(t, int64(100), snap.Kept)
	assert.Equal(t, int64(200), snap.Committed)
	assert.Equal(t, int64(4), snap.ChunksCommitted)
}

func TestNewSummary(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("completed", func(t *testing.T) {
		r := NewPipelineResult("run-1", "corr", start)
		require.NoError(t, r.Advance(StateLoadingReference))
		require.NoError(t, r.Advance(StateEnrichingAndWriting))
		r.Counters().Record(true)
		r.Counters().Record(false)
		require.NoError(t, r.Complete(start.Add(1500*time.Millisecond)))

		s := NewSummary(r)
		assert.Equal(t, StateCompleted, s.State)
		assert.Equal(t, "Completed: processed=2 enriched=1 kept=1", s.Message)
		assert.Equal(t, int64(1500), s.DurationMs)
		assert.Empty(t, s.Cause)
	})

	t.Run("failed", func(t *testing.T) {
		r := NewPipelineResult("run-2", "", start)
		r.Fail(&ParseError{Source: "loyalty.csv", Line: 2, Field: FieldSKU, Err: ErrInvalidNumber}, start)

		s := NewSummary(r)
		assert.Equal(t, StateFailed, s.State)
		assert.Equal(t, "Failed: parse loyalty.csv line 2 field sku: field is not a valid integer", s.Message)
	})
}
