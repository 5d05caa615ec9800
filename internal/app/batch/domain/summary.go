package domain

import "fmt"

// Summary is the completion report of a finished run.
type Summary struct {
	RunID         string   `json:"run_id"`
	CorrelationID string   `json:"correlation_id,omitempty"`
	State         RunState `json:"state"`
	Counts        Counts   `json:"counts"`
	DurationMs    int64    `json:"duration_ms"`
	Cause         string   `json:"cause,omitempty"`
	Message       string   `json:"message"`

	// Table statistics, set only when the persisted table could be read.
	TableRows  *int64 `json:"table_rows,omitempty"`
	LoyaltyOn  *int64 `json:"loyalty_on,omitempty"`
	LoyaltyOff *int64 `json:"loyalty_off,omitempty"`
}

// NewSummary builds the summary of a terminal run.
func NewSummary(r *PipelineResult) Summary {
	s := Summary{
		RunID:         r.RunID,
		CorrelationID: r.CorrelationID,
		State:         r.State(),
		Counts:        r.Counts(),
		DurationMs:    r.Duration().Milliseconds(),
	}

	if err := r.Err(); err != nil {
		s.Cause = err.Error()
	}

	switch s.State {
	case StateCompleted:
		s.Message = fmt.Sprintf("Completed: processed=%d enriched=%d kept=%d",
			s.Counts.Processed, s.Counts.Enriched, s.Counts.Kept)
	case StateFailed:
		s.Message = fmt.Sprintf("Failed: %s", s.Cause)
	default:
		s.Message = fmt.Sprintf("Run is %s", s.State)
	}

	return s
}
