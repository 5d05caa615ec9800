package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Domain errors as sentinel values
var (
	// Run errors
	ErrInvalidTransition = errors.New("invalid pipeline state transition")
	ErrRunInProgress     = errors.New("a pipeline run is already in progress")
	ErrInvalidChunkSize  = errors.New("chunk size must be at least 1")
	ErrInvalidWorkers    = errors.New("worker count must be at least 1")
	ErrMissingInput      = errors.New("input location is required")

	// Reference store errors
	ErrStoreFrozen = errors.New("reference store is frozen")

	// Row errors
	ErrFieldCount    = errors.New("wrong number of fields")
	ErrInvalidNumber = errors.New("field is not a valid integer")
)

// ParseError reports a malformed input row. It is fatal for the run.
type ParseError struct {
	Source string // input location or logical source name
	Line   int    // 1-based line number, 0 when unknown
	Field  string // offending field, empty for field-count errors
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse ")
	b.WriteString(e.Source)
	if e.Line > 0 {
		b.WriteString(" line ")
		b.WriteString(strconv.Itoa(e.Line))
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError reports a chunk that failed to commit. Chunks committed
// before it stay persisted.
type PersistenceError struct {
	ChunkIndex int
	IDs        []int64
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist chunk %d (ids %v): %v", e.ChunkIndex, e.IDs, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConnectionError reports that the destination store could not be reached.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err for the given chunk unless it already is a
// PersistenceError.
func NewPersistenceError(chunk Chunk, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{
		ChunkIndex: chunk.Index,
		IDs:        chunk.IDs(),
		Err:        err,
	}
}
