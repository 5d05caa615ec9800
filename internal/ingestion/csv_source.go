// Package ingestion reads the headerless comma-delimited input files of the
// batch pipeline.
package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// CSVSource yields rows of a delimited input. Field counts are not checked
// here; the row parsers own that rule.
type CSVSource struct {
	name   string
	reader *csv.Reader
	closer io.Closer
}

// NewCSVSource wraps r. name identifies the input in parse errors.
func NewCSVSource(name string, r io.Reader) *CSVSource {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	src := &CSVSource{name: name, reader: reader}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// FromString is a convenience for tests and fixtures.
func FromString(name, content string) *CSVSource {
	return NewCSVSource(name, strings.NewReader(content))
}

func (s *CSVSource) Name() string { return s.name }

// Next returns the next row, or io.EOF once the input is exhausted.
// Blank lines are skipped.
func (s *CSVSource) Next(ctx context.Context) (contracts.Row, error) {
	if err := ctx.Err(); err != nil {
		return contracts.Row{}, err
	}

	fields, err := s.reader.Read()
	if err == io.EOF {
		return contracts.Row{}, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return contracts.Row{}, &domain.ParseError{Source: s.name, Line: pe.StartLine, Err: pe.Err}
		}
		return contracts.Row{}, fmt.Errorf("read %s: %w", s.name, err)
	}

	line, _ := s.reader.FieldPos(0)
	return contracts.Row{Line: line, Fields: fields}, nil
}

func (s *CSVSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// FileOpener opens local files as CSV sources.
type FileOpener struct{}

func NewFileOpener() *FileOpener {
	return &FileOpener{}
}

func (o *FileOpener) Open(ctx context.Context, location string) (contracts.RowSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if location == "" {
		return nil, domain.ErrMissingInput
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("opening csv %s: %w", location, err)
	}
	return NewCSVSource(location, f), nil
}

// MapOpener serves in-memory inputs keyed by location.
type MapOpener map[string]string

func (m MapOpener) Open(ctx context.Context, location string) (contracts.RowSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, ok := m[location]
	if !ok {
		return nil, fmt.Errorf("opening csv %s: %w", location, os.ErrNotExist)
	}
	return FromString(location, content), nil
}
