package contracts

import "context"

// Row is one raw delimited record with its 1-based line number.
type Row struct {
	Line   int
	Fields []string
}

// RowSource yields raw rows from a delimited input.
// Next returns io.EOF once the input is exhausted.
type RowSource interface {
	// Name identifies the input in logs and parse errors
	Name() string

	// Next returns the next row, or io.EOF
	Next(ctx context.Context) (Row, error)

	// Close releases the underlying file handle
	Close() error
}

// SourceOpener opens a RowSource for an input location.
type SourceOpener interface {
	Open(ctx context.Context, location string) (RowSource, error)
}
