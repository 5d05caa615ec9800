package load_reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// Request contains the data needed to load the reference store.
type Request struct {
	Path      string
	ChunkSize int
	// Persist also upserts the rows into loyalty_data. Ignored when the
	// interactor has no writer.
	Persist bool
}

// Result is a frozen reference store and load statistics.
type Result struct {
	Store         *domain.ReferenceStore
	RowsRead      int
	ChunksWritten int
}

// Interactor handles the load reference use case.
type Interactor struct {
	opener contracts.SourceOpener
	writer contracts.ReferenceWriter
	logger *slog.Logger
}

// NewInteractor creates a new load reference interactor. writer may be nil.
func NewInteractor(
	opener contracts.SourceOpener,
	writer contracts.ReferenceWriter,
	logger *slog.Logger,
) *Interactor {
	return &Interactor{
		opener: opener,
		writer: writer,
		logger: logger,
	}
}

// Execute reads every reference row into a new store and freezes it.
// Any malformed row fails the whole load.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Result, error) {
	// 1. Validate request
	if err := i.validate(req); err != nil {
		return nil, err
	}

	// 2. Open source
	src, err := i.opener.Open(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference input: %w", err)
	}
	defer src.Close()

	store := domain.NewReferenceStore()
	result := &Result{Store: store}
	persist := req.Persist && i.writer != nil
	pending := make([]domain.ReferenceRecord, 0, domain.ChunkCapacity(req.ChunkSize))

	// 3. Parse rows, last write wins
	for {
		row, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec, err := domain.ParseReferenceRow(src.Name(), row.Line, row.Fields)
		if err != nil {
			return nil, err
		}
		if err := store.Put(rec); err != nil {
			return nil, err
		}
		result.RowsRead++

		// 4. Persist full chunks
		if persist {
			pending = append(pending, rec)
			if len(pending) == req.ChunkSize {
				if err := i.flush(ctx, result, pending); err != nil {
					return nil, err
				}
				pending = make([]domain.ReferenceRecord, 0, domain.ChunkCapacity(req.ChunkSize))
			}
		}
	}

	if persist && len(pending) > 0 {
		if err := i.flush(ctx, result, pending); err != nil {
			return nil, err
		}
	}

	// 5. Freeze before handing the store to enrichment
	store.Freeze()

	i.logger.InfoContext(ctx, "reference data loaded",
		"source", src.Name(),
		"rows", result.RowsRead,
		"keys", store.Len(),
		"chunks_written", result.ChunksWritten,
	)

	return result, nil
}

func (i *Interactor) flush(ctx context.Context, result *Result, records []domain.ReferenceRecord) error {
	if err := i.writer.WriteReferences(ctx, result.ChunksWritten, records); err != nil {
		var pe *domain.PersistenceError
		if errors.As(err, &pe) {
			return err
		}
		return &domain.PersistenceError{ChunkIndex: result.ChunksWritten, Err: err}
	}
	result.ChunksWritten++
	return nil
}

// validate validates the request.
func (i *Interactor) validate(req *Request) error {
	if req.Path == "" {
		return domain.ErrMissingInput
	}
	if req.ChunkSize < 1 {
		return domain.ErrInvalidChunkSize
	}
	return nil
}
