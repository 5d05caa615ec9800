package load_reference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/app/batch/repo"
	"github.com/light-bringer/procat-batch/internal/ingestion"
	"github.com/light-bringer/procat-batch/internal/pkg/logging"
	"github.com/light-bringer/procat-batch/internal/testutil"
)

type failingWriter struct {
	calls int
	err   error
}

func (w *failingWriter) WriteReferences(context.Context, int, []domain.ReferenceRecord) error {
	w.calls++
	return w.err
}

func TestExecute_LastWriteWins(t *testing.T) {
	opener := ingestion.MapOpener{"ref.csv": testutil.ReferenceCSV}
	interactor := NewInteractor(opener, nil, logging.Discard())

	result, err := interactor.Execute(context.Background(), &Request{Path: "ref.csv", ChunkSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 3, result.RowsRead)
	assert.Equal(t, 2, result.Store.Len())
	assert.True(t, result.Store.Frozen())

	v, ok := result.Store.Lookup(100)
	require.True(t, ok)
	assert.Equal(t, "Loyality_mid", v)
	v, ok = result.Store.Lookup(200)
	require.True(t, ok)
	assert.Equal(t, "Loyality_off", v)
	assert.Equal(t, 0, result.ChunksWritten)
}

func TestExecute_PersistsInChunks(t *testing.T) {
	opener := ingestion.MapOpener{"ref.csv": testutil.ReferenceCSV}
	store := repo.NewMemoryStore()
	interactor := NewInteractor(opener, store, logging.Discard())

	result, err := interactor.Execute(context.Background(), &Request{Path: "ref.csv", ChunkSize: 2, Persist: true})
	require.NoError(t, err)

	assert.Equal(t, 2, result.ChunksWritten)
	assert.Equal(t, 2, store.Commits())
	v, ok := store.Loyalty(100)
	require.True(t, ok)
	assert.Equal(t, "Loyality_mid", v)
}

func TestExecute_HugeChunkSize(t *testing.T) {
	opener := ingestion.MapOpener{"ref.csv": testutil.ReferenceCSV}
	store := repo.NewMemoryStore()
	interactor := NewInteractor(opener, store, logging.Discard())

	result, err := interactor.Execute(context.Background(), &Request{Path: "ref.csv", ChunkSize: 1 << 50, Persist: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ChunksWritten)
	assert.Equal(t, 2, result.Store.Len())
	v, ok := store.Loyalty(100)
	require.True(t, ok)
	assert.Equal(t, "Loyality_mid", v)
}

func TestExecute_TrimsTrailingWhitespace(t *testing.T) {
	opener := ingestion.MapOpener{"ref.csv": "100,Loyality_on \n200, Loyality_off\t\n"}

	result, err := NewInteractor(opener, nil, logging.Discard()).
		Execute(context.Background(), &Request{Path: "ref.csv", ChunkSize: 10})
	require.NoError(t, err)

	v, ok := result.Store.Lookup(100)
	require.True(t, ok)
	assert.Equal(t, "Loyality_on", v)
	v, ok = result.Store.Lookup(200)
	require.True(t, ok)
	assert.Equal(t, "Loyality_off", v)
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("parse error", func(t *testing.T) {
		opener := ingestion.MapOpener{"ref.csv": "100,Loyality_on\nabc,Loyality_off\n"}
		_, err := NewInteractor(opener, nil, logging.Discard()).
			Execute(ctx, &Request{Path: "ref.csv", ChunkSize: 10})

		var pe *domain.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 2, pe.Line)
		assert.Equal(t, domain.FieldSKU, pe.Field)
	})

	t.Run("field count", func(t *testing.T) {
		opener := ingestion.MapOpener{"ref.csv": "100,Loyality_on,extra\n"}
		_, err := NewInteractor(opener, nil, logging.Discard()).
			Execute(ctx, &Request{Path: "ref.csv", ChunkSize: 10})

		assert.ErrorIs(t, err, domain.ErrFieldCount)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := NewInteractor(ingestion.MapOpener{}, nil, logging.Discard()).
			Execute(ctx, &Request{Path: "ref.csv", ChunkSize: 10})
		assert.Error(t, err)
	})

	t.Run("invalid request", func(t *testing.T) {
		interactor := NewInteractor(ingestion.MapOpener{}, nil, logging.Discard())

		_, err := interactor.Execute(ctx, &Request{ChunkSize: 10})
		assert.ErrorIs(t, err, domain.ErrMissingInput)

		_, err = interactor.Execute(ctx, &Request{Path: "ref.csv"})
		assert.ErrorIs(t, err, domain.ErrInvalidChunkSize)
	})

	t.Run("persistence failure", func(t *testing.T) {
		opener := ingestion.MapOpener{"ref.csv": testutil.ReferenceCSV}
		writer := &failingWriter{err: errors.New("disk full")}

		_, err := NewInteractor(opener, writer, logging.Discard()).
			Execute(ctx, &Request{Path: "ref.csv", ChunkSize: 10, Persist: true})

		var pe *domain.PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 0, pe.ChunkIndex)
		assert.Equal(t, 1, writer.calls)
	})
}
