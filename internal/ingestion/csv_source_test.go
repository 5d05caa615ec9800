package ingestion

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

func readAll(t *testing.T, src contracts.RowSource) []contracts.Row {
	t.Helper()
	var rows []contracts.Row
	for {
		row, err := src.Next(context.Background())
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestCSVSource_Rows(t *testing.T) {
	src := FromString("product.csv", "1,100,Widget,5,orig1\n\n2, 300,Gadget,3,orig2\n")

	rows := readAll(t, src)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, []string{"1", "100", "Widget", "5", "orig1"}, rows[0].Fields)
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, []string{"2", "300", "Gadget", "3", "orig2"}, rows[1].Fields)
	assert.NoError(t, src.Close())
}

func TestCSVSource_VariableFieldCount(t *testing.T) {
	src := FromString("loyalty.csv", "100,Loyality_on\n200\n")

	rows := readAll(t, src)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1].Fields, 1)
}

func TestCSVSource_SyntaxError(t *testing.T) {
	src := FromString("loyalty.csv", "100,Loyality_on\n200,\"broken\n")

	_, err := src.Next(context.Background())
	require.NoError(t, err)

	_, err = src.Next(context.Background())
	var pe *domain.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "loyalty.csv", pe.Source)
	assert.Equal(t, 2, pe.Line)
}

func TestCSVSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromString("x", "1,a\n").Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileOpener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loyalty.csv")
	require.NoError(t, os.WriteFile(path, []byte("100,Loyality_on\n"), 0o600))

	opener := NewFileOpener()
	src, err := opener.Open(context.Background(), path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, path, src.Name())
	rows := readAll(t, src)
	require.Len(t, rows, 1)

	_, err = opener.Open(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingInput)

	_, err = opener.Open(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMapOpener(t *testing.T) {
	opener := MapOpener{"ref": "100,Loyality_on\n"}

	src, err := opener.Open(context.Background(), "ref")
	require.NoError(t, err)
	assert.Len(t, readAll(t, src), 1)

	_, err = opener.Open(context.Background(), "other")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
