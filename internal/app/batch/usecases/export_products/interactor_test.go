package export_products

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/app/batch/repo"
	"github.com/light-bringer/procat-batch/internal/pkg/clock"
	"github.com/light-bringer/procat-batch/internal/pkg/logging"
	"github.com/light-bringer/procat-batch/internal/testutil"
)

type fakeUploader struct {
	localPath, objectName string
	err                   error
}

func (u *fakeUploader) Upload(_ context.Context, localPath, objectName string) error {
	u.localPath, u.objectName = localPath, objectName
	return u.err
}

func seededStore(t *testing.T) *repo.MemoryStore {
	t.Helper()
	store := repo.NewMemoryStore()
	require.NoError(t, store.WriteChunk(context.Background(), testutil.ProductChunk(0,
		domain.ProductRecord{ID: 2, SKU: 300, Name: "Gadget", Amount: 3, Payload: "orig2"},
		domain.ProductRecord{ID: 1, SKU: 100, Name: "Widget, large", Amount: 5, Payload: "Loyality_on"},
	)))
	return store
}

func fixedClock() clock.Clock {
	return clock.NewMockClock(time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	interactor := NewInteractor(seededStore(t), nil, fixedClock(), dir, logging.Discard())

	result, err := interactor.ExportAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "all_products_20240309_140507.csv"), result.Path)
	assert.Equal(t, 2, result.Rows)
	assert.False(t, result.Uploaded)

	assert.Equal(t, [][]string{
		{"ID", "SKU", "Name", "Amount", "Payload"},
		{"1", "100", "Widget, large", "5", "Loyality_on"},
		{"2", "300", "Gadget", "3", "orig2"},
	}, readCSV(t, result.Path))
}

func TestExportByPayload(t *testing.T) {
	dir := t.TempDir()
	uploader := &fakeUploader{}
	interactor := NewInteractor(seededStore(t), uploader, fixedClock(), dir, logging.Discard())

	result, err := interactor.ExportByPayload(context.Background(), "Loyality_on")
	require.NoError(t, err)

	assert.Equal(t, "products_loyality_on_20240309_140507.csv", result.ObjectName)
	assert.Equal(t, 1, result.Rows)
	assert.True(t, result.Uploaded)
	assert.Equal(t, result.Path, uploader.localPath)
	assert.Equal(t, result.ObjectName, uploader.objectName)
	assert.Len(t, readCSV(t, result.Path), 2)
}

func TestExportByPayload_Naming(t *testing.T) {
	interactor := NewInteractor(repo.NewMemoryStore(), nil, fixedClock(), t.TempDir(), logging.Discard())

	result, err := interactor.ExportByPayload(context.Background(), "Gold Tier")
	require.NoError(t, err)
	assert.Equal(t, "products_gold_tier_20240309_140507.csv", result.ObjectName)
	assert.Equal(t, [][]string{Header}, readCSV(t, result.Path))

	_, err = interactor.ExportByPayload(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestExport_UploadFailure(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("bucket missing")}
	interactor := NewInteractor(seededStore(t), uploader, fixedClock(), t.TempDir(), logging.Discard())

	result, err := interactor.ExportAll(context.Background())
	assert.ErrorIs(t, err, uploader.err)
	require.NotNil(t, result)
	assert.False(t, result.Uploaded)
	assert.FileExists(t, result.Path)
}
