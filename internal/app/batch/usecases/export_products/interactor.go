package export_products

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/pkg/clock"
)

const timestampLayout = "20060102_150405"

// Header is the first row of every export file.
var Header = []string{"ID", "SKU", "Name", "Amount", "Payload"}

// ErrEmptyPayload is returned when a payload export has no filter value.
var ErrEmptyPayload = errors.New("payload filter is required")

// Result describes one written export file.
type Result struct {
	Path       string
	ObjectName string
	Rows       int
	Uploaded   bool
}

// Interactor handles the export products use case.
type Interactor struct {
	readModel contracts.ReadModel
	uploader  contracts.ExportUploader
	clock     clock.Clock
	outputDir string
	logger    *slog.Logger
}

// NewInteractor creates a new export products interactor. uploader may be nil.
func NewInteractor(
	readModel contracts.ReadModel,
	uploader contracts.ExportUploader,
	clock clock.Clock,
	outputDir string,
	logger *slog.Logger,
) *Interactor {
	return &Interactor{
		readModel: readModel,
		uploader:  uploader,
		clock:     clock,
		outputDir: outputDir,
		logger:    logger,
	}
}

// ExportAll writes every persisted product to all_products_<ts>.csv.
func (i *Interactor) ExportAll(ctx context.Context) (*Result, error) {
	return i.export(ctx, "all_products", &contracts.ListFilter{})
}

// ExportByPayload writes the products carrying payload to
// products_<payload>_<ts>.csv.
func (i *Interactor) ExportByPayload(ctx context.Context, payload string) (*Result, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	prefix := "products_" + strings.ReplaceAll(strings.ToLower(payload), " ", "_")
	return i.export(ctx, prefix, &contracts.ListFilter{Payload: payload})
}

func (i *Interactor) export(ctx context.Context, prefix string, filter *contracts.ListFilter) (*Result, error) {
	// 1. Ensure output directory
	if err := os.MkdirAll(i.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// 2. Read products
	products, err := i.readModel.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	// 3. Write file
	name := fmt.Sprintf("%s_%s.csv", prefix, i.clock.Now().Format(timestampLayout))
	path := filepath.Join(i.outputDir, name)
	if err := writeFile(path, products); err != nil {
		return nil, err
	}

	result := &Result{Path: path, ObjectName: name, Rows: len(products)}

	// 4. Upload when configured
	if i.uploader != nil {
		if err := i.uploader.Upload(ctx, path, name); err != nil {
			return result, fmt.Errorf("failed to upload export: %w", err)
		}
		result.Uploaded = true
	}

	i.logger.InfoContext(ctx, "products exported",
		"path", path,
		"rows", result.Rows,
		"uploaded", result.Uploaded,
	)

	return result, nil
}

func writeFile(path string, products []domain.ProductRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range products {
		row := []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.SKU, 10),
			p.Name,
			strconv.FormatInt(p.Amount, 10),
			p.Payload,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write product %d: %w", p.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush export file: %w", err)
	}
	return nil
}
