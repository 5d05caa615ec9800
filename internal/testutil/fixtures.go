package testutil

import (
	"time"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/pkg/clock"
)

// Reference and product inputs of the canonical enrichment scenario.
const (
	ReferenceCSV = "100,Loyality_on\n200,Loyality_off\n100,Loyality_mid\n"
	ProductCSV   = "1,100,Widget,5,orig1\n2,300,Gadget,3,orig2\n"
)

// ScenarioExpected is the products table after the canonical scenario.
var ScenarioExpected = []domain.ProductRecord{
	{ID: 1, SKU: 100, Name: "Widget", Amount: 5, Payload: "Loyality_mid"},
	{ID: 2, SKU: 300, Name: "Gadget", Amount: 3, Payload: "orig2"},
}

// NewMockClock creates a mock clock that can be controlled in tests.
func NewMockClock() *clock.MockClock {
	return clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

// ProductChunk builds a chunk of unenriched products.
func ProductChunk(index int, products ...domain.ProductRecord) domain.Chunk {
	items := make([]domain.EnrichedProduct, 0, len(products))
	for _, p := range products {
		items = append(items, domain.EnrichedProduct{ProductRecord: p})
	}
	return domain.Chunk{Index: index, Items: items}
}
