package domain

import (
	"strconv"
	"strings"
)

// Column names used when reporting parse failures.
const (
	FieldSKU     = "sku"
	FieldValue   = "value"
	FieldID      = "id"
	FieldName    = "name"
	FieldAmount  = "amount"
	FieldPayload = "payload"
)

// Loyalty payloads the completion report counts.
const (
	PayloadLoyaltyOn  = "Loyality_on"
	PayloadLoyaltyOff = "Loyality_off"
)

const (
	referenceFieldCount = 2
	productFieldCount   = 5
)

// ReferenceRecord is one loyalty row: a product sku and the payload products
// with that sku receive.
type ReferenceRecord struct {
	Key   int64
	Value string
}

// ProductRecord is one product row. ID is the persistence key, SKU is the
// lookup key into the reference store and may repeat across rows.
type ProductRecord struct {
	ID      int64
	SKU     int64
	Name    string
	Amount  int64
	Payload string
}

// EnrichedProduct is a ProductRecord after the enrichment step.
// WasEnriched is only used for reporting and is never persisted.
type EnrichedProduct struct {
	ProductRecord
	WasEnriched bool
}

// Chunk is a bounded batch of enriched products committed as one unit.
type Chunk struct {
	Index int
	Items []EnrichedProduct
}

// IDs returns the product ids in the chunk, in order.
func (c Chunk) IDs() []int64 {
	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Len returns the number of records in the chunk.
func (c Chunk) Len() int {
	return len(c.Items)
}

// maxChunkPrealloc bounds the buffer reserved up front for one chunk.
const maxChunkPrealloc = 1024

// ChunkCapacity returns the initial buffer capacity for chunks of size n.
// Larger chunks grow by append.
func ChunkCapacity(n int) int {
	return max(0, min(n, maxChunkPrealloc))
}

// ParseReferenceRow converts the fields of one reference row.
func ParseReferenceRow(source string, line int, fields []string) (ReferenceRecord, error) {
	if len(fields) != referenceFieldCount {
		return ReferenceRecord{}, &ParseError{Source: source, Line: line, Err: fieldCountErr(referenceFieldCount, len(fields))}
	}

	key, err := parseInt(source, line, FieldSKU, fields[0])
	if err != nil {
		return ReferenceRecord{}, err
	}

	return ReferenceRecord{
		Key:   key,
		Value: strings.TrimSpace(fields[1]),
	}, nil
}

// ParseProductRow converts the fields of one product row.
func ParseProductRow(source string, line int, fields []string) (ProductRecord, error) {
	if len(fields) != productFieldCount {
		return ProductRecord{}, &ParseError{Source: source, Line: line, Err: fieldCountErr(productFieldCount, len(fields))}
	}

	id, err := parseInt(source, line, FieldID, fields[0])
	if err != nil {
		return ProductRecord{}, err
	}
	sku, err := parseInt(source, line, FieldSKU, fields[1])
	if err != nil {
		return ProductRecord{}, err
	}
	amount, err := parseInt(source, line, FieldAmount, fields[3])
	if err != nil {
		return ProductRecord{}, err
	}

	return ProductRecord{
		ID:      id,
		SKU:     sku,
		Name:    strings.TrimSpace(fields[2]),
		Amount:  amount,
		Payload: strings.TrimSpace(fields[4]),
	}, nil
}

func parseInt(source string, line int, field, raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &ParseError{Source: source, Line: line, Field: field, Err: ErrInvalidNumber}
	}
	return v, nil
}

func fieldCountErr(want, got int) error {
	return &fieldCountError{want: want, got: got}
}

type fieldCountError struct {
	want, got int
}

func (e *fieldCountError) Error() string {
	return ErrFieldCount.Error() + ": want " + strconv.Itoa(e.want) + ", got " + strconv.Itoa(e.got)
}

func (e *fieldCountError) Unwrap() error { return ErrFieldCount }
