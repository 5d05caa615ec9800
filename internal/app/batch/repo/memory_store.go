package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// MemoryStore keeps the products and loyalty_data tables in process memory.
// It implements ProductWriter, ReferenceWriter and ReadModel.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]domain.ProductRecord
	loyalty  map[int64]string
	commits  int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.ProductRecord),
		loyalty:  make(map[int64]string),
	}
}

var (
	_ contracts.ProductWriter   = (*MemoryStore)(nil)
	_ contracts.ReferenceWriter = (*MemoryStore)(nil)
	_ contracts.ReadModel       = (*MemoryStore)(nil)
)

// WriteChunk upserts every row of the chunk under one lock.
func (s *MemoryStore) WriteChunk(ctx context.Context, chunk domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return domain.NewPersistenceError(chunk, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range chunk.Items {
		s.products[item.ID] = item.ProductRecord
	}
	s.commits++
	return nil
}

// WriteReferences upserts loyalty rows under one lock.
func (s *MemoryStore) WriteReferences(ctx context.Context, chunkIndex int, records []domain.ReferenceRecord) error {
	if err := ctx.Err(); err != nil {
		return &domain.PersistenceError{ChunkIndex: chunkIndex, IDs: referenceKeys(records), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		s.loyalty[rec.Key] = rec.Value
	}
	s.commits++
	return nil
}

// CountProducts returns the number of stored products.
func (s *MemoryStore) CountProducts(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

// CountByPayload returns the number of stored products carrying payload.
func (s *MemoryStore) CountByPayload(ctx context.Context, payload string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.products {
		if p.Payload == payload {
			n++
		}
	}
	return n, nil
}

// ListProducts returns stored products ordered by id.
func (s *MemoryStore) ListProducts(ctx context.Context, filter *contracts.ListFilter) ([]domain.ProductRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProductRecord, 0, len(s.products))
	for _, p := range s.products {
		if filter != nil && filter.Payload != "" && p.Payload != filter.Payload {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter != nil && filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Loyalty returns the stored loyalty value for sku.
func (s *MemoryStore) Loyalty(sku int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.loyalty[sku]
	return v, ok
}

// Product returns the stored product with id.
func (s *MemoryStore) Product(id int64) (domain.ProductRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// Commits returns the number of successful writes.
func (s *MemoryStore) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}
