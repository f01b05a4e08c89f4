package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/jovianatlas/moonatlas/core"
	"github.com/jovianatlas/moonatlas/vectorstore"
)

// MockStore is an in-memory vectorstore.VectorStore for tests. Queries rank
// by cosine similarity, matching the metric of the real index.
type MockStore struct {
	// UpsertFunc overrides Upsert if set.
	UpsertFunc func(ctx context.Context, records []vectorstore.Record) error

	// QueryFunc overrides Query if set.
	QueryFunc func(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error)

	mu      sync.Mutex
	records map[string]vectorstore.Record
	upserts int
}

var _ vectorstore.VectorStore = (*MockStore)(nil)

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{records: make(map[string]vectorstore.Record)}
}

// Upsert stores records keyed by id; re-upserting an id replaces it.
func (s *MockStore) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if s.UpsertFunc != nil {
		return s.UpsertFunc(ctx, records)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.records[record.ID] = record
	}
	s.upserts++
	return nil
}

// Query ranks all stored records by cosine similarity to the query vector.
func (s *MockStore) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	if s.QueryFunc != nil {
		return s.QueryFunc(ctx, vector, topK)
	}
	if len(vector) == 0 {
		return nil, vectorstore.ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, vectorstore.ErrInvalidTopK
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]vectorstore.Match, 0, len(s.records))
	for _, record := range s.records {
		matches = append(matches, vectorstore.Match{
			ID:       record.ID,
			Score:    core.CosineSimilarity(vector, record.Values),
			Metadata: record.Metadata,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Stats reports the stored vector count under a single namespace.
func (s *MockStore) Stats(ctx context.Context) (vectorstore.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dim uint32
	for _, record := range s.records {
		dim = uint32(len(record.Values))
		break
	}
	return vectorstore.Stats{
		Dimension:    dim,
		TotalVectors: uint32(len(s.records)),
		Namespaces:   map[string]uint32{"mock": uint32(len(s.records))},
	}, nil
}

// Len returns the number of stored records.
func (s *MockStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// UpsertCalls returns the number of Upsert invocations.
func (s *MockStore) UpsertCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

// Get returns the stored record for an id, if present.
func (s *MockStore) Get(id string) (vectorstore.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	return record, ok
}
