package vectorstore

import "context"

// Record is one stored vector: an identifier, the embedding values, and
// metadata. The chunk's text travels in metadata under TextMetadataKey so
// that similarity matches can be rendered without a second lookup.
type Record struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// TextMetadataKey is the metadata key carrying the chunk text.
const TextMetadataKey = "text"

// Match is one ranked result of a similarity query.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// Text returns the chunk text stored with the match, if any.
func (m Match) Text() string {
	if m.Metadata == nil {
		return ""
	}
	if s, ok := m.Metadata[TextMetadataKey].(string); ok {
		return s
	}
	return ""
}

// Stats summarizes the state of the index.
type Stats struct {
	Dimension    uint32
	TotalVectors uint32
	Namespaces   map[string]uint32
}

// VectorStore is the contract for the managed vector index. A store is
// bound to one namespace; upserting an existing id replaces its vector and
// metadata. Implementations must be safe for concurrent use.
type VectorStore interface {
	// Upsert writes records to the store's namespace.
	Upsert(ctx context.Context, records []Record) error

	// Query returns up to topK records nearest the query vector, ranked by
	// descending similarity.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)

	// Stats reports vector counts for the whole index.
	Stats(ctx context.Context) (Stats, error)
}
