// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"log/slog"
	"maps"

	"github.com/jovianatlas/moonatlas/ai"
	"github.com/jovianatlas/moonatlas/core"
	"github.com/jovianatlas/moonatlas/retry"
	"github.com/jovianatlas/moonatlas/vectorstore"
)

// defaultBatchSize bounds both embedding calls and upsert requests.
const defaultBatchSize = 100

// Pipeline orchestrates ingestion: group rows into per-moon documents,
// split on heading boundaries, embed chunk texts, upsert vectors. Batches
// run strictly sequentially; one batch's upsert completes before the next
// batch's embedding begins.
type Pipeline struct {
	embedder   ai.Embedder
	store      vectorstore.VectorStore
	batch      *BatchEmbedder
	cache      *Cache
	cacheModel string
	batchSize  int
	policy     retry.Policy
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithBatchSize sets the embedding/upsert batch size. Default is 100.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetryPolicy sets the retry policy for embedding calls.
// Default is retry.DefaultPolicy().
func WithRetryPolicy(policy retry.Policy) Option {
	return func(p *Pipeline) error {
		p.policy = policy
		return nil
	}
}

// WithCache attaches a local embedding cache. Cached vectors are keyed by
// chunk id and the given model name; hits skip the provider call.
func WithCache(cache *Cache, model string) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		p.cacheModel = model
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(embedder ai.Embedder, store vectorstore.VectorStore, opts ...Option) (*Pipeline, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	p := &Pipeline{
		embedder:  embedder,
		store:     store,
		batchSize: defaultBatchSize,
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	// Create the batch embedder after options are applied so it gets the
	// final batch size and policy.
	batch, err := NewBatchEmbedder(embedder, p.batchSize, p.policy)
	if err != nil {
		return nil, err
	}
	p.batch = batch

	return p, nil
}

// Report summarizes one ingestion run.
type Report struct {
	Documents int
	Chunks    int
	Embedded  int
	CacheHits int
}

// Run ingests the rows end to end: group, split, embed, upsert.
// Malformed rows fail the run before any remote call is made.
func (p *Pipeline) Run(ctx context.Context, rows []core.SourceRow) (*Report, error) {
	documents, err := GroupRows(rows)
	if err != nil {
		return nil, err
	}

	var chunks []core.Chunk
	for _, doc := range documents {
		chunks = append(chunks, SplitDocument(doc)...)
	}

	p.logger.Info("ingesting chunks", "documents", len(documents), "chunks", len(chunks))

	report := &Report{Documents: len(documents), Chunks: len(chunks)}

	for start := 0; start < len(chunks); start += p.batchSize {
		end := min(start+p.batchSize, len(chunks))
		if err := p.ingestBatch(ctx, chunks[start:end], report); err != nil {
			return nil, err
		}
		p.logger.Info("upserted batch", "batch", start/p.batchSize+1, "size", end-start)
	}

	return report, nil
}

// ingestBatch embeds one batch of chunks (consulting the cache when
// configured) and upserts the resulting vectors. Embeddings are
// L2-normalized before caching and upsert so stored magnitudes are
// uniform.
func (p *Pipeline) ingestBatch(ctx context.Context, chunks []core.Chunk, report *Report) error {
	vectors := make([][]float32, len(chunks))

	var missing []int
	var missingTexts []string
	for i, chunk := range chunks {
		if cached, ok := p.cachedVector(chunk.Id); ok {
			vectors[i] = cached
			report.CacheHits++
			continue
		}
		missing = append(missing, i)
		missingTexts = append(missingTexts, chunk.Text)
	}

	if len(missing) > 0 {
		embedded, err := p.batch.EmbedTexts(ctx, missingTexts)
		if err != nil {
			return err
		}
		for j, i := range missing {
			vector := core.NormalizeVector(embedded[j])
			vectors[i] = vector
			p.storeVector(chunks[i].Id, vector)
		}
		report.Embedded += len(missing)
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunkRecord(chunk, vectors[i])
	}
	return p.store.Upsert(ctx, records)
}

func (p *Pipeline) cachedVector(id core.ID) ([]float32, bool) {
	if p.cache == nil {
		return nil, false
	}
	vector, ok, err := p.cache.Get(id, p.cacheModel)
	if err != nil {
		// A broken cache never fails the run; fall through to the provider.
		p.logger.Warn("embedding cache read failed", "id", id.String(), "err", err)
		return nil, false
	}
	return vector, ok
}

func (p *Pipeline) storeVector(id core.ID, vector []float32) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Put(id, p.cacheModel, vector); err != nil {
		p.logger.Warn("embedding cache write failed", "id", id.String(), "err", err)
	}
}

// chunkRecord builds the stored form of a chunk: its deterministic id, the
// embedding, and metadata carrying the text and source for retrieval.
func chunkRecord(chunk core.Chunk, vector []float32) vectorstore.Record {
	metadata := maps.Clone(chunk.Metadata)
	if metadata == nil {
		metadata = make(map[string]any, 2)
	}
	metadata[vectorstore.TextMetadataKey] = chunk.Text
	metadata["source_url"] = chunk.SourceURL

	return vectorstore.Record{
		ID:       chunk.Id.String(),
		Values:   vector,
		Metadata: metadata,
	}
}
