package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jovianatlas/moonatlas/ai"
	"github.com/jovianatlas/moonatlas/retry"
)

// BatchEmbedder turns an ordered sequence of texts into one vector per
// text, preserving order, by issuing embedding calls in bounded batches.
// Batches run strictly sequentially.
type BatchEmbedder struct {
	embedder  ai.Embedder
	batchSize int
	policy    retry.Policy
	logger    *slog.Logger
}

// NewBatchEmbedder creates a batch embedder. batchSize bounds each
// provider call; values below 1 are raised to 1.
func NewBatchEmbedder(embedder ai.Embedder, batchSize int, policy retry.Policy) (*BatchEmbedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &BatchEmbedder{
		embedder:  embedder,
		batchSize: batchSize,
		policy:    policy,
		logger:    slog.Default().With("component", "batch-embedder"),
	}, nil
}

// EmbedTexts embeds all texts in batches of at most the configured size.
// The returned vectors are in input order. On a rate-limit-class failure a
// batch is halved and each half retried once; any other failure goes
// through the shared retry policy. Failure after retries is fatal for the
// whole run — vectors are never fabricated.
func (be *BatchEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += be.batchSize {
		end := min(start+be.batchSize, len(texts))
		batch := texts[start:end]

		batchVectors, err := be.embedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embedding batch starting at %d: %w", start, err)
		}
		vectors = append(vectors, batchVectors...)
	}

	return vectors, nil
}

// embedBatch embeds one batch under the retry policy, with a single
// halve-and-retry fallback for rate-limit rejections.
func (be *BatchEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	var vectors [][]float32
	err := be.policy.Do(ctx, func() error {
		var embErr error
		vectors, embErr = be.embedder.EmbedTexts(ctx, batch)
		return embErr
	})

	if err != nil && ai.IsRateLimitError(err) && len(batch) > 1 {
		be.logger.Warn("rate limited, halving batch and retrying once",
			"batchSize", len(batch), "err", err)
		mid := len(batch) / 2
		first, firstErr := be.embedder.EmbedTexts(ctx, batch[:mid])
		if firstErr != nil {
			return nil, firstErr
		}
		second, secondErr := be.embedder.EmbedTexts(ctx, batch[mid:])
		if secondErr != nil {
			return nil, secondErr
		}
		vectors = append(first, second...)
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
	}
	return vectors, nil
}
