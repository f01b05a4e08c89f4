package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jovianatlas/moonatlas/ai/mock"
	"github.com/jovianatlas/moonatlas/retry"
)

func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, Jitter: false}
}

func TestNewBatchEmbedder(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewBatchEmbedder(nil, 10, testPolicy())
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("batch size floor", func(t *testing.T) {
		be, err := NewBatchEmbedder(mock.NewMockEmbedder(), 0, testPolicy())
		require.NoError(t, err)
		assert.Equal(t, 1, be.batchSize)
	})
}

func TestBatchEmbedderOrderPreservation(t *testing.T) {
	texts := make([]string, 25)
	for i := range texts {
		texts[i] = fmt.Sprintf("moon fact %d", i)
	}

	embedder := mock.NewMockEmbedder()
	reference, err := embedder.EmbedTexts(context.Background(), texts)
	require.NoError(t, err)

	// The same vectors come back in the same order regardless of batch size
	for _, batchSize := range []int{1, 3, 7, 25, 100} {
		t.Run(fmt.Sprintf("batch size %d", batchSize), func(t *testing.T) {
			be, err := NewBatchEmbedder(mock.NewMockEmbedder(), batchSize, testPolicy())
			require.NoError(t, err)

			vectors, err := be.EmbedTexts(context.Background(), texts)
			require.NoError(t, err)
			require.Len(t, vectors, len(texts))
			assert.Equal(t, reference, vectors)
		})
	}
}

func TestBatchEmbedderRateLimitHalving(t *testing.T) {
	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		// Reject the full batch with a rate-limit error, accept halves
		if len(texts) > 2 {
			return nil, errors.New("429 too many requests")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{float32(i)}
		}
		return vectors, nil
	}

	be, err := NewBatchEmbedder(embedder, 4, retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond})
	require.NoError(t, err)

	vectors, err := be.EmbedTexts(context.Background(), []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.Len(t, vectors, 4)
	// One rejected full batch plus two successful halves
	assert.Equal(t, 3, calls)
}

func TestBatchEmbedderFailures(t *testing.T) {
	t.Run("non rate-limit failure propagates", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("embedding service down")
		}
		be, err := NewBatchEmbedder(embedder, 10, testPolicy())
		require.NoError(t, err)

		_, err = be.EmbedTexts(context.Background(), []string{"a", "b"})
		assert.ErrorContains(t, err, "embedding service down")
	})

	t.Run("rate limit failure after halving propagates", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("rate limit exceeded")
		}
		be, err := NewBatchEmbedder(embedder, 4, testPolicy())
		require.NoError(t, err)

		_, err = be.EmbedTexts(context.Background(), []string{"a", "b", "c", "d"})
		assert.ErrorContains(t, err, "rate limit")
	})

	t.Run("count mismatch detected", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{0.1}}, nil
		}
		be, err := NewBatchEmbedder(embedder, 10, testPolicy())
		require.NoError(t, err)

		_, err = be.EmbedTexts(context.Background(), []string{"a", "b"})
		assert.ErrorContains(t, err, "mismatch")
	})

	t.Run("empty input", func(t *testing.T) {
		be, err := NewBatchEmbedder(mock.NewMockEmbedder(), 10, testPolicy())
		require.NoError(t, err)

		vectors, err := be.EmbedTexts(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, vectors)
	})
}
