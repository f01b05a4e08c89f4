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


package pinecone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pinecone-io/go-pinecone/v2/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jovianatlas/moonatlas/vectorstore"
)

const (
	// upsertBatchSize bounds each upsert request.
	upsertBatchSize = 100

	// readyPollInterval and readyTimeout bound the wait for a freshly
	// created serverless index to become queryable.
	readyPollInterval = 2 * time.Second
	readyTimeout      = 2 * time.Minute
)

// Config holds the settings for one Pinecone-backed store.
type Config struct {
	APIKey    string
	IndexName string
	Namespace string
	Dimension int
	Cloud     string // serverless cloud, e.g. "aws"
	Region    string // serverless region, e.g. "us-east-1"
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("pinecone config: APIKey is required")
	}
	if c.IndexName == "" {
		return errors.New("pinecone config: IndexName is required")
	}
	if c.Namespace == "" {
		return errors.New("pinecone config: Namespace is required")
	}
	if c.Dimension <= 0 {
		return errors.New("pinecone config: Dimension must be positive")
	}
	if c.Cloud == "" {
		return errors.New("pinecone config: Cloud is required")
	}
	if c.Region == "" {
		return errors.New("pinecone config: Region is required")
	}
	return nil
}

// Store implements vectorstore.VectorStore against a Pinecone serverless
// index, scoped to a single namespace.
type Store struct {
	client *pinecone.Client
	conn   *pinecone.IndexConnection
	config Config
	logger *slog.Logger
}

var _ vectorstore.VectorStore = (*Store)(nil)

// NewStore connects to the configured index, creating it if it does not
// exist (cosine metric, the configured dimension), and waits for a freshly
// created index to become ready.
func NewStore(ctx context.Context, config Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: config.APIKey})
	if err != nil {
		return nil, fmt.Errorf("creating pinecone client: %w", err)
	}

	logger := slog.Default().With("component", "pinecone-store", "index", config.IndexName)

	index, err := ensureIndex(ctx, client, config, logger)
	if err != nil {
		return nil, err
	}

	conn, err := client.Index(pinecone.NewIndexConnParams{
		Host:      index.Host,
		Namespace: config.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to index %q: %w", config.IndexName, err)
	}

	return &Store{
		client: client,
		conn:   conn,
		config: config,
		logger: logger,
	}, nil
}

// ensureIndex returns the index description, creating the index first if
// the name is not present.
func ensureIndex(ctx context.Context, client *pinecone.Client, config Config, logger *slog.Logger) (*pinecone.Index, error) {
	indexes, err := client.ListIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}

	for _, idx := range indexes {
		if idx.Name == config.IndexName {
			return idx, nil
		}
	}

	logger.Info("index not found, creating serverless index",
		"dimension", config.Dimension, "cloud", config.Cloud, "region", config.Region)

	_, err = client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      config.IndexName,
		Dimension: int32(config.Dimension),
		Metric:    pinecone.Cosine,
		Cloud:     pinecone.Cloud(config.Cloud),
		Region:    config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating index %q: %w", config.IndexName, err)
	}

	return waitReady(ctx, client, config.IndexName)
}

// waitReady polls the index description until it reports ready.
func waitReady(ctx context.Context, client *pinecone.Client, name string) (*pinecone.Index, error) {
	deadline := time.Now().Add(readyTimeout)
	for {
		idx, err := client.DescribeIndex(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("describing index %q: %w", name, err)
		}
		if idx.Status != nil && idx.Status.Ready {
			return idx, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("index %q not ready after %s", name, readyTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(readyPollInterval):
		}
	}
}

// Upsert writes records in batches of at most 100. Re-upserting an id
// replaces its vector and metadata.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	for start := 0; start < len(records); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(records))
		batch := records[start:end]

		vectors := make([]*pinecone.Vector, 0, len(batch))
		for _, record := range batch {
			metadata, err := toMetadata(record.Metadata)
			if err != nil {
				return fmt.Errorf("encoding metadata for %q: %w", record.ID, err)
			}
			vectors = append(vectors, &pinecone.Vector{
				Id:       record.ID,
				Values:   record.Values,
				Metadata: metadata,
			})
		}

		count, err := s.conn.UpsertVectors(ctx, vectors)
		if err != nil {
			return fmt.Errorf("upserting batch of %d vectors: %w", len(vectors), err)
		}
		s.logger.Debug("upserted vector batch", "count", count, "namespace", s.config.Namespace)
	}
	return nil
}

// Query returns the topK nearest stored vectors with their metadata.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	if len(vector) == 0 {
		return nil, vectorstore.ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, vectorstore.ErrInvalidTopK
	}

	resp, err := s.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}

	matches := make([]vectorstore.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		match := vectorstore.Match{
			ID:    m.Vector.Id,
			Score: m.Score,
		}
		if m.Vector.Metadata != nil {
			match.Metadata = m.Vector.Metadata.AsMap()
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Stats reports vector counts for the whole index, per namespace.
func (s *Store) Stats(ctx context.Context) (vectorstore.Stats, error) {
	resp, err := s.conn.DescribeIndexStats(ctx)
	if err != nil {
		return vectorstore.Stats{}, fmt.Errorf("describing index stats: %w", err)
	}

	stats := vectorstore.Stats{
		Dimension:    resp.Dimension,
		TotalVectors: resp.TotalVectorCount,
		Namespaces:   make(map[string]uint32, len(resp.Namespaces)),
	}
	for name, summary := range resp.Namespaces {
		if summary != nil {
			stats.Namespaces[name] = summary.VectorCount
		}
	}
	return stats, nil
}

// toMetadata converts chunk metadata to the protobuf struct Pinecone
// expects. String slices are widened to []any first; structpb rejects
// concrete slice types.
func toMetadata(metadata map[string]any) (*pinecone.Metadata, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	clean := make(map[string]any, len(metadata))
	for key, value := range metadata {
		switch v := value.(type) {
		case []string:
			widened := make([]any, len(v))
			for i, s := range v {
				widened[i] = s
			}
			clean[key] = widened
		case int:
			clean[key] = float64(v)
		default:
			clean[key] = value
		}
	}
	return structpb.NewStruct(clean)
}
