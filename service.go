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


package moonatlas

import (
	"context"
	"log/slog"

	"github.com/jovianatlas/moonatlas/ai"
	"github.com/jovianatlas/moonatlas/ai/openai"
	"github.com/jovianatlas/moonatlas/chat"
	"github.com/jovianatlas/moonatlas/config"
	"github.com/jovianatlas/moonatlas/ingestion"
	"github.com/jovianatlas/moonatlas/vectorstore"
	"github.com/jovianatlas/moonatlas/vectorstore/pinecone"
)

// Service wires the AI provider and the vector store together from one
// configuration. The serve, ingest, and review commands all start here.
type Service struct {
	cfg      *config.Config
	provider ai.Provider
	store    *pinecone.Store
	cache    *ingestion.Cache
	logger   *slog.Logger
}

// NewService validates the configuration, connects to the AI provider and
// the vector index, and opens the local embedding cache when one is
// configured. The index is created on first use.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	aiOpts := []ai.ConfigOption{
		ai.WithAPIKey(cfg.OpenAIKey),
		ai.WithChatModel(cfg.ChatModel),
		ai.WithEmbeddingModel(cfg.EmbeddingModel, cfg.Dimension),
		ai.WithTemperature(cfg.Temperature),
	}
	if cfg.OpenAIBaseURL != "" {
		aiOpts = append(aiOpts, ai.WithBaseURL(cfg.OpenAIBaseURL))
	}

	provider, err := openai.NewProvider(ai.NewConfig(aiOpts...))
	if err != nil {
		return nil, err
	}

	store, err := pinecone.NewStore(ctx, pinecone.Config{
		APIKey:    cfg.PineconeKey,
		IndexName: cfg.IndexName,
		Namespace: cfg.Namespace,
		Dimension: cfg.Dimension,
		Cloud:     cfg.Cloud,
		Region:    cfg.Region,
	})
	if err != nil {
		provider.Close()
		return nil, err
	}

	var cache *ingestion.Cache
	if cfg.CacheDir != "" {
		cache, err = ingestion.OpenCache(cfg.CacheDir)
		if err != nil {
			provider.Close()
			return nil, err
		}
	}

	return &Service{
		cfg:      cfg,
		provider: provider,
		store:    store,
		cache:    cache,
		logger:   slog.Default(),
	}, nil
}

// Close releases the provider and the embedding cache.
func (s *Service) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("error closing embedding cache", "err", err)
			return err
		}
	}
	return nil
}

// Store returns the vector store.
func (s *Service) Store() vectorstore.VectorStore {
	return s.store
}

// Provider returns the AI provider.
func (s *Service) Provider() ai.Provider {
	return s.provider
}

// NewIngestionPipeline builds an ingestion pipeline from the service's
// configuration; the embedding cache is attached when open.
func (s *Service) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{ingestion.WithBatchSize(s.cfg.BatchSize)}
	if s.cache != nil {
		base = append(base, ingestion.WithCache(s.cache, s.cfg.EmbeddingModel))
	}
	return ingestion.NewPipeline(s.provider.Embedder(), s.store, append(base, opts...)...)
}

// NewOrchestrator builds the chat orchestrator from the service's
// configuration.
func (s *Service) NewOrchestrator(opts ...chat.Option) (*chat.Orchestrator, error) {
	base := []chat.Option{chat.WithTopK(s.cfg.TopK)}
	return chat.NewOrchestrator(s.provider, s.store, append(base, opts...)...)
}
