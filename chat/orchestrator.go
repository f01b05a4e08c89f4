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

package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jovianatlas/moonatlas/ai"
	"github.com/jovianatlas/moonatlas/core"
	"github.com/jovianatlas/moonatlas/retry"
	"github.com/jovianatlas/moonatlas/vectorstore"
)

const defaultTopK = 5

// Orchestrator answers questions with retrieval-augmented generation: it
// embeds the question, retrieves the nearest chunks from the vector store,
// assembles a prompt with the conversation history, and makes a single
// chat-model call.
type Orchestrator struct {
	embedder  ai.Embedder
	generator ai.Generator
	store     vectorstore.VectorStore
	topK      int
	policy    retry.Policy
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithTopK sets how many chunks are retrieved per question.
// Default is 5.
func WithTopK(topK int) Option {
	return func(o *Orchestrator) error {
		if topK <= 0 {
			return vectorstore.ErrInvalidTopK
		}
		o.topK = topK
		return nil
	}
}

// WithRetryPolicy sets the retry policy for embedding and retrieval calls.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(o *Orchestrator) error {
		o.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(
	provider ai.Provider,
	store vectorstore.VectorStore,
	opts ...Option,
) (*Orchestrator, error) {
	if provider == nil {
		return nil, ErrGeneratorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	o := &Orchestrator{
		embedder:  provider.Embedder(),
		generator: provider.Generator(),
		store:     store,
		topK:      defaultTopK,
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default(),
	}
	if o.embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if o.generator == nil {
		return nil, ErrGeneratorRequired
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	o.logger = o.logger.With("component", "orchestrator")
	return o, nil
}

// Answer runs one retrieval-augmented turn. The history is the prior
// conversation in chronological order; it shapes the prompt but is never
// embedded or used for retrieval. The returned Context holds exactly the
// chunk texts that were placed in the prompt, in retrieval rank order.
func (o *Orchestrator) Answer(ctx context.Context, question string, history []core.Message) (*core.RetrievalResult, error) {
	if question == "" {
		return nil, core.ErrEmptyQuestion
	}
	for i := range history {
		if err := core.ValidateMessage(&history[i]); err != nil {
			return nil, err
		}
	}

	// 1. Embed the question
	var embedding []float32
	err := o.policy.Do(ctx, func() error {
		var embedErr error
		embedding, embedErr = o.embedder.EmbedText(ctx, question)
		return embedErr
	})
	if err != nil {
		o.logger.Error("error embedding question", "err", err)
		return nil, fmt.Errorf("%w: embedding question: %w", core.ErrUpstreamCall, err)
	}

	// 2. Retrieve the nearest chunks. Queries use unit-length vectors,
	// matching what ingestion stores.
	embedding = core.NormalizeVector(embedding)
	var matches []vectorstore.Match
	err = o.policy.Do(ctx, func() error {
		var queryErr error
		matches, queryErr = o.store.Query(ctx, embedding, o.topK)
		return queryErr
	})
	if err != nil {
		o.logger.Error("error querying vector store", "topK", o.topK, "err", err)
		return nil, fmt.Errorf("%w: querying index: %w", core.ErrUpstreamCall, err)
	}

	contextTexts := make([]string, 0, len(matches))
	for _, match := range matches {
		if text := match.Text(); text != "" {
			contextTexts = append(contextTexts, text)
		}
	}
	o.logger.Debug("retrieved context", "matches", len(matches), "texts", len(contextTexts))

	// 3. One model call with the assembled prompt
	finalTurn := BuildFinalTurn(contextTexts, question)
	var answer string
	err = o.policy.Do(ctx, func() error {
		var genErr error
		answer, genErr = o.generator.Generate(ctx, SystemInstruction, history, finalTurn)
		return genErr
	})
	if err != nil {
		o.logger.Error("error generating answer", "err", err)
		return nil, fmt.Errorf("%w: generating answer: %w", core.ErrUpstreamCall, err)
	}

	return &core.RetrievalResult{
		Answer:  answer,
		Context: contextTexts,
	}, nil
}

// TopK reports how many chunks the orchestrator retrieves per question.
func (o *Orchestrator) TopK() int {
	return o.topK
}
