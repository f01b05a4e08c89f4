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

package telemetry

import (
	"context"
	"log/slog"
	"strings"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jovianatlas/moonatlas/core"
)

const (
	tracerName       = "github.com/jovianatlas/moonatlas/telemetry"
	defaultPoolSize  = 4
	workflowSpanName = "moon_atlas_workflow"
)

// Interaction is one completed chat turn, ready to be recorded.
type Interaction struct {
	// SessionID groups the turns of one conversation.
	SessionID string

	// Question is the user's standalone question for this turn.
	Question string

	// Context holds the retrieved chunk texts that were placed in the
	// prompt, in rank order.
	Context []string

	// Answer is the model's reply.
	Answer string

	// History is the prior conversation, oldest first.
	History []core.Message

	// Model names the chat model that produced the answer.
	Model string
}

// Observer records chat interactions as trace spans. Recording is
// fire-and-forget: Observe enqueues the interaction on a worker pool and
// returns immediately; export failures are logged and never surfaced to
// the serving path.
type Observer struct {
	tracer      trace.Tracer
	pool        *ants.Pool
	environment string
	logger      *slog.Logger
}

// ObserverOption configures an Observer.
type ObserverOption func(*Observer) error

// WithEnvironment tags generation spans with a deployment environment.
// Default is "production".
func WithEnvironment(env string) ObserverOption {
	return func(o *Observer) error {
		if env != "" {
			o.environment = env
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for span export.
// Default is 4.
func WithPoolSize(size int) ObserverOption {
	return func(o *Observer) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithObserverLogger sets a custom logger.
// Default is slog.Default().
func WithObserverLogger(logger *slog.Logger) ObserverOption {
	return func(o *Observer) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithTracer overrides the tracer. Intended for tests; the default tracer
// comes from the global provider set up by InitTracing.
func WithTracer(tracer trace.Tracer) ObserverOption {
	return func(o *Observer) error {
		if tracer != nil {
			o.tracer = tracer
		}
		return nil
	}
}

// NewObserver creates an observer backed by the global tracer provider.
func NewObserver(opts ...ObserverOption) (*Observer, error) {
	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	o := &Observer{
		tracer:      otel.Tracer(tracerName),
		pool:        pool,
		environment: "production",
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			o.pool.Release()
			return nil, err
		}
	}

	o.logger = o.logger.With("component", "telemetry")
	return o, nil
}

// Observe records the interaction asynchronously. It never blocks on span
// export and never returns an error to the caller.
func (o *Observer) Observe(interaction Interaction) {
	err := o.pool.Submit(func() {
		o.record(interaction)
	})
	if err != nil {
		o.logger.Warn("telemetry submission failed", "session", interaction.SessionID, "err", err)
	}
}

// record builds the span tree for one interaction. It runs on the pool and
// must not panic past this frame.
func (o *Observer) record(interaction Interaction) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("telemetry recording panicked", "session", interaction.SessionID, "panic", r)
		}
	}()

	// The workflow trace is detached from the request context: the caller
	// has already responded by the time this runs.
	ctx, root := o.tracer.Start(context.Background(), workflowSpanName,
		trace.WithAttributes(
			attribute.String("session.id", interaction.SessionID),
			attribute.String("input.question", interaction.Question),
			attribute.Int("input.message_count", len(interaction.History)),
		))

	if len(interaction.Context) > 0 {
		_, retrieval := o.tracer.Start(ctx, "retriever",
			trace.WithAttributes(
				attribute.String("retriever.query", interaction.Question),
				attribute.Int("retriever.result_count", len(interaction.Context)),
			))
		for _, text := range interaction.Context {
			retrieval.AddEvent("retrieved_document", trace.WithAttributes(
				attribute.String("document.content", text),
				attribute.String("document.source", "pinecone"),
			))
		}
		retrieval.End()
	}

	_, generation := o.tracer.Start(ctx, "llm",
		trace.WithAttributes(
			attribute.String("llm.input", interaction.Question),
			attribute.String("llm.output", interaction.Answer),
			attribute.String("llm.model", interaction.Model),
			attribute.String("llm.environment", o.environment),
			attribute.String("llm.session_id", interaction.SessionID),
			attribute.String("llm.history", flattenHistory(interaction.History)),
		))
	generation.End()

	root.SetAttributes(
		attribute.String("conclusion.final_answer", interaction.Answer),
		attribute.StringSlice("conclusion.context_used", interaction.Context),
	)
	root.End()
}

// Close drains the worker pool. Pending interactions submitted before
// Close may be dropped; span export itself is flushed by the tracer
// provider's shutdown.
func (o *Observer) Close() error {
	o.pool.Release()
	return nil
}

// flattenHistory renders the conversation as one "role: content" line per
// message.
func flattenHistory(history []core.Message) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, string(msg.Role)+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
