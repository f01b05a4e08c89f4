package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jovianatlas/moonatlas/core"
)

func testObserver(t *testing.T, opts ...ObserverOption) (*Observer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	opts = append([]ObserverOption{WithTracer(tp.Tracer("test"))}, opts...)
	observer, err := NewObserver(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = observer.Close() })
	return observer, exporter
}

func sampleInteraction() Interaction {
	return Interaction{
		SessionID: "session-1",
		Question:  "What is Io?",
		Context:   []string{"# Io\n\nOverview:\nIo is volcanic."},
		Answer:    "Io is the most volcanically active body in the solar system.",
		History: []core.Message{
			{Role: core.RoleUser, Content: "Tell me about Jupiter."},
			{Role: core.RoleAssistant, Content: "Jupiter is the largest planet."},
		},
		Model: "gpt-4",
	}
}

func waitForSpans(t *testing.T, exporter *tracetest.InMemoryExporter, want int) tracetest.SpanStubs {
	t.Helper()
	var spans tracetest.SpanStubs
	require.Eventually(t, func() bool {
		spans = exporter.GetSpans()
		return len(spans) >= want
	}, 2*time.Second, 10*time.Millisecond)
	return spans
}

func spanByName(spans tracetest.SpanStubs, name string) (tracetest.SpanStub, bool) {
	for _, span := range spans {
		if span.Name == name {
			return span, true
		}
	}
	return tracetest.SpanStub{}, false
}

func attrValue(span tracetest.SpanStub, key string) (any, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value.AsInterface(), true
		}
	}
	return nil, false
}

func TestObserverObserve(t *testing.T) {
	t.Run("emits workflow retrieval and generation spans", func(t *testing.T) {
		observer, exporter := testObserver(t)

		observer.Observe(sampleInteraction())
		spans := waitForSpans(t, exporter, 3)

		root, ok := spanByName(spans, workflowSpanName)
		require.True(t, ok)
		question, _ := attrValue(root, "input.question")
		assert.Equal(t, "What is Io?", question)
		answer, _ := attrValue(root, "conclusion.final_answer")
		assert.Equal(t, "Io is the most volcanically active body in the solar system.", answer)
		contextUsed, _ := attrValue(root, "conclusion.context_used")
		assert.Equal(t, []string{"# Io\n\nOverview:\nIo is volcanic."}, contextUsed)

		retrieval, ok := spanByName(spans, "retriever")
		require.True(t, ok)
		assert.Equal(t, root.SpanContext.SpanID(), retrieval.Parent.SpanID())
		require.Len(t, retrieval.Events, 1)
		assert.Equal(t, "retrieved_document", retrieval.Events[0].Name)

		generation, ok := spanByName(spans, "llm")
		require.True(t, ok)
		assert.Equal(t, root.SpanContext.SpanID(), generation.Parent.SpanID())
		model, _ := attrValue(generation, "llm.model")
		assert.Equal(t, "gpt-4", model)
		history, _ := attrValue(generation, "llm.history")
		assert.Equal(t, "user: Tell me about Jupiter.\nassistant: Jupiter is the largest planet.", history)
	})

	t.Run("skips retrieval span when context empty", func(t *testing.T) {
		observer, exporter := testObserver(t)

		interaction := sampleInteraction()
		interaction.Context = nil
		observer.Observe(interaction)

		spans := waitForSpans(t, exporter, 2)
		_, ok := spanByName(spans, "retriever")
		assert.False(t, ok)
	})

	t.Run("environment tags the generation span", func(t *testing.T) {
		observer, exporter := testObserver(t, WithEnvironment("staging"))

		observer.Observe(sampleInteraction())
		spans := waitForSpans(t, exporter, 3)

		generation, ok := spanByName(spans, "llm")
		require.True(t, ok)
		env, _ := attrValue(generation, "llm.environment")
		assert.Equal(t, "staging", env)
	})

	t.Run("observe after close does not panic", func(t *testing.T) {
		observer, exporter := testObserver(t)
		require.NoError(t, observer.Close())

		assert.NotPanics(t, func() {
			observer.Observe(sampleInteraction())
		})
		assert.Empty(t, exporter.GetSpans())
	})
}

func TestFlattenHistory(t *testing.T) {
	assert.Equal(t, "", flattenHistory(nil))
	assert.Equal(t, "user: hi", flattenHistory([]core.Message{{Role: core.RoleUser, Content: "hi"}}))
}
