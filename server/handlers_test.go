package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jovianatlas/moonatlas/ai/mock"
	"github.com/jovianatlas/moonatlas/chat"
	"github.com/jovianatlas/moonatlas/core"
	"github.com/jovianatlas/moonatlas/telemetry"
	"github.com/jovianatlas/moonatlas/vectorstore"
	storemock "github.com/jovianatlas/moonatlas/vectorstore/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testOrchestrator(t *testing.T) (*chat.Orchestrator, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProvider()
	provider.MockGenerator().Answer = "Europa has a subsurface ocean."

	store := storemock.NewMockStore()
	vec, err := provider.Embedder().EmbedText(context.Background(), "Europa has a subsurface ocean.")
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), []vectorstore.Record{{
		ID:     "chunk-1",
		Values: vec,
		Metadata: map[string]any{
			vectorstore.TextMetadataKey: "# Europa\n\nOverview:\nEuropa has a subsurface ocean.",
		},
	}}))

	orchestrator, err := chat.NewOrchestrator(provider, store)
	require.NoError(t, err)
	return orchestrator, provider
}

func testObserver(t *testing.T) (*telemetry.Observer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	observer, err := telemetry.NewObserver(telemetry.WithTracer(tp.Tracer("test")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = observer.Close() })
	return observer, exporter
}

func postChat(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRootAndHealth(t *testing.T) {
	orchestrator, _ := testOrchestrator(t)
	srv, err := NewServer(orchestrator)
	require.NoError(t, err)

	t.Run("root", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "Moon Atlas API is running", body["message"])
	})

	t.Run("health reports wiring", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["retriever_initialized"])
		assert.Equal(t, false, body["telemetry_enabled"])
	})
}

func TestHandleChat(t *testing.T) {
	t.Run("answers with context", func(t *testing.T) {
		orchestrator, _ := testOrchestrator(t)
		srv, err := NewServer(orchestrator)
		require.NoError(t, err)

		rec := postChat(t, srv.Handler(), chatRequest{Question: "Does Europa have an ocean?"})
		require.Equal(t, http.StatusOK, rec.Code)

		var body chatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Europa has a subsurface ocean.", body.Answer)
		require.Len(t, body.Context, 1)
		assert.Contains(t, body.Context[0], "subsurface ocean")
	})

	t.Run("malformed body", func(t *testing.T) {
		orchestrator, _ := testOrchestrator(t)
		srv, err := NewServer(orchestrator)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty question", func(t *testing.T) {
		orchestrator, _ := testOrchestrator(t)
		srv, err := NewServer(orchestrator)
		require.NoError(t, err)

		rec := postChat(t, srv.Handler(), chatRequest{Question: "   "})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), msgEmptyQuestion)
	})

	t.Run("invalid history role", func(t *testing.T) {
		orchestrator, _ := testOrchestrator(t)
		srv, err := NewServer(orchestrator)
		require.NoError(t, err)

		rec := postChat(t, srv.Handler(), chatRequest{
			Question: "What is Io?",
			Messages: []core.Message{{Role: "moderator", Content: "hi"}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unavailable backend returns 503 and starts no telemetry", func(t *testing.T) {
		observer, exporter := testObserver(t)
		srv, err := NewServer(nil, WithObserver(observer))
		require.NoError(t, err)

		rec := postChat(t, srv.Handler(), chatRequest{Question: "What is Io?"})
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), msgServiceUnavailable)

		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, exporter.GetSpans())
	})

	t.Run("upstream failure returns fixed message", func(t *testing.T) {
		orchestrator, provider := testOrchestrator(t)
		provider.MockGenerator().GenerateFunc = func(ctx context.Context, system string, history []core.Message, finalTurn string) (string, error) {
			return "", errors.New("secret internal detail")
		}
		srv, err := NewServer(orchestrator)
		require.NoError(t, err)

		rec := postChat(t, srv.Handler(), chatRequest{Question: "What is Io?"})
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), msgInternalError)
		assert.NotContains(t, rec.Body.String(), "secret internal detail")
	})

	t.Run("telemetry failure does not affect the response", func(t *testing.T) {
		orchestrator, _ := testOrchestrator(t)
		observer, _ := testObserver(t)
		// A closed observer rejects every submission; the request must
		// still succeed.
		require.NoError(t, observer.Close())

		srv, err := NewServer(orchestrator, WithObserver(observer))
		require.NoError(t, err)

		rec := postChat(t, srv.Handler(), chatRequest{Question: "Does Europa have an ocean?"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("records telemetry with conversation id", func(t *testing.T) {
		orchestrator, _ := testOrchestrator(t)
		observer, exporter := testObserver(t)
		srv, err := NewServer(orchestrator, WithObserver(observer), WithChatModel("gpt-4"))
		require.NoError(t, err)

		rec := postChat(t, srv.Handler(), chatRequest{
			Question:       "Does Europa have an ocean?",
			ConversationID: "conv-42",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		require.Eventually(t, func() bool {
			return len(exporter.GetSpans()) >= 3
		}, 2*time.Second, 10*time.Millisecond)

		var found bool
		for _, span := range exporter.GetSpans() {
			for _, attr := range span.Attributes {
				if string(attr.Key) == "session.id" {
					assert.Equal(t, "conv-42", attr.Value.AsString())
					found = true
				}
			}
		}
		assert.True(t, found)
	})
}

func TestSessionID(t *testing.T) {
	assert.Equal(t, "conv-1", sessionID("conv-1"))

	generated := sessionID("")
	assert.NotEmpty(t, generated)
	assert.NotEqual(t, generated, sessionID(""))
}
