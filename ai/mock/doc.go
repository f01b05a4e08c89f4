// Package mock provides test double implementations of the ai service
// interfaces. The mocks allow tests to run without external model services
// and enable controlled, deterministic behavior.
//
// # Default Behavior
//
//   - MockEmbedder: returns deterministic unit vectors derived from an FNV
//     hash of the text, so equal texts always embed identically
//   - MockGenerator: returns a configured answer, or echoes the final turn
//   - MockProvider: aggregates the two
//
// Custom behavior is injected through function fields:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("embedding service down")
//	}
package mock
