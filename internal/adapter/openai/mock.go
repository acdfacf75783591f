package openai

import "sync"

// MockEmbedder produces deterministic embeddings derived from the input
// characters and counts provider calls. Used by tests and the cache
// validity checks.
type MockEmbedder struct {
	dimension int

	mu    sync.Mutex
	calls int
}

// NewMockEmbedder creates a mock embedder with the given dimension.
func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

// Embed returns one deterministic vector per text.
func (e *MockEmbedder) Embed(texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = make([]float32, e.dimension)
		for j, r := range texts[i] {
			if j >= e.dimension {
				break
			}
			embeddings[i][j] = float32(r) / 1000.0
		}
	}
	return embeddings, nil
}

// Calls reports how many times Embed was invoked.
func (e *MockEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// ModelName returns a fixed mock model name.
func (e *MockEmbedder) ModelName() string {
	return "mock"
}
