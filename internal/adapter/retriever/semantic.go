// Package retriever ranks cached passages against a query embedding.
package retriever

import (
	"fmt"
	"math"
	"sort"

	"docbot/internal/adapter/cache"
	"docbot/internal/domain"
	"docbot/internal/port"
)

// Semantic embeds a query and scans the cached passages by cosine
// similarity. The corpus is one small document, so a brute-force scan is
// the whole index.
type Semantic struct {
	embedder port.Embedder
}

// NewSemantic creates a retriever using the given embedder for queries.
func NewSemantic(embedder port.Embedder) *Semantic {
	return &Semantic{embedder: embedder}
}

// Search embeds the query and returns the top-k passages.
func (r *Semantic) Search(query string, c *cache.Cache, k int) ([]domain.ScoredPassage, error) {
	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: embedding returned empty result", domain.ErrProvider)
	}

	return Rank(embeddings[0], c, k)
}

// Rank returns up to k passages ordered by descending cosine similarity to
// the query vector. Ties keep the original passage order (stable sort).
// k larger than the cache returns every passage.
func Rank(query []float32, c *cache.Cache, k int) ([]domain.ScoredPassage, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	scored := make([]domain.ScoredPassage, len(c.Passages))
	for i, p := range c.Passages {
		scored[i] = domain.ScoredPassage{
			Passage: p,
			Score:   cosineSimilarity(query, c.Vectors[i]),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
