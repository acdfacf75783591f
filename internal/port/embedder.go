package port

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text, in input order.
	Embed(texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model. The cache is
	// keyed by it together with the document fingerprint.
	ModelName() string
}
