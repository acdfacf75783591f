package domain

import "errors"

var (
	// ErrEmptyDocument means chunking the reference document produced no
	// passages. This is a configuration problem: retrieval is refused
	// rather than silently answering from nothing.
	ErrEmptyDocument = errors.New("reference document contains no text")

	// ErrCacheCorrupt means the persisted embedding cache could not be
	// read or failed validation. Callers treat it like a missing cache
	// and rebuild from scratch.
	ErrCacheCorrupt = errors.New("embedding cache is corrupt")

	// ErrProvider wraps failures of the embedding or chat completion
	// provider (timeouts, rate limits, malformed responses). The prior
	// cache is always left untouched when it occurs.
	ErrProvider = errors.New("provider request failed")
)
