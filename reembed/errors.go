package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrItemRepositoryRequired is returned when no item repository is given.
	ErrItemRepositoryRequired = errors.New("item repository required")

	// ErrVectorRepositoryRequired is returned when no vector repository is given.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrEmbeddingCountMismatch is returned when the embedder returns a
	// different number of vectors than texts it was given.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrEmbedderRequired is returned when no embedder is given.
	ErrEmbedderRequired = errors.New("embedder required")
)
