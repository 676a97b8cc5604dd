package domain

import (
	"context"
	"errors"
	"time"
)

// Article is a discovered news item with its extracted body text. It is
// ephemeral: produced by the fetcher, consumed by the context store and
// generator, never persisted on its own.
type Article struct {
	Title string
	Link  string
	Text  string
}

// PageRenderer loads a URL in a real rendering engine and returns the
// rendered HTML after client-side scripts have had time to run.
type PageRenderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// TextGenerator is the black-box text-generation capability.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbeddingService defines the interface for generating text embeddings.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// ContextStore is the per-user retrieval-augmented context capability.
// Ingest reports success; Retrieve returns empty context on any failure
// so callers always have a non-indexed fallback.
type ContextStore interface {
	Ingest(ctx context.Context, userID string, chunks []string) bool
	Retrieve(ctx context.Context, userID, query string) string
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the interface for a key-value cache.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
