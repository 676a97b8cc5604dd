// Package contextstore keeps one durable nearest-neighbor text index per
// user. Ingestion overwrites the user's index wholesale (last writer
// wins); retrieval is read-only and degrades to empty context on any
// failure, because grounding is best-effort and callers always hold a
// raw-text fallback.
package contextstore

import (
	"context"
	"encoding/gob"
	"os"
	"path/filepath"
	"sort"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

const indexFileName = "index.gob"

// retrieveTopK is the number of passages concatenated into the context.
const retrieveTopK = 3

// passageSeparator visibly joins retrieved passages.
const passageSeparator = "\n\n---\n\n"

// index is the serialized per-user store: chunk i embeds to Vectors[i].
type index struct {
	Chunks  []string
	Vectors [][]float32
}

// Store is a file-backed ContextStore keyed by user identifier.
type Store struct {
	dir      string
	embedder domain.EmbeddingService
}

// NewStore creates a Store rooted at the configured directory.
func NewStore(cfg config.ContextStoreConfig, embedder domain.EmbeddingService) *Store {
	return &Store{dir: cfg.Dir, embedder: embedder}
}

var _ domain.ContextStore = (*Store)(nil)

// Ingest embeds every chunk and writes the user's index, replacing any
// previous one. It reports failure (never panics) on empty input or
// embedding errors, and removes a partially-created empty directory.
func (s *Store) Ingest(ctx context.Context, userID string, chunks []string) bool {
	if len(chunks) == 0 {
		logger.Get().Warn("No text chunks provided for context ingestion", zap.String("user_id", userID))
		return false
	}

	idx := index{Chunks: chunks, Vectors: make([][]float32, 0, len(chunks))}
	for _, chunk := range chunks {
		vec, err := s.embedder.Generate(ctx, chunk)
		if err != nil {
			logger.Get().Warn("Embedding failed during context ingestion",
				zap.String("user_id", userID), zap.Error(err))
			s.cleanupEmptyDir(userID)
			return false
		}
		idx.Vectors = append(idx.Vectors, vec)
	}

	userDir := filepath.Join(s.dir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		logger.Get().Error("Failed to create context index directory",
			zap.String("user_id", userID), zap.Error(err))
		return false
	}

	file, err := os.Create(filepath.Join(userDir, indexFileName))
	if err != nil {
		logger.Get().Error("Failed to create context index file",
			zap.String("user_id", userID), zap.Error(err))
		s.cleanupEmptyDir(userID)
		return false
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(idx); err != nil {
		logger.Get().Error("Failed to encode context index",
			zap.String("user_id", userID), zap.Error(err))
		return false
	}
	logger.Get().Info("Context index written",
		zap.String("user_id", userID), zap.Int("chunks", len(chunks)))
	return true
}

// Retrieve loads the user's index and returns the top passages most
// similar to the query, joined with a visible separator. A missing
// index is not an error; it and every failure yield empty context.
func (s *Store) Retrieve(ctx context.Context, userID, query string) string {
	path := filepath.Join(s.dir, userID, indexFileName)
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Get().Warn("Failed to open context index",
				zap.String("user_id", userID), zap.Error(err))
		}
		return ""
	}
	defer file.Close()

	var idx index
	if err := gob.NewDecoder(file).Decode(&idx); err != nil {
		logger.Get().Warn("Failed to decode context index",
			zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	if len(idx.Chunks) == 0 || len(idx.Chunks) != len(idx.Vectors) {
		return ""
	}

	queryVec, err := s.embedder.Generate(ctx, query)
	if err != nil {
		logger.Get().Warn("Embedding failed during context retrieval",
			zap.String("user_id", userID), zap.Error(err))
		return ""
	}

	type scored struct {
		chunk string
		sim   float64
	}
	results := make([]scored, 0, len(idx.Chunks))
	for i, vec := range idx.Vectors {
		sim, err := util.CosineSimilarity(queryVec, vec)
		if err != nil {
			continue
		}
		results = append(results, scored{chunk: idx.Chunks[i], sim: sim})
	}
	if len(results) == 0 {
		return ""
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].sim > results[j].sim })

	k := retrieveTopK
	if len(results) < k {
		k = len(results)
	}
	passages := make([]string, k)
	for i := 0; i < k; i++ {
		passages[i] = results[i].chunk
	}

	logger.Get().Info("Context retrieved",
		zap.String("user_id", userID), zap.Int("passages", k))
	out := passages[0]
	for _, p := range passages[1:] {
		out += passageSeparator + p
	}
	return out
}

func (s *Store) cleanupEmptyDir(userID string) {
	userDir := filepath.Join(s.dir, userID)
	entries, err := os.ReadDir(userDir)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(userDir)
	}
}
