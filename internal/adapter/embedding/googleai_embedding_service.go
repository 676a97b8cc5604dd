package embedding

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const embeddingCacheTTL = 168 * time.Hour // 7 days

// GoogleAIEmbeddingService implements domain.EmbeddingService using the
// Google AI embedding models, with a Redis-backed cache in front of the
// API and singleflight to collapse concurrent requests for the same text.
type GoogleAIEmbeddingService struct {
	embedder embeddings.Embedder
	cache    domain.Cache
	sfGroup  singleflight.Group
}

// NewGoogleAIEmbeddingService creates a new GoogleAIEmbeddingService.
func NewGoogleAIEmbeddingService(ctx context.Context, apiKey, modelName string, cacheImpl domain.Cache) (*GoogleAIEmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google AI API key cannot be empty")
	}
	if modelName == "" {
		modelName = "embedding-001"
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultEmbeddingModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder from Google AI client: %w", err)
	}

	return &GoogleAIEmbeddingService{
		embedder: embedder,
		cache:    cacheImpl,
	}, nil
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Generate creates an embedding for the given text, consulting the cache
// first. Cache failures are logged and degrade to a direct API call.
func (s *GoogleAIEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	textHash := hashString(text)
	cacheKey := cache.GenerateCacheKey("embedding", "googleai", textHash)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			var embedding []float32
			decoder := gob.NewDecoder(bytes.NewReader([]byte(cached)))
			if errDecode := decoder.Decode(&embedding); errDecode == nil {
				return embedding, nil
			}
			logger.Get().Warn("Failed to decode cached embedding, regenerating",
				zap.String("cacheKey", cacheKey))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Error("Embedding cache read failed",
				zap.Error(err), zap.String("cacheKey", cacheKey))
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		embedding, fetchErr := s.embedder.EmbedQuery(ctx, text)
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to generate embedding using Google AI: %w", fetchErr)
		}
		if embedding == nil {
			return nil, fmt.Errorf("received nil embedding from Google AI without error")
		}

		if s.cache != nil {
			var buffer bytes.Buffer
			if errEncode := gob.NewEncoder(&buffer).Encode(embedding); errEncode == nil {
				if errSet := s.cache.Set(ctx, cacheKey, buffer.String(), embeddingCacheTTL); errSet != nil {
					logger.Get().Error("Failed to cache embedding",
						zap.Error(errSet), zap.String("cacheKey", cacheKey))
				}
			}
		}
		return embedding, nil
	})
	if err != nil {
		return nil, err
	}

	embedding, ok := res.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight for embedding: %T", res)
	}
	return embedding, nil
}
