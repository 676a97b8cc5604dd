package service

import (
	"context"
	"encoding/json"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// trendingCacheTTL bounds how long scraped trending topics are reused.
const trendingCacheTTL = time.Hour

// Recommendations is the topic-suggestion payload.
type Recommendations struct {
	Topics   []string
	Trending bool
}

// RecommendationService suggests quiz topics: the user's own recent topics
// when they exist, otherwise trending topics scraped from the news index.
type RecommendationService interface {
	ForUser(ctx context.Context, userID string) (*Recommendations, error)
}

type recommendationService struct {
	recRepo RecommendationRepo
	fetcher NewsFetcher
	cache   domain.Cache
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(recRepo RecommendationRepo, fetcher NewsFetcher, cacheImpl domain.Cache) RecommendationService {
	return &recommendationService{
		recRepo: recRepo,
		fetcher: fetcher,
		cache:   cacheImpl,
	}
}

func (s *recommendationService) ForUser(ctx context.Context, userID string) (*Recommendations, error) {
	rec, err := s.recRepo.Get(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch recommendations", err)
	}
	if rec != nil && len(rec.Topics) > 0 {
		return &Recommendations{Topics: newestFirst(rec.Topics)}, nil
	}
	return &Recommendations{Topics: s.trending(ctx), Trending: true}, nil
}

// trending serves scraped topics through the cache; scraping a news page
// per request would hammer the source for an advisory feature.
func (s *recommendationService) trending(ctx context.Context) []string {
	key := cache.GenerateCacheKey("recommendation", "trending", "global")

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var topics []string
			if jsonErr := json.Unmarshal([]byte(cached), &topics); jsonErr == nil && len(topics) > 0 {
				return topics
			}
		} else if err != domain.ErrCacheMiss {
			logger.Get().Error("Trending topics cache read failed", zap.Error(err))
		}
	}

	topics := s.fetcher.TrendingTopics(ctx)

	if s.cache != nil && len(topics) > 0 {
		if payload, err := json.Marshal(topics); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), trendingCacheTTL); err != nil {
				logger.Get().Error("Failed to cache trending topics", zap.Error(err))
			}
		}
	}
	return topics
}

// newestFirst reverses the stored oldest-to-newest topic list.
func newestFirst(topics []string) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[len(topics)-1-i] = t
	}
	return out
}
