package fetcher

import (
	"context"
	"strings"
	"unicode"

	"quizforge/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// fallbackTopics is served when the top-stories page yields nothing.
var fallbackTopics = []string{"Technology", "Politics", "Sports", "Health", "Science", "Business"}

// TrendingTopics mines candidate topics from the news index's
// top-stories headlines: capitalized words longer than four characters,
// at most two per headline, at most ten in total. Scrape failure falls
// back to a static list instead of an error.
func (f *Fetcher) TrendingTopics(ctx context.Context) []string {
	doc, err := f.fetchDocument(ctx, f.cfg.TopStoriesURL)
	if err != nil {
		logger.Get().Warn("Trending topics fetch failed, using fallback", zap.Error(err))
		return fallbackTopics
	}

	seen := map[string]bool{}
	var topics []string
	doc.Find("article").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 20 || len(topics) >= 10 {
			return false
		}
		title := strings.TrimSpace(s.Find("h3, h4").First().Text())
		if title == "" {
			return true
		}
		added := 0
		for _, word := range strings.Fields(title) {
			if added >= 2 || len(topics) >= 10 {
				break
			}
			word = strings.Trim(word, ".,:;!?\"'")
			if len(word) <= 4 || !startsUpper(word) || seen[word] {
				continue
			}
			seen[word] = true
			topics = append(topics, word)
			added++
		}
		return true
	})

	if len(topics) == 0 {
		logger.Get().Warn("Trending scrape yielded no topics, using fallback")
		return fallbackTopics
	}
	logger.Get().Info("Trending topics scraped", zap.Strings("topics", topics))
	return topics
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
