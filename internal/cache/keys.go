package cache

import "strings"

const (
	GlobalKeyPrefix = "quizforge"
	KeySeparator    = ":"
)

// GenerateCacheKey constructs a standardized cache key.
// Example: GenerateCacheKey("embedding", "text", "sha256hash")
// Result: "quizforge:embedding:text:sha256hash"
func GenerateCacheKey(service string, object string, id string) string {
	parts := []string{GlobalKeyPrefix, service, object, id}
	return strings.Join(parts, KeySeparator)
}
