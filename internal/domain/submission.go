package domain

import (
	"sort"
	"strings"
	"time"
)

// Registration marks a user as eligible to attempt a scheduled quiz.
// At most one exists per (user, quiz) pair.
type Registration struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"user_id"`
	QuizID       string    `bson:"quiz_id"`
	RegisteredAt time.Time `bson:"registered_at"`
}

// Submission is one user's graded attempt at a quiz. QuizTopic and
// QuizType are denormalized so history views need no join.
type Submission struct {
	ID                    string    `bson:"_id"`
	QuizID                string    `bson:"quiz_id"`
	UserID                string    `bson:"user_id"`
	QuizTopic             string    `bson:"quiz_topic"`
	QuizType              QuizType  `bson:"quiz_type"`
	Answers               []string  `bson:"submitted_answers"`
	Score                 int       `bson:"score"`
	Total                 int       `bson:"total"`
	CompletionTimeSeconds *float64  `bson:"completion_time_seconds,omitempty"`
	SubmittedAt           time.Time `bson:"submitted_at"`
}

// Recommendation holds a user's recent topics, capped at the 10 newest.
type Recommendation struct {
	UserID      string    `bson:"user_id"`
	Topics      []string  `bson:"topics"`
	LastUpdated time.Time `bson:"last_updated"`
}

// RecommendationCap bounds the per-user recent-topic list.
const RecommendationCap = 10

// ScoreAnswers grades submitted answers against the question list.
// The answer count must equal the question count; within that, a missing
// or unmatched entry counts as incorrect, never as an error. Matching is
// case-insensitive and whitespace-trimmed.
func ScoreAnswers(questions []Question, answers []string) (int, error) {
	if len(answers) != len(questions) {
		return 0, NewInvalidInputError("incorrect number of answers submitted")
	}
	score := 0
	for i, q := range questions {
		want := strings.ToLower(strings.TrimSpace(q.Answer))
		got := strings.ToLower(strings.TrimSpace(answers[i]))
		if want != "" && got == want {
			score++
		}
	}
	return score, nil
}

// LeaderboardSize truncates the ordered leaderboard.
const LeaderboardSize = 20

// RankSubmissions returns a copy ordered by score descending, then
// completion time ascending (missing time sorts last), then submission
// timestamp ascending. The ordering is a total order for any set.
func RankSubmissions(subs []Submission) []Submission {
	ranked := make([]Submission, len(subs))
	copy(ranked, subs)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		at, bt := completionOrInf(a), completionOrInf(b)
		if at != bt {
			return at < bt
		}
		return a.SubmittedAt.Before(b.SubmittedAt)
	})
	return ranked
}

func completionOrInf(s Submission) float64 {
	if s.CompletionTimeSeconds == nil {
		return 1e18
	}
	return *s.CompletionTimeSeconds
}

// RankOf returns the user's 1-based position within the ranked ordering,
// or -1 when the user has no submission in the set.
func RankOf(subs []Submission, userID string) int {
	for i, s := range RankSubmissions(subs) {
		if s.UserID == userID {
			return i + 1
		}
	}
	return -1
}
