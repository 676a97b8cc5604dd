package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAnswersNormalization(t *testing.T) {
	questions := []Question{
		{Answer: "a"},
		{Answer: "b"},
		{Answer: "c"},
	}

	tests := []struct {
		name    string
		answers []string
		want    int
	}{
		{"exact match", []string{"a", "b", "c"}, 3},
		{"uppercase", []string{"A", "B", "C"}, 3},
		{"padded", []string{" A ", "b", " c"}, 3},
		{"partially wrong", []string{"a", "d", "c"}, 2},
		{"empty entries count as incorrect", []string{"a", "", ""}, 1},
		{"all wrong", []string{"d", "d", "d"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := ScoreAnswers(questions, tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScoreAnswersLengthMismatchRejected(t *testing.T) {
	questions := []Question{{Answer: "a"}, {Answer: "b"}}
	_, err := ScoreAnswers(questions, []string{"a"})
	assert.True(t, IsCode(err, ErrInvalidInput))

	_, err = ScoreAnswers(questions, []string{"a", "b", "c"})
	assert.True(t, IsCode(err, ErrInvalidInput))
}

func secs(v float64) *float64 { return &v }

func TestRankSubmissionsOrdering(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s1 := Submission{UserID: "u1", Score: 8, CompletionTimeSeconds: secs(50), SubmittedAt: base}
	s2 := Submission{UserID: "u2", Score: 8, CompletionTimeSeconds: secs(40), SubmittedAt: base}
	s3 := Submission{UserID: "u3", Score: 9, CompletionTimeSeconds: secs(999), SubmittedAt: base}

	ranked := RankSubmissions([]Submission{s1, s2, s3})
	require.Len(t, ranked, 3)
	assert.Equal(t, "u3", ranked[0].UserID)
	assert.Equal(t, "u2", ranked[1].UserID)
	assert.Equal(t, "u1", ranked[2].UserID)
}

func TestRankSubmissionsMissingTimeSortsLast(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	timed := Submission{UserID: "timed", Score: 5, CompletionTimeSeconds: secs(3600), SubmittedAt: base}
	untimed := Submission{UserID: "untimed", Score: 5, SubmittedAt: base.Add(-time.Hour)}

	ranked := RankSubmissions([]Submission{untimed, timed})
	assert.Equal(t, "timed", ranked[0].UserID)
	assert.Equal(t, "untimed", ranked[1].UserID)
}

func TestRankSubmissionsEarlierSubmissionWinsTies(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	late := Submission{UserID: "late", Score: 7, CompletionTimeSeconds: secs(100), SubmittedAt: base.Add(time.Minute)}
	early := Submission{UserID: "early", Score: 7, CompletionTimeSeconds: secs(100), SubmittedAt: base}

	ranked := RankSubmissions([]Submission{late, early})
	assert.Equal(t, "early", ranked[0].UserID)
}

func TestRankOf(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	subs := []Submission{
		{UserID: "u1", Score: 3, SubmittedAt: base},
		{UserID: "u2", Score: 9, SubmittedAt: base},
	}
	assert.Equal(t, 1, RankOf(subs, "u2"))
	assert.Equal(t, 2, RankOf(subs, "u1"))
	assert.Equal(t, -1, RankOf(subs, "nobody"))
}
