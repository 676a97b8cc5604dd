package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Number:  i + 1,
			Text:    "What is the capital of France?",
			Options: []string{"a) Paris", "b) Lyon", "c) Nice", "d) Lille"},
			Answer:  "a",
		}
	}
	return qs
}

func TestWithStatusClearsScheduleStart(t *testing.T) {
	now := time.Now().UTC()
	start := now.Add(time.Hour)
	dur := 45
	q := Quiz{Status: StatusScheduled, ScheduledStart: &start, DurationMinutes: &dur}

	tr, err := q.WithStatus(StatusReviewed, now)
	require.NoError(t, err)
	assert.Equal(t, StatusReviewed, tr.Quiz.Status)
	assert.Nil(t, tr.Quiz.ScheduledStart)
	assert.Contains(t, tr.ClearedFields, "scheduled_datetime")

	// The receiver snapshot is untouched.
	assert.Equal(t, StatusScheduled, q.Status)
	assert.NotNil(t, q.ScheduledStart)
}

func TestWithStatusKeepsScheduleWhenStayingScheduled(t *testing.T) {
	now := time.Now().UTC()
	start := now.Add(time.Hour)
	q := Quiz{Status: StatusScheduled, ScheduledStart: &start}

	tr, err := q.WithStatus(StatusScheduled, now)
	require.NoError(t, err)
	assert.NotNil(t, tr.Quiz.ScheduledStart)
	assert.Empty(t, tr.ClearedFields)
}

func TestWithStatusRejectsUnknownStatus(t *testing.T) {
	q := Quiz{Status: StatusDraft}
	_, err := q.WithStatus(Status("published"), time.Now())
	assert.True(t, IsCode(err, ErrInvalidInput))
}

func TestScheduleValidation(t *testing.T) {
	now := time.Now().UTC()
	quiz := Quiz{Status: StatusReviewed, Questions: sampleQuestions(5)}

	tests := []struct {
		name     string
		quiz     Quiz
		start    time.Time
		duration int
		wantErr  bool
	}{
		{"valid", quiz, now.Add(time.Hour), 60, false},
		{"start in the past", quiz, now.Add(-time.Minute), 60, true},
		{"start exactly now", quiz, now, 60, true},
		{"zero duration", quiz, now.Add(time.Hour), 0, true},
		{"negative duration", quiz, now.Add(time.Hour), -5, true},
		{"no questions", Quiz{Status: StatusDraft}, now.Add(time.Hour), 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := tt.quiz.Schedule(tt.start, tt.duration, now)
			if tt.wantErr {
				assert.True(t, IsCode(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusScheduled, tr.Quiz.Status)
			require.NotNil(t, tr.Quiz.ScheduledStart)
			require.NotNil(t, tr.Quiz.DurationMinutes)
			assert.Equal(t, tt.duration, *tr.Quiz.DurationMinutes)
		})
	}
}

func TestEnd(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	dur := 30
	q := Quiz{ScheduledStart: &start, DurationMinutes: &dur}
	end := q.End()
	require.NotNil(t, end)
	assert.Equal(t, start.Add(30*time.Minute), *end)

	assert.Nil(t, (&Quiz{ScheduledStart: &start}).End())
	assert.Nil(t, (&Quiz{DurationMinutes: &dur}).End())
}
