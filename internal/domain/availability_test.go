package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func scheduledQuiz(start time.Time, durationMinutes int) *Quiz {
	return &Quiz{
		Status:          StatusScheduled,
		ScheduledStart:  &start,
		DurationMinutes: &durationMinutes,
		Questions:       sampleQuestions(3),
	}
}

func TestAvailabilityActiveAndReviewedAlwaysLive(t *testing.T) {
	now := time.Now()
	for _, st := range []Status{StatusActive, StatusReviewed} {
		q := &Quiz{Status: st}
		av := q.AvailabilityAt(now, 0)
		assert.True(t, av.Live, "status %s", st)
		assert.False(t, av.RequiresRegistration)
	}
}

func TestAvailabilityDraftAndArchivedNeverLive(t *testing.T) {
	now := time.Now()
	for _, st := range []Status{StatusDraft, StatusArchived} {
		q := &Quiz{Status: st}
		av := q.AvailabilityAt(now, 0)
		assert.False(t, av.Live, "status %s", st)
		assert.Equal(t, ReasonNotOpen, av.Reason)
	}
}

func TestAvailabilityScheduledWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	q := scheduledQuiz(start, 30)
	end := start.Add(30 * time.Minute)

	tests := []struct {
		name       string
		now        time.Time
		grace      time.Duration
		wantLive   bool
		wantReason AvailabilityReason
	}{
		{"before start", start.Add(-time.Second), 0, false, ReasonNotStarted},
		{"exactly at start", start, 0, true, ReasonNone},
		{"mid window", start.Add(15 * time.Minute), 0, true, ReasonNone},
		{"exactly at end", end, 0, false, ReasonEnded},
		{"after end", end.Add(time.Minute), 0, false, ReasonEnded},
		{"10s past end with grace", end.Add(10 * time.Second), SubmitGracePeriod, true, ReasonNone},
		{"15s past end with grace", end.Add(15 * time.Second), SubmitGracePeriod, false, ReasonEnded},
		{"20s past end with grace", end.Add(20 * time.Second), SubmitGracePeriod, false, ReasonEnded},
		{"grace never applies without grace arg", end.Add(10 * time.Second), 0, false, ReasonEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av := q.AvailabilityAt(tt.now, tt.grace)
			assert.Equal(t, tt.wantLive, av.Live)
			assert.Equal(t, tt.wantReason, av.Reason)
			assert.True(t, av.RequiresRegistration)
		})
	}
}

func TestAvailabilityScheduledWithoutDurationHasNoEnd(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	q := &Quiz{Status: StatusScheduled, ScheduledStart: &start}
	av := q.AvailabilityAt(start.Add(100*time.Hour), 0)
	assert.True(t, av.Live)
	assert.Nil(t, av.EndsAt)
}

func TestAvailabilityScheduledMissingStartNotOpen(t *testing.T) {
	q := &Quiz{Status: StatusScheduled}
	av := q.AvailabilityAt(time.Now(), 0)
	assert.False(t, av.Live)
	assert.Equal(t, ReasonNotOpen, av.Reason)
}
