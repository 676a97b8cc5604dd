package domain

import "time"

// SubmitGracePeriod extends the live window for the submit operation only.
// It compensates for round-trip latency near the deadline; it never applies
// to fetching a quiz for attempt.
const SubmitGracePeriod = 15 * time.Second

// AvailabilityReason explains why a quiz is not attemptable right now.
type AvailabilityReason string

const (
	ReasonNone       AvailabilityReason = ""
	ReasonNotStarted AvailabilityReason = "not_started"
	ReasonEnded      AvailabilityReason = "ended"
	ReasonNotOpen    AvailabilityReason = "not_open"
)

// Availability is the live/ended/not-started decision for a quiz at a
// given instant. RequiresRegistration is set for scheduled quizzes so the
// caller can layer the registration check after the window check.
type Availability struct {
	Live                 bool
	Reason               AvailabilityReason
	StartsAt             *time.Time
	EndsAt               *time.Time
	RequiresRegistration bool
}

// AvailabilityAt evaluates the access window shared by fetch-for-attempt
// and submit. The grace duration extends the end of the window; pass zero
// for attempt fetches and SubmitGracePeriod for submissions.
func (q *Quiz) AvailabilityAt(now time.Time, grace time.Duration) Availability {
	switch q.Status {
	case StatusActive, StatusReviewed:
		return Availability{Live: true}
	case StatusScheduled:
		av := Availability{
			StartsAt:             q.ScheduledStart,
			EndsAt:               q.End(),
			RequiresRegistration: true,
		}
		if q.ScheduledStart == nil {
			// Scheduled quizzes always carry a start once scheduling
			// succeeds; a missing one is a stored-state defect.
			av.Reason = ReasonNotOpen
			return av
		}
		if now.Before(*q.ScheduledStart) {
			av.Reason = ReasonNotStarted
			return av
		}
		if end := q.End(); end != nil && !now.Before(end.Add(grace)) {
			av.Reason = ReasonEnded
			return av
		}
		av.Live = true
		return av
	default: // draft, archived
		return Availability{Reason: ReasonNotOpen}
	}
}
