package domain

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a quiz.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReviewed  Status = "reviewed"
	StatusActive    Status = "active"
	StatusScheduled Status = "scheduled"
	StatusArchived  Status = "archived"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusReviewed, StatusActive, StatusScheduled, StatusArchived:
		return true
	}
	return false
}

// QuizType distinguishes generation modes.
type QuizType string

const (
	TypeGeneral   QuizType = "General Quiz"
	TypeNewsBased QuizType = "News-Based Quiz"
)

// Question is a single multiple-choice question. Options keep their
// "a) ..." prefixes; Answer is the lowercase correct letter.
type Question struct {
	Number  int      `bson:"question_number" json:"question_number"`
	Text    string   `bson:"question" json:"question"`
	Options []string `bson:"options" json:"options"`
	Answer  string   `bson:"correct_answer" json:"correct_answer"`
}

// Quiz represents a quiz in the domain
type Quiz struct {
	ID              string     `bson:"_id"`
	Type            QuizType   `bson:"type"`
	Topic           string     `bson:"topic"`
	Difficulty      string     `bson:"difficulty"`
	Language        string     `bson:"language"`
	NumQuestions    int        `bson:"num_mcqs_generated"`
	Questions       []Question `bson:"questions"`
	Status          Status     `bson:"status"`
	CreatedBy       string     `bson:"created_by"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"last_updated_at"`
	ScheduledStart  *time.Time `bson:"scheduled_datetime,omitempty"`
	DurationMinutes *int       `bson:"duration_minutes,omitempty"`
	Prompt          string     `bson:"prompt,omitempty"`
	RawResponse     string     `bson:"raw_response,omitempty"`
}

// NewQuiz creates a draft quiz with its parsed questions.
func NewQuiz(id string, qt QuizType, topic, difficulty, language string, numQuestions int, questions []Question, createdBy string) *Quiz {
	now := time.Now().UTC()
	return &Quiz{
		ID:           id,
		Type:         qt,
		Topic:        topic,
		Difficulty:   difficulty,
		Language:     language,
		NumQuestions: numQuestions,
		Questions:    questions,
		Status:       StatusDraft,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// End returns the close of the live window, or nil when the quiz has no
// schedule or no duration.
func (q *Quiz) End() *time.Time {
	if q.ScheduledStart == nil || q.DurationMinutes == nil {
		return nil
	}
	end := q.ScheduledStart.Add(time.Duration(*q.DurationMinutes) * time.Minute)
	return &end
}

// Transition is the result of a status change: the updated snapshot plus
// the names of persisted fields that must be cleared. Schedule fields are
// defined iff status is scheduled; this is the only place they are cleared.
type Transition struct {
	Quiz          Quiz
	ClearedFields []string
}

// WithStatus moves the quiz to the target status and clears the schedule
// start whenever the target is not scheduled.
func (q Quiz) WithStatus(target Status, now time.Time) (Transition, error) {
	if !ValidStatus(target) {
		return Transition{}, NewInvalidInputError(fmt.Sprintf("invalid status: %s", target))
	}
	t := Transition{Quiz: q}
	t.Quiz.Status = target
	t.Quiz.UpdatedAt = now
	if target != StatusScheduled && q.ScheduledStart != nil {
		t.Quiz.ScheduledStart = nil
		t.ClearedFields = append(t.ClearedFields, "scheduled_datetime")
	}
	return t, nil
}

// DefaultDurationMinutes applies when scheduling omits a duration.
const DefaultDurationMinutes = 30

// Schedule validates and applies a schedule: start strictly in the future,
// positive duration, at least one question.
func (q Quiz) Schedule(start time.Time, durationMinutes int, now time.Time) (Transition, error) {
	if len(q.Questions) == 0 {
		return Transition{}, NewInvalidInputError("cannot schedule a quiz with no questions")
	}
	if !start.After(now) {
		return Transition{}, NewInvalidInputError("schedule time must be in the future")
	}
	if durationMinutes <= 0 {
		return Transition{}, NewInvalidInputError("duration must be a positive number of minutes")
	}
	t := Transition{Quiz: q}
	startUTC := start.UTC()
	t.Quiz.Status = StatusScheduled
	t.Quiz.ScheduledStart = &startUTC
	t.Quiz.DurationMinutes = &durationMinutes
	t.Quiz.UpdatedAt = now
	return t, nil
}
