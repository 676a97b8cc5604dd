package dto

import (
	"quizforge/internal/domain"
)

// GenerateQuizRequest is the admin generation request.
type GenerateQuizRequest struct {
	Topic        string `json:"topic"`
	QuizType     string `json:"quiz_type"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
	Language     string `json:"language"`
}

// ReviewQuizRequest applies a human review: optional question replacement
// plus the target status.
type ReviewQuizRequest struct {
	QuizID    string            `json:"quiz_id"`
	Questions []QuestionPayload `json:"questions,omitempty"`
	Status    string            `json:"status"`
}

// RegenerateQuizRequest asks for a fresh question set for an existing quiz.
type RegenerateQuizRequest struct {
	QuizID string `json:"quiz_id"`
}

// ScheduleQuizRequest sets the live window of a quiz.
type ScheduleQuizRequest struct {
	QuizID            string `json:"quiz_id"`
	ScheduledDatetime string `json:"scheduled_datetime"`
	DurationMinutes   int    `json:"duration_minutes"`
}

// SubmitQuizRequest carries one attempt's answers.
type SubmitQuizRequest struct {
	Answers               []string `json:"answers"`
	CompletionTimeSeconds *float64 `json:"completion_time_seconds,omitempty"`
}

// QuestionPayload is a question with its answer, used on admin surfaces
// and in results.
type QuestionPayload struct {
	QuestionNumber int      `json:"question_number"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correct_answer"`
}

// AttemptQuestion is a question as shown to a taker: no answer.
type AttemptQuestion struct {
	QuestionNumber int      `json:"question_number"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
}

// QuizResponse is the full admin view of a quiz.
type QuizResponse struct {
	ID                string            `json:"id"`
	Topic             string            `json:"topic"`
	QuizType          string            `json:"quiz_type"`
	Difficulty        string            `json:"difficulty,omitempty"`
	Language          string            `json:"language,omitempty"`
	NumQuestions      int               `json:"num_questions"`
	Questions         []QuestionPayload `json:"questions"`
	Status            string            `json:"status"`
	CreatedBy         string            `json:"created_by,omitempty"`
	CreatedAt         string            `json:"created_at"`
	LastUpdatedAt     string            `json:"last_updated_at"`
	ScheduledDatetime *string           `json:"scheduled_datetime,omitempty"`
	DurationMinutes   *int              `json:"duration_minutes,omitempty"`
}

// AttemptQuizResponse is the taker view: answers stripped, window exposed.
type AttemptQuizResponse struct {
	ID                string            `json:"id"`
	Topic             string            `json:"topic"`
	QuizType          string            `json:"quiz_type"`
	NumQuestions      int               `json:"num_questions"`
	Questions         []AttemptQuestion `json:"questions"`
	ScheduledDatetime *string           `json:"scheduled_datetime,omitempty"`
	EndsAt            *string           `json:"ends_at,omitempty"`
}

// SubmitQuizResponse is the immediate grading outcome.
type SubmitQuizResponse struct {
	QuizID                string   `json:"quiz_id"`
	Score                 int      `json:"score"`
	Total                 int      `json:"total"`
	Rank                  int      `json:"rank,omitempty"`
	CompletionTimeSeconds *float64 `json:"completion_time_seconds,omitempty"`
	SubmittedAt           string   `json:"submitted_at"`
}

// QuizResultResponse is the post-quiz view for one user.
type QuizResultResponse struct {
	QuizID       string            `json:"quiz_id"`
	Topic        string            `json:"topic"`
	Score        int               `json:"score"`
	Total        int               `json:"total"`
	Rank         int               `json:"rank"`
	Participants int               `json:"participants"`
	Answers      []string          `json:"answers"`
	Questions    []QuestionPayload `json:"questions"`
	SubmittedAt  string            `json:"submitted_at"`
}

// LeaderboardEntry is one row of the quiz leaderboard.
type LeaderboardEntry struct {
	Rank                  int      `json:"rank"`
	UserID                string   `json:"user_id"`
	Score                 int      `json:"score"`
	Total                 int      `json:"total"`
	CompletionTimeSeconds *float64 `json:"completion_time_seconds,omitempty"`
	SubmittedAt           string   `json:"submitted_at"`
}

// UpcomingQuizResponse is one entry of the public scheduled-quiz listing.
type UpcomingQuizResponse struct {
	ID                string  `json:"id"`
	Topic             string  `json:"topic"`
	QuizType          string  `json:"quiz_type"`
	NumQuestions      int     `json:"num_questions"`
	ScheduledDatetime *string `json:"scheduled_datetime,omitempty"`
	EndsAt            *string `json:"ends_at,omitempty"`
	DurationMinutes   *int    `json:"duration_minutes,omitempty"`
	IsLive            bool    `json:"is_live"`
	IsRegistered      bool    `json:"is_registered"`
}

// SubmissionHistoryItem is one row of a user's attempt history.
type SubmissionHistoryItem struct {
	QuizID      string `json:"quiz_id"`
	QuizTopic   string `json:"quiz_topic"`
	QuizType    string `json:"quiz_type"`
	Score       int    `json:"score"`
	Total       int    `json:"total"`
	SubmittedAt string `json:"submitted_at"`
}

// RecommendationsResponse lists suggested topics.
type RecommendationsResponse struct {
	Topics   []string `json:"topics"`
	Trending bool     `json:"trending"`
}

// RegistrationResponse reports a registration attempt.
type RegistrationResponse struct {
	QuizID     string `json:"quiz_id"`
	Registered bool   `json:"registered"`
	Message    string `json:"message"`
}

// HealthResponse reports dependency health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// QuestionsFromPayload converts request questions into domain questions.
func QuestionsFromPayload(payload []QuestionPayload) []domain.Question {
	questions := make([]domain.Question, len(payload))
	for i, p := range payload {
		questions[i] = domain.Question{
			Number:  p.QuestionNumber,
			Text:    p.Question,
			Options: p.Options,
			Answer:  p.CorrectAnswer,
		}
	}
	return questions
}

func questionPayloads(questions []domain.Question) []QuestionPayload {
	out := make([]QuestionPayload, len(questions))
	for i, q := range questions {
		out[i] = QuestionPayload{
			QuestionNumber: q.Number,
			Question:       q.Text,
			Options:        q.Options,
			CorrectAnswer:  q.Answer,
		}
	}
	return out
}

func attemptQuestions(questions []domain.Question) []AttemptQuestion {
	out := make([]AttemptQuestion, len(questions))
	for i, q := range questions {
		out[i] = AttemptQuestion{
			QuestionNumber: q.Number,
			Question:       q.Text,
			Options:        q.Options,
		}
	}
	return out
}

// NewQuizResponse maps a quiz to its admin representation.
func NewQuizResponse(quiz *domain.Quiz, tf *TimeFormatter) QuizResponse {
	return QuizResponse{
		ID:                quiz.ID,
		Topic:             quiz.Topic,
		QuizType:          string(quiz.Type),
		Difficulty:        quiz.Difficulty,
		Language:          quiz.Language,
		NumQuestions:      quiz.NumQuestions,
		Questions:         questionPayloads(quiz.Questions),
		Status:            string(quiz.Status),
		CreatedBy:         quiz.CreatedBy,
		CreatedAt:         tf.Format(quiz.CreatedAt),
		LastUpdatedAt:     tf.Format(quiz.UpdatedAt),
		ScheduledDatetime: tf.FormatPtr(quiz.ScheduledStart),
		DurationMinutes:   quiz.DurationMinutes,
	}
}

// NewSubmissionHistory maps submissions to history rows.
func NewSubmissionHistory(subs []domain.Submission, tf *TimeFormatter) []SubmissionHistoryItem {
	items := make([]SubmissionHistoryItem, len(subs))
	for i, s := range subs {
		items[i] = SubmissionHistoryItem{
			QuizID:      s.QuizID,
			QuizTopic:   s.QuizTopic,
			QuizType:    string(s.QuizType),
			Score:       s.Score,
			Total:       s.Total,
			SubmittedAt: tf.Format(s.SubmittedAt),
		}
	}
	return items
}

// NewLeaderboard maps ranked submissions to leaderboard rows.
func NewLeaderboard(ranked []domain.Submission, tf *TimeFormatter) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(ranked))
	for i, s := range ranked {
		entries[i] = LeaderboardEntry{
			Rank:                  i + 1,
			UserID:                s.UserID,
			Score:                 s.Score,
			Total:                 s.Total,
			CompletionTimeSeconds: s.CompletionTimeSeconds,
			SubmittedAt:           tf.Format(s.SubmittedAt),
		}
	}
	return entries
}

// NewAttemptQuizResponse maps a prepared attempt to its taker view.
func NewAttemptQuizResponse(quiz *domain.Quiz, endsAt *string, tf *TimeFormatter) AttemptQuizResponse {
	return AttemptQuizResponse{
		ID:                quiz.ID,
		Topic:             quiz.Topic,
		QuizType:          string(quiz.Type),
		NumQuestions:      quiz.NumQuestions,
		Questions:         attemptQuestions(quiz.Questions),
		ScheduledDatetime: tf.FormatPtr(quiz.ScheduledStart),
		EndsAt:            endsAt,
	}
}
