package service

import (
	"context"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAttemptServiceForTest(t *testing.T, now time.Time) (*attemptService, *MockQuizRepo, *MockSubmissionRepo, *MockRegistrationRepo) {
	t.Helper()
	quizRepo := new(MockQuizRepo)
	subRepo := new(MockSubmissionRepo)
	regRepo := new(MockRegistrationRepo)
	svc := NewAttemptService(quizRepo, subRepo, regRepo).(*attemptService)
	svc.now = func() time.Time { return now }
	return svc, quizRepo, subRepo, regRepo
}

func scheduledQuiz(id string, start time.Time, durationMinutes int) *domain.Quiz {
	d := durationMinutes
	s := start
	return &domain.Quiz{
		ID:              id,
		Topic:           "Economy",
		Type:            domain.TypeNewsBased,
		Status:          domain.StatusScheduled,
		ScheduledStart:  &s,
		DurationMinutes: &d,
		Questions: []domain.Question{
			{Number: 1, Text: "q1", Options: []string{"a) x", "b) y", "c) z", "d) w"}, Answer: "a"},
			{Number: 2, Text: "q2", Options: []string{"a) x", "b) y", "c) z", "d) w"}, Answer: "b"},
		},
	}
}

func TestGetQuizForAttempt_StripsAnswers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	svc, quizRepo, subRepo, regRepo := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quiz := scheduledQuiz("quiz-1", now.Add(-5*time.Minute), 30)
	quizRepo.On("GetByID", ctx, "quiz-1").Return(quiz, nil)
	regRepo.On("Exists", ctx, "user-1", "quiz-1").Return(true, nil)
	subRepo.On("FindByUserAndQuiz", ctx, "user-1", "quiz-1").Return(nil, nil)

	attempt, err := svc.GetQuizForAttempt(ctx, "user-1", "quiz-1")

	require.NoError(t, err)
	require.Len(t, attempt.Quiz.Questions, 2)
	for _, q := range attempt.Quiz.Questions {
		assert.Empty(t, q.Answer)
	}
	// The stored quiz keeps its answers.
	assert.Equal(t, "a", quiz.Questions[0].Answer)
	require.NotNil(t, attempt.EndsAt)
}

func TestGetQuizForAttempt_BeforeStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, quizRepo, _, _ := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(time.Hour), 30), nil)

	_, err := svc.GetQuizForAttempt(ctx, "user-1", "quiz-1")
	assert.True(t, domain.IsCode(err, domain.ErrQuizNotAvailable))
}

func TestGetQuizForAttempt_NoGraceAfterEnd(t *testing.T) {
	// 10 seconds past the end: submit would still be accepted, fetch is not.
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(30*time.Minute + 10*time.Second)
	svc, quizRepo, _, _ := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", start, 30), nil)

	_, err := svc.GetQuizForAttempt(ctx, "user-1", "quiz-1")
	assert.True(t, domain.IsCode(err, domain.ErrQuizNotAvailable))
}

func TestGetQuizForAttempt_NotRegistered(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	svc, quizRepo, _, regRepo := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(-5*time.Minute), 30), nil)
	regRepo.On("Exists", ctx, "user-1", "quiz-1").Return(false, nil)

	_, err := svc.GetQuizForAttempt(ctx, "user-1", "quiz-1")
	assert.True(t, domain.IsCode(err, domain.ErrNotRegistered))
}

func TestGetQuizForAttempt_ActiveQuizNeedsNoRegistration(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, quizRepo, subRepo, regRepo := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quiz := &domain.Quiz{
		ID:     "quiz-1",
		Status: domain.StatusActive,
		Questions: []domain.Question{
			{Number: 1, Text: "q1", Options: []string{"a) x", "b) y", "c) z", "d) w"}, Answer: "a"},
		},
	}
	quizRepo.On("GetByID", ctx, "quiz-1").Return(quiz, nil)
	subRepo.On("FindByUserAndQuiz", ctx, "user-1", "quiz-1").Return(nil, nil)

	_, err := svc.GetQuizForAttempt(ctx, "user-1", "quiz-1")
	require.NoError(t, err)
	regRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_WithinGrace(t *testing.T) {
	// 10 seconds past the window end falls inside the 15-second grace.
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(30*time.Minute + 10*time.Second)
	svc, quizRepo, subRepo, regRepo := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", start, 30), nil)
	regRepo.On("Exists", ctx, "user-1", "quiz-1").Return(true, nil)
	subRepo.On("FindByUserAndQuiz", ctx, "user-1", "quiz-1").Return(nil, nil)
	subRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Submission")).Return(nil)
	subRepo.On("FindByQuiz", ctx, "quiz-1").Return([]domain.Submission{}, nil)

	res, err := svc.Submit(ctx, "user-1", "quiz-1", []string{"A", " b "}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Submission.Score)
	assert.Equal(t, 2, res.Submission.Total)
}

func TestSubmit_AfterGrace(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(30*time.Minute + 20*time.Second)
	svc, quizRepo, subRepo, regRepo := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", start, 30), nil)
	// Window failure must win even for an unregistered user.
	regRepo.On("Exists", ctx, "user-1", "quiz-1").Return(false, nil)

	_, err := svc.Submit(ctx, "user-1", "quiz-1", []string{"a", "b"}, nil)

	assert.True(t, domain.IsCode(err, domain.ErrWindowClosed))
	subRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmit_WrongAnswerCount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	svc, quizRepo, subRepo, regRepo := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(-5*time.Minute), 30), nil)
	regRepo.On("Exists", ctx, "user-1", "quiz-1").Return(true, nil)
	subRepo.On("FindByUserAndQuiz", ctx, "user-1", "quiz-1").Return(nil, nil)

	_, err := svc.Submit(ctx, "user-1", "quiz-1", []string{"a"}, nil)

	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
	subRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmit_DuplicateLosesRace(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	svc, quizRepo, subRepo, regRepo := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(-5*time.Minute), 30), nil)
	regRepo.On("Exists", ctx, "user-1", "quiz-1").Return(true, nil)
	// The pre-check saw nothing, but the insert hits the unique index.
	subRepo.On("FindByUserAndQuiz", ctx, "user-1", "quiz-1").Return(nil, nil)
	subRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Submission")).Return(domain.NewAlreadySubmittedError())

	_, err := svc.Submit(ctx, "user-1", "quiz-1", []string{"a", "b"}, nil)
	assert.True(t, domain.IsCode(err, domain.ErrAlreadySubmitted))
}

func TestResults(t *testing.T) {
	now := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	svc, quizRepo, subRepo, _ := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quiz := scheduledQuiz("quiz-1", now.Add(-time.Hour), 30)
	mine := &domain.Submission{ID: "s2", QuizID: "quiz-1", UserID: "user-1", Score: 1}
	all := []domain.Submission{
		{ID: "s1", QuizID: "quiz-1", UserID: "user-2", Score: 2},
		*mine,
		{ID: "s3", QuizID: "quiz-1", UserID: "user-3", Score: 0},
	}
	quizRepo.On("GetByID", ctx, "quiz-1").Return(quiz, nil)
	subRepo.On("FindByUserAndQuiz", ctx, "user-1", "quiz-1").Return(mine, nil)
	subRepo.On("FindByQuiz", ctx, "quiz-1").Return(all, nil)

	res, err := svc.Results(ctx, "user-1", "quiz-1")

	require.NoError(t, err)
	assert.Equal(t, 2, res.Rank)
	assert.Equal(t, 3, res.Participants)
	// Results include the graded answers.
	assert.Equal(t, "a", res.Questions[0].Answer)
}

func TestResults_NoSubmission(t *testing.T) {
	now := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	svc, quizRepo, subRepo, _ := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(-time.Hour), 30), nil)
	subRepo.On("FindByUserAndQuiz", ctx, "user-1", "quiz-1").Return(nil, nil)

	_, err := svc.Results(ctx, "user-1", "quiz-1")
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))
}

func TestLeaderboard_TruncatesToTopTwenty(t *testing.T) {
	now := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	svc, quizRepo, subRepo, _ := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	var all []domain.Submission
	for i := 0; i < 25; i++ {
		all = append(all, domain.Submission{
			ID:          string(rune('a' + i)),
			QuizID:      "quiz-1",
			UserID:      string(rune('A' + i)),
			Score:       i,
			SubmittedAt: now,
		})
	}
	quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(-time.Hour), 30), nil)
	subRepo.On("FindByQuiz", ctx, "quiz-1").Return(all, nil)

	board, err := svc.Leaderboard(ctx, "quiz-1")

	require.NoError(t, err)
	require.Len(t, board, domain.LeaderboardSize)
	assert.Equal(t, 24, board[0].Score)
}

func TestUpcoming_FiltersEndedAndFlagsLive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, quizRepo, _, regRepo := newAttemptServiceForTest(t, now)
	ctx := context.Background()

	live := scheduledQuiz("live", now.Add(-10*time.Minute), 30)
	future := scheduledQuiz("future", now.Add(2*time.Hour), 30)
	ended := scheduledQuiz("ended", now.Add(-2*time.Hour), 30)

	quizRepo.On("FindScheduled", ctx).Return([]domain.Quiz{*live, *future, *ended}, nil)
	regRepo.On("QuizIDsByUser", ctx, "user-1").Return([]string{"future"}, nil)

	upcoming, err := svc.Upcoming(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "live", upcoming[0].Quiz.ID)
	assert.True(t, upcoming[0].IsLive)
	assert.False(t, upcoming[0].IsRegistered)
	assert.Equal(t, "future", upcoming[1].Quiz.ID)
	assert.False(t, upcoming[1].IsLive)
	assert.True(t, upcoming[1].IsRegistered)
	for _, u := range upcoming {
		for _, q := range u.Quiz.Questions {
			assert.Empty(t, q.Answer)
		}
	}
}

func TestRegister(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("creates registration", func(t *testing.T) {
		svc, quizRepo, _, regRepo := newAttemptServiceForTest(t, now)
		quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(time.Hour), 30), nil)
		regRepo.On("Exists", ctx, "user-1", "quiz-1").Return(false, nil)
		regRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Registration")).Return(nil)

		created, err := svc.Register(ctx, "user-1", "quiz-1")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("duplicate is not an error", func(t *testing.T) {
		svc, quizRepo, _, regRepo := newAttemptServiceForTest(t, now)
		quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(time.Hour), 30), nil)
		regRepo.On("Exists", ctx, "user-1", "quiz-1").Return(true, nil)

		created, err := svc.Register(ctx, "user-1", "quiz-1")
		require.NoError(t, err)
		assert.False(t, created)
		regRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-scheduled quiz", func(t *testing.T) {
		svc, quizRepo, _, _ := newAttemptServiceForTest(t, now)
		quizRepo.On("GetByID", ctx, "quiz-1").Return(&domain.Quiz{ID: "quiz-1", Status: domain.StatusDraft}, nil)

		_, err := svc.Register(ctx, "user-1", "quiz-1")
		assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
	})

	t.Run("rejects ended quiz", func(t *testing.T) {
		svc, quizRepo, _, _ := newAttemptServiceForTest(t, now)
		quizRepo.On("GetByID", ctx, "quiz-1").Return(scheduledQuiz("quiz-1", now.Add(-2*time.Hour), 30), nil)

		_, err := svc.Register(ctx, "user-1", "quiz-1")
		assert.True(t, domain.IsCode(err, domain.ErrWindowClosed))
	})
}
