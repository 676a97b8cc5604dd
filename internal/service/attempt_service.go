package service

import (
	"context"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

// SubmissionRepo persists graded attempts; Insert is the atomic arbiter of
// the one-attempt rule.
type SubmissionRepo interface {
	Insert(ctx context.Context, sub *domain.Submission) error
	FindByUserAndQuiz(ctx context.Context, userID, quizID string) (*domain.Submission, error)
	FindByQuiz(ctx context.Context, quizID string) ([]domain.Submission, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Submission, error)
}

// RegistrationRepo persists scheduled-quiz registrations.
type RegistrationRepo interface {
	Insert(ctx context.Context, reg *domain.Registration) error
	Exists(ctx context.Context, userID, quizID string) (bool, error)
	QuizIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// AttemptQuiz is a quiz prepared for a taker: answers stripped, window
// boundaries exposed.
type AttemptQuiz struct {
	Quiz     domain.Quiz
	EndsAt   *time.Time
	StartsAt *time.Time
}

// SubmitResult is the immediate grading outcome of a submission.
type SubmitResult struct {
	Submission domain.Submission
	Rank       int
}

// QuizResult is the post-quiz view: the user's graded attempt in context.
type QuizResult struct {
	Submission   domain.Submission
	Rank         int
	Participants int
	Questions    []domain.Question
}

// UpcomingQuiz is a scheduled quiz in the public listing.
type UpcomingQuiz struct {
	Quiz         domain.Quiz
	IsLive       bool
	IsRegistered bool
	EndsAt       *time.Time
}

// AttemptService covers the taker-facing quiz lifecycle: availability,
// registration, submission, results and rankings.
type AttemptService interface {
	GetQuizForAttempt(ctx context.Context, userID, quizID string) (*AttemptQuiz, error)
	Submit(ctx context.Context, userID, quizID string, answers []string, completionTimeSeconds *float64) (*SubmitResult, error)
	Results(ctx context.Context, userID, quizID string) (*QuizResult, error)
	Leaderboard(ctx context.Context, quizID string) ([]domain.Submission, error)
	Upcoming(ctx context.Context, userID string) ([]UpcomingQuiz, error)
	Register(ctx context.Context, userID, quizID string) (bool, error)
	IsRegistered(ctx context.Context, userID, quizID string) (bool, error)
	RegisteredQuizIDs(ctx context.Context, userID string) ([]string, error)
	UserSubmissions(ctx context.Context, userID string) ([]domain.Submission, error)
}

type attemptService struct {
	quizRepo QuizRepo
	subRepo  SubmissionRepo
	regRepo  RegistrationRepo
	now      func() time.Time
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(quizRepo QuizRepo, subRepo SubmissionRepo, regRepo RegistrationRepo) AttemptService {
	return &attemptService{
		quizRepo: quizRepo,
		subRepo:  subRepo,
		regRepo:  regRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// checkAccess runs the shared window check, then the registration and
// already-submitted checks. Ordering matters: a window failure must win
// even when the user is also unregistered or has already submitted.
func (s *attemptService) checkAccess(ctx context.Context, userID string, quiz *domain.Quiz, now time.Time, grace time.Duration) error {
	av := quiz.AvailabilityAt(now, grace)
	if !av.Live {
		switch av.Reason {
		case domain.ReasonNotStarted:
			return domain.NewQuizNotAvailableError(fmt.Sprintf(
				"quiz starts at %s", av.StartsAt.Format(time.RFC3339)))
		case domain.ReasonEnded:
			if grace > 0 {
				return domain.NewWindowClosedError()
			}
			return domain.NewQuizNotAvailableError("quiz has ended")
		default:
			return domain.NewQuizNotAvailableError("quiz is not open for attempts")
		}
	}

	if av.RequiresRegistration {
		registered, err := s.regRepo.Exists(ctx, userID, quiz.ID)
		if err != nil {
			return domain.NewInternalError("failed to check registration", err)
		}
		if !registered {
			return domain.NewNotRegisteredError()
		}
	}

	existing, err := s.subRepo.FindByUserAndQuiz(ctx, userID, quiz.ID)
	if err != nil {
		return domain.NewInternalError("failed to check prior submission", err)
	}
	if existing != nil {
		return domain.NewAlreadySubmittedError()
	}
	return nil
}

func (s *attemptService) GetQuizForAttempt(ctx context.Context, userID, quizID string) (*AttemptQuiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	// No grace here: the window only stretches for submissions in flight.
	if err := s.checkAccess(ctx, userID, quiz, s.now(), 0); err != nil {
		return nil, err
	}

	stripped := *quiz
	stripped.Questions = stripAnswers(quiz.Questions)
	return &AttemptQuiz{
		Quiz:     stripped,
		StartsAt: quiz.ScheduledStart,
		EndsAt:   quiz.End(),
	}, nil
}

func (s *attemptService) Submit(ctx context.Context, userID, quizID string, answers []string, completionTimeSeconds *float64) (*SubmitResult, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if err := s.checkAccess(ctx, userID, quiz, now, domain.SubmitGracePeriod); err != nil {
		return nil, err
	}

	score, err := domain.ScoreAnswers(quiz.Questions, answers)
	if err != nil {
		return nil, err
	}

	sub := domain.Submission{
		ID:                    util.NewULID(),
		QuizID:                quiz.ID,
		UserID:                userID,
		QuizTopic:             quiz.Topic,
		QuizType:              quiz.Type,
		Answers:               answers,
		Score:                 score,
		Total:                 len(quiz.Questions),
		CompletionTimeSeconds: completionTimeSeconds,
		SubmittedAt:           now,
	}

	// The unique index decides races between concurrent submits.
	if err := s.subRepo.Insert(ctx, &sub); err != nil {
		return nil, err
	}

	all, err := s.subRepo.FindByQuiz(ctx, quiz.ID)
	if err != nil {
		logger.Get().Error("Failed to rank fresh submission",
			zap.Error(err), zap.String("quizID", quiz.ID))
		return &SubmitResult{Submission: sub, Rank: -1}, nil
	}

	logger.Get().Info("Submission recorded",
		zap.String("quizID", quiz.ID),
		zap.Int("score", score),
		zap.Int("total", sub.Total))
	return &SubmitResult{Submission: sub, Rank: domain.RankOf(all, userID)}, nil
}

func (s *attemptService) Results(ctx context.Context, userID, quizID string) (*QuizResult, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	sub, err := s.subRepo.FindByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch submission", err)
	}
	if sub == nil {
		return nil, domain.NewNotFoundError("no submission found for this quiz")
	}

	all, err := s.subRepo.FindByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch quiz submissions", err)
	}

	return &QuizResult{
		Submission:   *sub,
		Rank:         domain.RankOf(all, userID),
		Participants: len(all),
		Questions:    quiz.Questions,
	}, nil
}

func (s *attemptService) Leaderboard(ctx context.Context, quizID string) ([]domain.Submission, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		return nil, err
	}
	all, err := s.subRepo.FindByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch quiz submissions", err)
	}
	ranked := domain.RankSubmissions(all)
	if len(ranked) > domain.LeaderboardSize {
		ranked = ranked[:domain.LeaderboardSize]
	}
	return ranked, nil
}

func (s *attemptService) Upcoming(ctx context.Context, userID string) ([]UpcomingQuiz, error) {
	scheduled, err := s.quizRepo.FindScheduled(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list scheduled quizzes", err)
	}

	registered := map[string]bool{}
	if userID != "" {
		ids, err := s.regRepo.QuizIDsByUser(ctx, userID)
		if err != nil {
			return nil, domain.NewInternalError("failed to list registrations", err)
		}
		for _, id := range ids {
			registered[id] = true
		}
	}

	now := s.now()
	upcoming := make([]UpcomingQuiz, 0, len(scheduled))
	for _, quiz := range scheduled {
		if end := quiz.End(); end != nil && !now.Before(*end) {
			continue
		}
		av := quiz.AvailabilityAt(now, 0)
		stripped := quiz
		stripped.Questions = stripAnswers(quiz.Questions)
		upcoming = append(upcoming, UpcomingQuiz{
			Quiz:         stripped,
			IsLive:       av.Live,
			IsRegistered: registered[quiz.ID],
			EndsAt:       quiz.End(),
		})
	}
	return upcoming, nil
}

// Register records the user for a scheduled quiz. The bool reports whether
// this call created the registration; false means it already existed.
func (s *attemptService) Register(ctx context.Context, userID, quizID string) (bool, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return false, err
	}
	if quiz.Status != domain.StatusScheduled {
		return false, domain.NewInvalidInputError("only scheduled quizzes accept registrations")
	}
	if end := quiz.End(); end != nil && !s.now().Before(*end) {
		return false, domain.NewWindowClosedError()
	}

	already, err := s.regRepo.Exists(ctx, userID, quizID)
	if err != nil {
		return false, domain.NewInternalError("failed to check registration", err)
	}
	if already {
		return false, nil
	}

	reg := domain.Registration{
		ID:           util.NewULID(),
		UserID:       userID,
		QuizID:       quizID,
		RegisteredAt: s.now(),
	}
	if err := s.regRepo.Insert(ctx, &reg); err != nil {
		return false, domain.NewInternalError("failed to register for quiz", err)
	}
	return true, nil
}

func (s *attemptService) IsRegistered(ctx context.Context, userID, quizID string) (bool, error) {
	registered, err := s.regRepo.Exists(ctx, userID, quizID)
	if err != nil {
		return false, domain.NewInternalError("failed to check registration", err)
	}
	return registered, nil
}

func (s *attemptService) RegisteredQuizIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.regRepo.QuizIDsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list registrations", err)
	}
	return ids, nil
}

func (s *attemptService) UserSubmissions(ctx context.Context, userID string) ([]domain.Submission, error) {
	subs, err := s.subRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to fetch submission history", err)
	}
	return subs, nil
}

func stripAnswers(questions []domain.Question) []domain.Question {
	stripped := make([]domain.Question, len(questions))
	copy(stripped, questions)
	for i := range stripped {
		stripped[i].Answer = ""
	}
	return stripped
}
