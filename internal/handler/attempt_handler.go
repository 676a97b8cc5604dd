package handler

import (
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/middleware"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler exposes the taker-facing quiz surface.
type AttemptHandler struct {
	svc service.AttemptService
	tf  *dto.TimeFormatter
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(svc service.AttemptService, tf *dto.TimeFormatter) *AttemptHandler {
	return &AttemptHandler{svc: svc, tf: tf}
}

// Upcoming lists scheduled quizzes that have not ended.
func (h *AttemptHandler) Upcoming(c *fiber.Ctx) error {
	upcoming, err := h.svc.Upcoming(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}

	out := make([]dto.UpcomingQuizResponse, len(upcoming))
	for i, u := range upcoming {
		out[i] = dto.UpcomingQuizResponse{
			ID:                u.Quiz.ID,
			Topic:             u.Quiz.Topic,
			QuizType:          string(u.Quiz.Type),
			NumQuestions:      u.Quiz.NumQuestions,
			ScheduledDatetime: h.tf.FormatPtr(u.Quiz.ScheduledStart),
			EndsAt:            h.tf.FormatPtr(u.EndsAt),
			DurationMinutes:   u.Quiz.DurationMinutes,
			IsLive:            u.IsLive,
			IsRegistered:      u.IsRegistered,
		}
	}
	return c.JSON(out)
}

// Register signs the caller up for a scheduled quiz; registering twice is
// reported, not rejected.
func (h *AttemptHandler) Register(c *fiber.Ctx) error {
	quizID := c.Params("id")
	created, err := h.svc.Register(c.Context(), middleware.UserID(c), quizID)
	if err != nil {
		return err
	}

	message := "registered successfully"
	if !created {
		message = "already registered"
	}
	return c.JSON(dto.RegistrationResponse{
		QuizID:     quizID,
		Registered: true,
		Message:    message,
	})
}

// CheckRegistration reports whether the caller is registered for the quiz.
func (h *AttemptHandler) CheckRegistration(c *fiber.Ctx) error {
	quizID := c.Params("id")
	registered, err := h.svc.IsRegistered(c.Context(), middleware.UserID(c), quizID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"quiz_id": quizID, "registered": registered})
}

// Registered lists the quiz IDs the caller has registered for.
func (h *AttemptHandler) Registered(c *fiber.Ctx) error {
	ids, err := h.svc.RegisteredQuizIDs(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"quiz_ids": ids})
}

// GetForAttempt returns the attempt payload with answers stripped.
func (h *AttemptHandler) GetForAttempt(c *fiber.Ctx) error {
	attempt, err := h.svc.GetQuizForAttempt(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttemptQuizResponse(&attempt.Quiz, h.tf.FormatPtr(attempt.EndsAt), h.tf))
}

// Submit grades and records the caller's attempt.
func (h *AttemptHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	res, err := h.svc.Submit(c.Context(), middleware.UserID(c), c.Params("id"), req.Answers, req.CompletionTimeSeconds)
	if err != nil {
		return err
	}

	return c.JSON(dto.SubmitQuizResponse{
		QuizID:                res.Submission.QuizID,
		Score:                 res.Submission.Score,
		Total:                 res.Submission.Total,
		Rank:                  res.Rank,
		CompletionTimeSeconds: res.Submission.CompletionTimeSeconds,
		SubmittedAt:           h.tf.Format(res.Submission.SubmittedAt),
	})
}

// Results returns the caller's graded attempt with rank and answer key.
func (h *AttemptHandler) Results(c *fiber.Ctx) error {
	res, err := h.svc.Results(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}

	questions := make([]dto.QuestionPayload, len(res.Questions))
	for i, q := range res.Questions {
		questions[i] = dto.QuestionPayload{
			QuestionNumber: q.Number,
			Question:       q.Text,
			Options:        q.Options,
			CorrectAnswer:  q.Answer,
		}
	}
	return c.JSON(dto.QuizResultResponse{
		QuizID:       res.Submission.QuizID,
		Topic:        res.Submission.QuizTopic,
		Score:        res.Submission.Score,
		Total:        res.Submission.Total,
		Rank:         res.Rank,
		Participants: res.Participants,
		Answers:      res.Submission.Answers,
		Questions:    questions,
		SubmittedAt:  h.tf.Format(res.Submission.SubmittedAt),
	})
}

// Leaderboard returns the ranked top submissions for a quiz.
func (h *AttemptHandler) Leaderboard(c *fiber.Ctx) error {
	ranked, err := h.svc.Leaderboard(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLeaderboard(ranked, h.tf))
}

// Submissions returns the caller's attempt history, newest first.
func (h *AttemptHandler) Submissions(c *fiber.Ctx) error {
	subs, err := h.svc.UserSubmissions(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSubmissionHistory(subs, h.tf))
}
