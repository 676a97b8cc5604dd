package handler

import (
	"strings"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/middleware"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler exposes the admin quiz-management surface.
type QuizHandler struct {
	svc service.QuizService
	tf  *dto.TimeFormatter
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(svc service.QuizService, tf *dto.TimeFormatter) *QuizHandler {
	return &QuizHandler{svc: svc, tf: tf}
}

// parseQuizType accepts both the short and the stored form of a quiz type.
func parseQuizType(s string) (domain.QuizType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general", strings.ToLower(string(domain.TypeGeneral)):
		return domain.TypeGeneral, nil
	case "news", "news-based", strings.ToLower(string(domain.TypeNewsBased)):
		return domain.TypeNewsBased, nil
	default:
		return "", domain.NewInvalidInputError("quiz_type must be general or news")
	}
}

// Generate runs the full generation pipeline and returns the draft quiz.
func (h *QuizHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	quizType, err := parseQuizType(req.QuizType)
	if err != nil {
		return err
	}

	quiz, err := h.svc.Generate(c.Context(), service.GenerateParams{
		Topic:      req.Topic,
		Type:       quizType,
		Count:      req.NumQuestions,
		Difficulty: req.Difficulty,
		Language:   req.Language,
		CreatedBy:  middleware.UserID(c),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResponse(quiz, h.tf))
}

// History lists quizzes created within a range, newest first.
func (h *QuizHandler) History(c *fiber.Ctx) error {
	var from, to time.Time
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			return domain.NewInvalidInputError("from must be an RFC3339 timestamp")
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			return domain.NewInvalidInputError("to must be an RFC3339 timestamp")
		}
	}

	quizzes, err := h.svc.History(c.Context(), from, to, domain.Status(c.Query("status")))
	if err != nil {
		return err
	}

	out := make([]dto.QuizResponse, len(quizzes))
	for i := range quizzes {
		out[i] = dto.NewQuizResponse(&quizzes[i], h.tf)
	}
	return c.JSON(out)
}

// Get returns the full admin view of a quiz, answers included.
func (h *QuizHandler) Get(c *fiber.Ctx) error {
	quiz, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz, h.tf))
}

// Delete removes a quiz in any status.
func (h *QuizHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// Review applies reviewed questions and a target status.
func (h *QuizHandler) Review(c *fiber.Ctx) error {
	var req dto.ReviewQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.QuizID == "" {
		return domain.NewInvalidInputError("quiz_id is required")
	}

	quiz, err := h.svc.Review(c.Context(), service.ReviewParams{
		QuizID:    req.QuizID,
		Questions: dto.QuestionsFromPayload(req.Questions),
		Status:    domain.Status(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz, h.tf))
}

// Regenerate returns a fresh question set without persisting it.
func (h *QuizHandler) Regenerate(c *fiber.Ctx) error {
	var req dto.RegenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.QuizID == "" {
		return domain.NewInvalidInputError("quiz_id is required")
	}

	questions, err := h.svc.Regenerate(c.Context(), req.QuizID)
	if err != nil {
		return err
	}

	payload := make([]dto.QuestionPayload, len(questions))
	for i, q := range questions {
		payload[i] = dto.QuestionPayload{
			QuestionNumber: q.Number,
			Question:       q.Text,
			Options:        q.Options,
			CorrectAnswer:  q.Answer,
		}
	}
	return c.JSON(fiber.Map{"quiz_id": req.QuizID, "questions": payload})
}

// Schedule sets the live window of a quiz.
func (h *QuizHandler) Schedule(c *fiber.Ctx) error {
	var req dto.ScheduleQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.QuizID == "" {
		return domain.NewInvalidInputError("quiz_id is required")
	}

	start, err := time.Parse(time.RFC3339, req.ScheduledDatetime)
	if err != nil {
		return domain.NewInvalidInputError("scheduled_datetime must be an RFC3339 timestamp")
	}

	quiz, err := h.svc.Schedule(c.Context(), req.QuizID, start, req.DurationMinutes)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz, h.tf))
}
