package handler

import (
	"quizforge/internal/dto"
	"quizforge/internal/middleware"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RecommendationHandler serves topic suggestions.
type RecommendationHandler struct {
	svc service.RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// Get returns the caller's recent topics, or trending topics when the
// caller has none.
func (h *RecommendationHandler) Get(c *fiber.Ctx) error {
	recs, err := h.svc.ForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.RecommendationsResponse{
		Topics:   recs.Topics,
		Trending: recs.Trending,
	})
}
