package rest

import (
	"context"
	"errors"
	"net/http"
	"smartShop/business/recommendation"
	"smartShop/domain"
	"smartShop/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RecommendationService interface {
	Recommend(ctx context.Context, userID string) ([]domain.Recommendation, error)
}

type RecommendationHandler struct {
	recommendationService RecommendationService
	validator             *validator.Validate
	timeout               time.Duration
}

func NewRecommendationHandler(recommendationService RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		validator:             validator.New(),
		// long enough for the explanation client to walk its whole
		// retry/fallback chain
		timeout: 2 * time.Minute,
	}
}

type RecommendQuery struct {
	UserID string `query:"user_id" validate:"required"`
}

type RecommendationResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
}

func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var q RecommendQuery

	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Missing user_id parameter"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.recommendationService.Recommend(ctx, q.UserID)
	if err != nil {
		if errors.Is(err, recommendation.ErrMissingUserID) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("failed to generate recommendations", "user_id", q.UserID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "Failed to fetch recommendations"})
	}

	if recs == nil {
		recs = []domain.Recommendation{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(RecommendationResponse{
		Recommendations: recs,
	}))
}
