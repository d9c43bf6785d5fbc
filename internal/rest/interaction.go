package rest

import (
	"context"
	"errors"
	"net/http"
	"smartShop/business/interaction"
	"smartShop/domain"
	"smartShop/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type InteractionService interface {
	RecordInteraction(ctx context.Context, userID, productID, actionType string, identity domain.UserIdentity) (*domain.UserInteraction, error)
}

type InteractionHandler struct {
	interactionService InteractionService
	validator          *validator.Validate
	timeout            time.Duration
}

func NewInteractionHandler(interactionService InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
		validator:          validator.New(),
		timeout:            10 * time.Second,
	}
}

type RecordInteractionRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	ProductID  string `json:"product_id" validate:"required"`
	ActionType string `json:"action_type" validate:"required,oneof=view add_to_cart purchase"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email" validate:"omitempty,email"`
}

func (h *InteractionHandler) RecordInteraction(c echo.Context) error {
	var req RecordInteractionRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("failed to bind interaction request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("failed to validate interaction request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.interactionService.RecordInteraction(ctx, req.UserID, req.ProductID, req.ActionType, domain.UserIdentity{
		Name:  req.UserName,
		Email: req.UserEmail,
	})
	if err != nil {
		if errors.Is(err, interaction.ErrInvalidActionType) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("failed to record interaction", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "Failed to record interaction"})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}
