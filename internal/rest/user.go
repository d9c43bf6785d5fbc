package rest

import (
	"context"
	"net/http"
	"smartShop/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService UserService
	timeout     time.Duration
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		timeout:     10 * time.Second,
	}
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		logger.Error("failed to fetch users", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "Failed to fetch users"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(users))
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	id := c.Param("id")

	user, err := h.userService.GetUserByID(ctx, id)
	if err != nil {
		if err.Error() == "user not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "User not found"})
		}
		logger.Error("failed to fetch user", "error", err, "user_id", id)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "Failed to fetch user"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(user))
}
