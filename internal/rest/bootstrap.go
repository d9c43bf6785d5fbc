package rest

import (
	"context"
	"net/http"
	"smartShop/domain"
	"smartShop/pkg/logger"
	"time"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

// BootstrapHandler serves the storefront's initial payload: the product
// catalog and the known users, both name-ordered.
type BootstrapHandler struct {
	productService ProductService
	userService    UserService
	timeout        time.Duration
}

func NewBootstrapHandler(productService ProductService, userService UserService) *BootstrapHandler {
	return &BootstrapHandler{
		productService: productService,
		userService:    userService,
		timeout:        10 * time.Second,
	}
}

type BootstrapResponse struct {
	Products []domain.Product `json:"products"`
	Users    []domain.User    `json:"users"`
}

func (h *BootstrapHandler) Init(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx)
	if err != nil {
		logger.Error("failed to load products for bootstrap", "error", err)
		return c.JSON(http.StatusInternalServerError, BootstrapResponse{
			Products: []domain.Product{},
			Users:    []domain.User{},
		})
	}

	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		logger.Error("failed to load users for bootstrap", "error", err)
		return c.JSON(http.StatusInternalServerError, BootstrapResponse{
			Products: []domain.Product{},
			Users:    []domain.User{},
		})
	}

	if products == nil {
		products = []domain.Product{}
	}
	if users == nil {
		users = []domain.User{}
	}

	return c.JSON(http.StatusOK, BootstrapResponse{
		Products: products,
		Users:    users,
	})
}
