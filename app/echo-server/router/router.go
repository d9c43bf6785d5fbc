package router

import (
	"smartShop/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")
	reco.GET("", handler.Recommend)
}

func SetInteractionRoutes(api *echo.Group, handler *rest.InteractionHandler) {
	interactions := api.Group("/interactions")
	interactions.POST("", handler.RecordInteraction)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct)
	products.PUT("/:id", handler.UpdateProduct)
	products.DELETE("/:id", handler.DeleteProduct)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:name/products", handler.GetProductsByCategory)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler) {
	users := api.Group("/users")

	users.GET("", handler.GetAllUsers)
	users.GET("/:id", handler.GetUserByID)
}

func SetBootstrapRoutes(api *echo.Group, handler *rest.BootstrapHandler) {
	api.GET("/init", handler.Init)
}
