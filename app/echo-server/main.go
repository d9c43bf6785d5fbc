package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"smartShop/app/echo-server/router"
	"smartShop/business/category"
	"smartShop/business/interaction"
	"smartShop/business/product"
	"smartShop/business/recommendation"
	userService "smartShop/business/user"
	"smartShop/internal/middleware"
	geminiRepo "smartShop/internal/repository/gemini"
	psqlRepo "smartShop/internal/repository/postgres"
	redisRepo "smartShop/internal/repository/redis"
	"smartShop/internal/rest"
	"smartShop/pkg/config"
	"smartShop/pkg/database"
	redisDB "smartShop/pkg/database/redis"
	"smartShop/pkg/logger"
	"smartShop/pkg/metrics"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting SmartShop", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	interactionRepo := psqlRepo.NewInteractionRepository(db)

	explanationRepo := geminiRepo.NewGeminiRepository(geminiRepo.GeminiConfig{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		Model:      cfg.Gemini.Model,
		APIVersion: cfg.Gemini.APIVersion,
		Method:     cfg.Gemini.Method,
		Mock:       cfg.Gemini.Mock,
		Disabled:   cfg.Gemini.Disabled,
	})

	// Preference cache: in-process by default, Redis-backed when configured.
	var preferenceCache recommendation.PreferenceCache
	if cfg.Redis.UseForPreferenceCache {
		redisClient, err := redisDB.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer func() {
			if err := redisDB.CloseRedisClient(redisClient); err != nil {
				logger.Error("Failed to close Redis client", "error", err)
			}
		}()
		preferenceCache = redisRepo.NewPreferenceCache(redisClient, recommendation.DefaultPreferenceTTL)
		logger.Info("Preference cache backed by Redis")
	} else {
		preferenceCache = recommendation.NewMemoryPreferenceCache(recommendation.DefaultPreferenceTTL)
	}

	// Init service
	recommendationService := recommendation.NewRecommendationService(interactionRepo, productRepo, explanationRepo, preferenceCache)
	interactionService := interaction.NewInteractionService(interactionRepo, userRepo)
	productService := product.NewProductService(productRepo)
	categoryService := category.NewCategoryService(productRepo)
	usersService := userService.NewUserService(userRepo)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendationService)
	interactionHandler := rest.NewInteractionHandler(interactionService)
	productHandler := rest.NewProductHandler(productService)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	userHandler := rest.NewUserHandler(usersService)
	bootstrapHandler := rest.NewBootstrapHandler(productService, usersService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetInteractionRoutes(api, interactionHandler)
	router.SetupProductRoutes(api, productHandler)
	router.SetupCategoryRoutes(api, categoryHandler)
	router.SetupUserRoutes(api, userHandler)
	router.SetBootstrapRoutes(api, bootstrapHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
