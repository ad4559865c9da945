package router

import (
	"github.com/anonto42/shared-places/backend/internal/handlers"
	"github.com/anonto42/shared-places/backend/internal/middleware"
	"github.com/anonto42/shared-places/backend/internal/repositories"
	"github.com/anonto42/shared-places/backend/internal/services"
	"github.com/anonto42/shared-places/backend/internal/token"
	"github.com/anonto42/shared-places/backend/pkg/geocode"
	"github.com/anonto42/shared-places/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Store    *repositories.Store
	Geocoder geocode.Geocoder
	Images   storage.ImageStore
	Tokens   *token.Issuer
	Firebase services.FirebaseVerifier
	Logger   *zap.Logger

	// PasswordCost overrides the bcrypt cost; values below the minimum are
	// raised.
	PasswordCost int
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger

	e.GET("/health", handlers.HealthCheck)

	// Local uploads are served from the same prefix the store hands out.
	if local, ok := deps.Images.(*storage.Local); ok {
		e.Static(local.URLPrefix(), local.Dir())
		logger.Info("Serving uploaded images", zap.String("prefix", local.URLPrefix()), zap.String("dir", local.Dir()))
	}

	// --- Services ---
	opts := []services.UserOption{services.WithPasswordCost(deps.PasswordCost)}
	if deps.Firebase != nil {
		opts = append(opts, services.WithFirebase(deps.Firebase))
	}
	userService := services.NewUserService(deps.Store.Users, deps.Tokens, logger, opts...)
	placeService := services.NewPlaceService(deps.Store, deps.Geocoder, deps.Images, logger)
	postService := services.NewPostService(deps.Store, logger)

	auth := middleware.JWTAuthMiddleware(deps.Tokens)
	api := e.Group("/api")

	// User routes
	users := api.Group("/users")
	handlers.NewUserHandler(userService).RegisterUserRoutes(users)
	handlers.NewAuthHandler(userService, deps.Images, logger).RegisterAuthRoutes(users)
	logger.Info("User routes configured.", zap.Bool("firebase_login", userService.FirebaseEnabled()))

	// Place routes
	handlers.NewPlaceHandler(placeService, deps.Images, logger).RegisterPlaceRoutes(api.Group("/places"), auth)
	logger.Info("Place routes configured.")

	// Post routes
	handlers.NewPostHandler(postService).RegisterPostRoutes(api.Group("/posts"), auth)
	logger.Info("Post routes configured.")
}
