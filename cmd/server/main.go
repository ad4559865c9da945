package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/shared-places/backend/internal/handlers"
	"github.com/anonto42/shared-places/backend/internal/router"
	"github.com/anonto42/shared-places/backend/internal/token"
	"github.com/anonto42/shared-places/backend/pkg/config"
	"github.com/anonto42/shared-places/backend/pkg/firebase"
	"github.com/anonto42/shared-places/backend/pkg/geocode"
	"github.com/anonto42/shared-places/backend/pkg/logger"
	"github.com/anonto42/shared-places/backend/pkg/storage"
	"github.com/anonto42/shared-places/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if cfg.UsingDevSecret {
		zl.Warn("JWT_SECRET not set, using the development secret.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zl.Error("Failed to close database", zap.Error(err))
		}
	}()

	var geocoder geocode.Geocoder = geocode.NewStatic()
	if cfg.GoogleAPIKey != "" {
		geocoder = geocode.NewGoogle(cfg.GoogleAPIKey)
	} else {
		zl.Warn("GOOGLE_API_KEY not set, every address resolves to fixed coordinates.")
	}

	var images storage.ImageStore
	if cfg.S3Bucket != "" {
		images, err = storage.NewS3(ctx, cfg.S3Bucket, cfg.S3Region, cfg.AWSAccessKey, cfg.AWSSecretKey)
	} else {
		images, err = storage.NewLocal(cfg.UploadDir, cfg.UploadURLPrefix)
	}
	if err != nil {
		zl.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	deps := router.Dependencies{
		Store:        db.Store,
		Geocoder:     geocoder,
		Images:       images,
		Tokens:       token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Logger:       zl,
		PasswordCost: cfg.BcryptCost,
	}

	// Initialize Firebase
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, zl)
	if err != nil {
		zl.Fatal("Failed to initialize Firebase", zap.Error(err))
	}
	if firebaseApp != nil {
		deps.Firebase = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(zl)

	config.SetupMiddleware(e, zl)
	router.SetupRoutes(e, deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server stopped", zap.Error(err))
		}
	}()
	zl.Info("Server started", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("Failed to shut down server", zap.Error(err))
	}
}
