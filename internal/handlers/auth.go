package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/anonto42/shared-places/backend/internal/services"
	"github.com/anonto42/shared-places/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler handles signup and login requests
type AuthHandler struct {
	users  *services.UserService
	images storage.ImageStore
	logger *zap.Logger
}

func NewAuthHandler(users *services.UserService, images storage.ImageStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, images: images, logger: logger}
}

// RegisterAuthRoutes registers authentication routes. firebase-login is only
// mounted when the service has a Firebase verifier.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	if h.users.FirebaseEnabled() {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// Signup accepts JSON or multipart form data. A multipart "image" file
// becomes the profile image.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.BadRequest, "Invalid request payload", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var image string
	if isMultipart(c) {
		ref, err := saveImage(c, h.images, false)
		if err != nil {
			return err
		}
		image = ref
	}

	res, err := h.users.Register(c.Request().Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    image,
	})
	if err != nil {
		discardImage(c, h.images, h.logger, image)
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.BadRequest, "Invalid request payload", err)
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Wrap(apperr.Unauthorized, "Invalid credentials, could not log you in.", err)
	}

	res, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// FirebaseLogin exchanges a Firebase ID token for a local token.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.BadRequest, "Invalid request payload", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.users.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
