package middleware

import (
	"strings"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/anonto42/shared-places/backend/internal/token"
	"github.com/labstack/echo/v4"
)

// UserContextKey is where JWTAuthMiddleware stores the token claims.
const UserContextKey = "user"

const authFailed = "Authentication failed!"

// JWTAuthMiddleware checks for a valid bearer token and extracts user claims.
func JWTAuthMiddleware(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return apperr.New(apperr.Unauthorized, authFailed)
			}

			// Expecting "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperr.New(apperr.Unauthorized, authFailed)
			}

			claims, err := issuer.Parse(parts[1])
			if err != nil {
				return apperr.Wrap(apperr.Unauthorized, authFailed, err)
			}

			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}

// CurrentUser returns the claims set by JWTAuthMiddleware, if any.
func CurrentUser(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get(UserContextKey).(*models.JwtCustomClaims)
	return claims, ok && claims != nil
}
