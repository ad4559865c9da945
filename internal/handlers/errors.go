package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const routeNotFound = "Could not find this route."

// NewHTTPErrorHandler renders every error as {"message": "..."} with the
// status of its apperr kind.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := http.StatusInternalServerError, "An unknown error occurred!"

		var he *echo.HTTPError
		if e, ok := apperr.As(err); ok {
			status, message = e.Kind.HTTPStatus(), e.Message
			if e.Kind == apperr.Internal {
				logger.Error("request failed",
					zap.String("method", c.Request().Method),
					zap.String("path", c.Path()),
					zap.Error(err))
			}
		} else if errors.As(err, &he) {
			status, message = he.Code, fmt.Sprint(he.Message)
			if he.Code == http.StatusNotFound {
				message = routeNotFound
			}
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, echo.Map{"message": message})
		}
		if writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}

func currentUserID(c echo.Context) (string, error) {
	claims, ok := middleware.CurrentUser(c)
	if !ok || claims.UserID == "" {
		return "", apperr.New(apperr.Unauthorized, "Authentication failed!")
	}
	return claims.UserID, nil
}
