package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		logged  bool
	}{
		{"conflict", apperr.New(apperr.Conflict, "User exists already, please login instead."), http.StatusConflict, "User exists already, please login instead.", false},
		{"validation", apperr.New(apperr.Validation, "Invalid inputs passed, please check your data."), http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data.", false},
		{"internal", apperr.Wrap(apperr.Internal, "Creating place failed, please try again.", errors.New("db down")), http.StatusInternalServerError, "Creating place failed, please try again.", true},
		{"route not found", echo.ErrNotFound, http.StatusNotFound, "Could not find this route.", false},
		{"echo http error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed", false},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "An unknown error occurred!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			handler := NewHTTPErrorHandler(zap.New(core))

			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			handler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, tt.logged, logs.Len() > 0)
		})
	}
}
