package handlers

import (
	"net/http"

	"github.com/anonto42/shared-places/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves the public user listing and profile lookup.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("", h.GetUsers)
	g.GET("/:uid", h.GetUser)
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.users.GetUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
