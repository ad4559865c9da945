package handlers

import (
	"net/http"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/anonto42/shared-places/backend/internal/services"
	"github.com/anonto42/shared-places/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PlaceHandler handles HTTP requests related to places
type PlaceHandler struct {
	places *services.PlaceService
	images storage.ImageStore
	logger *zap.Logger
}

func NewPlaceHandler(places *services.PlaceService, images storage.ImageStore, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{places: places, images: images, logger: logger}
}

// RegisterPlaceRoutes registers place routes. auth guards the mutating ones.
func (h *PlaceHandler) RegisterPlaceRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/:pid", h.GetPlace)
	g.GET("/user/:uid", h.GetPlacesByUser)
	g.POST("", h.CreatePlace, auth)
	g.PATCH("/:pid", h.UpdatePlace, auth)
	g.DELETE("/:pid", h.DeletePlace, auth)
}

func (h *PlaceHandler) GetPlace(c echo.Context) error {
	place, err := h.places.GetPlace(c.Request().Context(), c.Param("pid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"place": place})
}

func (h *PlaceHandler) GetPlacesByUser(c echo.Context) error {
	places, err := h.places.GetPlacesByUser(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"places": places})
}

// CreatePlace expects multipart form data with title, description, address
// and an image file.
func (h *PlaceHandler) CreatePlace(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.BadRequest, "Invalid request payload", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, err := saveImage(c, h.images, true)
	if err != nil {
		return err
	}

	place, err := h.places.CreatePlace(c.Request().Context(), services.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Image:       image,
		Creator:     userID,
	})
	if err != nil {
		discardImage(c, h.images, h.logger, image)
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"place": place})
}

func (h *PlaceHandler) UpdatePlace(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.BadRequest, "Invalid request payload", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	place, err := h.places.UpdatePlace(c.Request().Context(), c.Param("pid"), userID, services.UpdatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"place": place})
}

func (h *PlaceHandler) DeletePlace(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.places.DeletePlace(c.Request().Context(), c.Param("pid"), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted place."})
}
