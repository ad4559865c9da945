package handlers

import (
	"net/http"

	"github.com/anonto42/shared-places/backend/internal/apperr"
	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/anonto42/shared-places/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post routes. auth guards the mutating ones.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("", h.GetPosts)
	g.GET("/:pid", h.GetPost)
	g.GET("/user/:uid", h.GetPostsByUser)
	g.POST("", h.CreatePost, auth)
	g.PATCH("/:pid", h.UpdatePost, auth)
	g.DELETE("/:pid", h.DeletePost, auth)
}

// GetPosts returns every post, newest first.
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.posts.GetPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.posts.GetPost(c.Request().Context(), c.Param("pid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

func (h *PostHandler) GetPostsByUser(c echo.Context) error {
	posts, err := h.posts.GetPostsByUser(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.BadRequest, "Invalid request payload", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), services.CreatePostInput{
		Title:   req.Title,
		Body:    req.Body,
		Creator: userID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"post": post})
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.BadRequest, "Invalid request payload", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(c.Request().Context(), c.Param("pid"), userID, services.UpdatePostInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), c.Param("pid"), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted post."})
}
