package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/writeapp/backend/internal/models"
	"github.com/writeapp/backend/internal/repositories"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepository: postRepo}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post authored by the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	id, err := h.postRepository.CreatePost(c.Request().Context(), req.Title, req.Body, visitorID(c))
	if err != nil {
		return repositoryError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id.Hex()})
}

// GetPost retrieves a post by ID, with the ownership flag computed for the
// current user
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.FindSingleByID(c.Request().Context(), c.Param("id"), visitorID(c))
	if err != nil {
		return repositoryError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost overwrites the title and body of a post the current user owns
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), c.Param("id"), req.Title, req.Body, visitorID(c)); err != nil {
		return repositoryError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeletePost permanently removes a post the current user owns
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.postRepository.DeletePost(c.Request().Context(), c.Param("id"), visitorID(c)); err != nil {
		return repositoryError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchPosts returns posts matching the q query parameter, most relevant
// first. No match yields an empty list, not an error.
func (h *PostHandler) SearchPosts(c echo.Context) error {
	posts, err := h.postRepository.Search(c.Request().Context(), c.QueryParam("q"), visitorID(c))
	if err != nil {
		return repositoryError(err)
	}
	return c.JSON(http.StatusOK, posts)
}
