package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/writeapp/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository repositories.PostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository) *FeedHandler {
	return &FeedHandler{postRepository: postRepo}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the newest-first posts by everyone the current user
// follows. Following nobody yields an empty feed.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.postRepository.Feed(c.Request().Context(), visitorID(c))
	if err != nil {
		return repositoryError(err)
	}
	return c.JSON(http.StatusOK, posts)
}
