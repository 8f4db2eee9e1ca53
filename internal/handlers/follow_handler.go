package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/writeapp/backend/internal/models"
	"github.com/writeapp/backend/internal/repositories"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:username/follow", h.FollowUser)
	g.DELETE("/users/:username/follow", h.UnfollowUser)
}

// FollowUser makes the current user follow the named user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	visitor := visitorID(c)

	target, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return repositoryError(err)
	}

	if target.ID == visitor {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	isFollowing, err := h.followRepository.IsFollowing(visitor.Hex(), target.ID.Hex())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusConflict, "You are already following this user")
	}

	follow := &models.Follow{
		FollowerID: visitor.Hex(),
		FollowedID: target.ID.Hex(),
	}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"following": true})
}

// UnfollowUser makes the current user stop following the named user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	visitor := visitorID(c)

	target, err := h.userRepository.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return repositoryError(err)
	}

	if err := h.followRepository.DeleteFollow(visitor.Hex(), target.ID.Hex()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "You are not following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"following": false})
}
