package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/writeapp/backend/internal/models"
	"github.com/writeapp/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler handles public profile HTTP requests
type ProfileHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, followRepo repositories.FollowRepository) *ProfileHandler {
	return &ProfileHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		followRepository: followRepo,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/:username", h.GetProfile)
	g.GET("/users/:username/posts", h.GetPostsByUsername)
	g.GET("/users/:username/followers", h.GetFollowers)
	g.GET("/users/:username/following", h.GetFollowing)
}

// GetProfile returns the profile header data: counts, avatar and whether
// the current user follows the profile owner.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	profileUser, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return repositoryError(err)
	}

	visitor := visitorID(c)
	postCount, err := h.postRepository.CountByAuthor(ctx, profileUser.ID)
	if err != nil {
		return repositoryError(err)
	}
	followerCount, err := h.followRepository.GetFollowerCount(profileUser.ID.Hex())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followingCount, err := h.followRepository.GetFollowedCount(profileUser.ID.Hex())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isFollowing := false
	if visitor != primitive.NilObjectID && visitor != profileUser.ID {
		isFollowing, err = h.followRepository.IsFollowing(visitor.Hex(), profileUser.ID.Hex())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"username":          profileUser.Username,
		"avatar":            profileUser.Avatar(),
		"isFollowing":       isFollowing,
		"isVisitorsProfile": visitor == profileUser.ID,
		"counts": echo.Map{
			"postCount":      postCount,
			"followerCount":  followerCount,
			"followingCount": followingCount,
		},
	})
}

// GetPostsByUsername returns a user's posts, newest first.
func (h *ProfileHandler) GetPostsByUsername(c echo.Context) error {
	ctx := c.Request().Context()

	profileUser, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return repositoryError(err)
	}

	posts, err := h.postRepository.FindByAuthorID(ctx, profileUser.ID, visitorID(c))
	if err != nil {
		return repositoryError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetFollowers lists the users following the profile owner.
func (h *ProfileHandler) GetFollowers(c echo.Context) error {
	return h.listFollowEdges(c, h.followRepository.GetFollowerIDs)
}

// GetFollowing lists the users the profile owner follows.
func (h *ProfileHandler) GetFollowing(c echo.Context) error {
	return h.listFollowEdges(c, h.followRepository.GetFollowedIDs)
}

func (h *ProfileHandler) listFollowEdges(c echo.Context, edgeIDs func(string) ([]string, error)) error {
	ctx := c.Request().Context()

	profileUser, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return repositoryError(err)
	}

	ids, err := edgeIDs(profileUser.ID.Hex())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users, err := h.resolveUsers(ctx, ids)
	if err != nil {
		return repositoryError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// resolveUsers turns follow edge ids into public author projections.
// Edges pointing at deleted accounts are skipped.
func (h *ProfileHandler) resolveUsers(ctx context.Context, ids []string) ([]models.AuthorInfo, error) {
	users := make([]models.AuthorInfo, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		user, err := h.userRepository.GetUserByID(ctx, objID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user.ToCompact())
	}
	return users, nil
}
