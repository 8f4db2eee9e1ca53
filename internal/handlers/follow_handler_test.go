package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/writeapp/backend/internal/models"
	"github.com/writeapp/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockFollowRepository implements repositories.FollowRepository for testing
type mockFollowRepository struct {
	isFollowing   bool
	isErr         error
	createErr     error
	deleteErr     error
	followerIDs   []string
	followedIDs   []string
	followerCount int64
	followedCount int64
	created       *models.Follow
}

func (m *mockFollowRepository) CreateFollow(follow *models.Follow) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = follow
	return nil
}

func (m *mockFollowRepository) DeleteFollow(_, _ string) error { return m.deleteErr }

func (m *mockFollowRepository) IsFollowing(_, _ string) (bool, error) {
	return m.isFollowing, m.isErr
}

func (m *mockFollowRepository) GetFollowerIDs(_ string) ([]string, error) {
	return m.followerIDs, nil
}

func (m *mockFollowRepository) GetFollowedIDs(_ string) ([]string, error) {
	return m.followedIDs, nil
}

func (m *mockFollowRepository) GetFollowerCount(_ string) (int64, error) {
	return m.followerCount, nil
}

func (m *mockFollowRepository) GetFollowedCount(_ string) (int64, error) {
	return m.followedCount, nil
}

func TestFollowUser(t *testing.T) {
	target := &models.User{ID: primitive.NewObjectID(), Username: "jane", Email: "jane@example.com"}
	visitor := primitive.NewObjectID()

	t.Run("creates the follow edge", func(t *testing.T) {
		follows := &mockFollowRepository{}
		h := NewFollowHandler(follows, newMockUserRepository(target))

		c, rec := newTestContext(http.MethodPost, "/", "", visitor)
		c.SetParamNames("username")
		c.SetParamValues("jane")

		require.NoError(t, h.FollowUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, follows.created)
		assert.Equal(t, visitor.Hex(), follows.created.FollowerID)
		assert.Equal(t, target.ID.Hex(), follows.created.FollowedID)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		h := NewFollowHandler(&mockFollowRepository{}, newMockUserRepository())

		c, _ := newTestContext(http.MethodPost, "/", "", visitor)
		c.SetParamNames("username")
		c.SetParamValues("nobody")

		he := httpError(t, h.FollowUser(c))
		assert.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("cannot follow yourself", func(t *testing.T) {
		h := NewFollowHandler(&mockFollowRepository{}, newMockUserRepository(target))

		c, _ := newTestContext(http.MethodPost, "/", "", target.ID)
		c.SetParamNames("username")
		c.SetParamValues("jane")

		he := httpError(t, h.FollowUser(c))
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("duplicate follow is 409", func(t *testing.T) {
		h := NewFollowHandler(&mockFollowRepository{isFollowing: true}, newMockUserRepository(target))

		c, _ := newTestContext(http.MethodPost, "/", "", visitor)
		c.SetParamNames("username")
		c.SetParamValues("jane")

		he := httpError(t, h.FollowUser(c))
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestUnfollowUser(t *testing.T) {
	target := &models.User{ID: primitive.NewObjectID(), Username: "jane", Email: "jane@example.com"}
	visitor := primitive.NewObjectID()

	t.Run("removes the follow edge", func(t *testing.T) {
		h := NewFollowHandler(&mockFollowRepository{}, newMockUserRepository(target))

		c, rec := newTestContext(http.MethodDelete, "/", "", visitor)
		c.SetParamNames("username")
		c.SetParamValues("jane")

		require.NoError(t, h.UnfollowUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not following is 404", func(t *testing.T) {
		h := NewFollowHandler(&mockFollowRepository{deleteErr: repositories.ErrNotFound}, newMockUserRepository(target))

		c, _ := newTestContext(http.MethodDelete, "/", "", visitor)
		c.SetParamNames("username")
		c.SetParamValues("jane")

		he := httpError(t, h.UnfollowUser(c))
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}
