package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/writeapp/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID, username, secret string) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func invoke(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := JWTAuthMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	t.Run("stores the parsed visitor identity", func(t *testing.T) {
		userID := primitive.NewObjectID()
		token := signToken(t, userID.Hex(), "jane", testSecret)

		c, err := invoke(t, "Bearer "+token)
		require.NoError(t, err)

		assert.Equal(t, userID, c.Get("visitorId"))
		assert.Equal(t, "jane", c.Get("username"))
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		_, err := invoke(t, "")
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		_, err := invoke(t, "Token abc")
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token := signToken(t, primitive.NewObjectID().Hex(), "jane", "other-secret")
		_, err := invoke(t, "Bearer "+token)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("rejects a token whose user id is not an ObjectID", func(t *testing.T) {
		token := signToken(t, "not-an-id", "jane", testSecret)
		_, err := invoke(t, "Bearer "+token)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}
