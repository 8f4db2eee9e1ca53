package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/writeapp/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// visitorID returns the authenticated user's id stored by the JWT
// middleware, or the nil ObjectID when the request is unauthenticated.
func visitorID(c echo.Context) primitive.ObjectID {
	if id, ok := c.Get("visitorId").(primitive.ObjectID); ok {
		return id
	}
	return primitive.NilObjectID
}

// repositoryError maps the repository error taxonomy onto HTTP errors.
// Validation failures carry the full message list so clients can show
// every violation at once.
func repositoryError(err error) error {
	var vErr *repositories.ValidationError
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, vErr.Messages)
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, repositories.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform that action")
	case errors.Is(err, repositories.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
