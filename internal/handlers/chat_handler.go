package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/writeapp/backend/internal/chat"
	"github.com/writeapp/backend/internal/repositories"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatHandler upgrades authenticated requests to chat websocket sessions
type ChatHandler struct {
	hub            *chat.Hub
	userRepository repositories.UserRepository
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(hub *chat.Hub, userRepo repositories.UserRepository) *ChatHandler {
	return &ChatHandler{hub: hub, userRepository: userRepo}
}

// RegisterChatRoutes registers the websocket endpoint
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chat", h.Connect)
}

// Connect upgrades the request and attaches the connection to the hub
func (h *ChatHandler) Connect(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), visitorID(c))
	if err != nil {
		return repositoryError(err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not open websocket connection")
	}

	chat.ServeWS(h.hub, conn, user.Username, user.Avatar())
	return nil
}
