package chat

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/writeapp/backend/internal/models"
	"github.com/writeapp/backend/internal/sanitize"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket chat connection for an authenticated user.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan models.ChatEvent
	username string
	avatar   string
}

type envelope struct {
	sender *Client
	event  models.ChatEvent
}

// Hub relays chat events between connected clients. Events are ephemeral:
// nothing is stored, no ordering is guaranteed, and a slow client that
// cannot keep up is dropped.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set. All registration and fan-out happens on this
// goroutine, so no locking is needed anywhere else.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case env := <-h.broadcast:
			for client := range h.clients {
				if client == env.sender {
					continue
				}
				select {
				case client.send <- env.event:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// ServeWS registers a new client on the hub, greets it and starts its
// read/write pumps.
func ServeWS(hub *Hub, conn *websocket.Conn, username, avatar string) {
	client := newClient(hub, conn, username, avatar)
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

// newClient builds a client with the welcome event already queued. The
// greeting goes into the fresh send buffer before the hub ever sees the
// client, so it is delivered ahead of any fan-out and can never race the
// hub closing the channel.
func newClient(hub *Hub, conn *websocket.Conn, username, avatar string) *Client {
	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan models.ChatEvent, 16),
		username: username,
		avatar:   avatar,
	}
	client.send <- models.ChatEvent{
		Type:     models.ChatEventWelcome,
		Username: username,
		Avatar:   avatar,
	}
	return client
}

// readPump relays inbound messages to the hub. Message text is stripped of
// all markup before it is broadcast.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var inbound struct {
			Message string `json:"message"`
		}
		if err := c.conn.ReadJSON(&inbound); err != nil {
			return
		}

		message := sanitize.Plain(inbound.Message)
		if message == "" {
			continue
		}

		c.hub.broadcast <- envelope{
			sender: c,
			event: models.ChatEvent{
				Type:     models.ChatEventMessage,
				Message:  message,
				Username: c.username,
				Avatar:   c.avatar,
			},
		}
	}
}

// writePump pushes hub events to the connection and keeps it alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
