package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/writeapp/backend/internal/models"
)

func newTestClient(hub *Hub, username string) *Client {
	return &Client{
		hub:      hub,
		send:     make(chan models.ChatEvent, 16),
		username: username,
	}
}

func receive(t *testing.T, c *Client) models.ChatEvent {
	t.Helper()
	select {
	case ev := <-c.send:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.ChatEvent{}
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	carol := newTestClient(hub, "carol")
	hub.register <- alice
	hub.register <- bob
	hub.register <- carol

	event := models.ChatEvent{Type: models.ChatEventMessage, Message: "hi all", Username: "alice"}
	hub.broadcast <- envelope{sender: alice, event: event}

	t.Run("other clients receive the event", func(t *testing.T) {
		assert.Equal(t, event, receive(t, bob))
		assert.Equal(t, event, receive(t, carol))
	})

	t.Run("the sender does not receive its own event", func(t *testing.T) {
		select {
		case ev := <-alice.send:
			t.Fatalf("sender received its own event: %+v", ev)
		default:
		}
	})
}

func TestWelcomeQueuedBeforeRegistration(t *testing.T) {
	t.Run("the greeting sits in the buffer before the hub sees the client", func(t *testing.T) {
		carol := newClient(NewHub(), nil, "carol", "https://gravatar.com/avatar/carol")
		require.Len(t, carol.send, 1)

		welcome := receive(t, carol)
		assert.Equal(t, models.ChatEventWelcome, welcome.Type)
		assert.Equal(t, "carol", welcome.Username)
		assert.Equal(t, "https://gravatar.com/avatar/carol", welcome.Avatar)
	})

	t.Run("the greeting precedes anything fanned out after registration", func(t *testing.T) {
		hub := NewHub()
		go hub.Run()

		alice := newTestClient(hub, "alice")
		hub.register <- alice

		bob := newClient(hub, nil, "bob", "")
		hub.register <- bob
		hub.broadcast <- envelope{sender: alice, event: models.ChatEvent{Type: models.ChatEventMessage, Message: "hi bob", Username: "alice"}}

		assert.Equal(t, models.ChatEventWelcome, receive(t, bob).Type)
		assert.Equal(t, "hi bob", receive(t, bob).Message)
	})
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	hub.register <- alice
	hub.register <- bob

	hub.unregister <- bob
	// bob's send channel is closed once the hub drops him
	_, open := <-bob.send
	require.False(t, open)

	hub.broadcast <- envelope{sender: alice, event: models.ChatEvent{Type: models.ChatEventMessage, Message: "still here"}}

	// alice is the sender, nobody else is connected; a second broadcast from
	// an unregistered pseudo-client proves the hub kept running
	hub.broadcast <- envelope{event: models.ChatEvent{Type: models.ChatEventMessage, Message: "ping", Username: "system"}}
	ev := receive(t, alice)
	assert.Equal(t, "ping", ev.Message)
}
