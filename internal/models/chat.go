package models

// ChatEvent is a message relayed over the chat websocket. Events are
// broadcast to connected users and never stored.
type ChatEvent struct {
	Type     string `json:"type"`
	Message  string `json:"message,omitempty"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Chat event types.
const (
	ChatEventWelcome = "welcome"
	ChatEventMessage = "chatMessageFromServer"
)
