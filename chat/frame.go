// Package chat implements the socket transport for support threads: one
// bidirectional connection per thread carrying chat messages and typing
// indicator control frames.
package chat

import (
	"time"

	"SunPortal/entity"
)

// Frame kinds. Inbound frames without a type are chat messages.
const (
	FrameMessage = "message"
	FrameTyping  = "typing"
)

// Frame is one discrete unit exchanged over the chat socket. The receiver
// discriminates on Type: absence of a type implies a chat message.
type Frame struct {
	Type      string    `json:"type,omitempty"`
	Text      string    `json:"text,omitempty"`
	IsAdmin   bool      `json:"is_admin,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	IsTyping  bool      `json:"is_typing,omitempty"`
}

// IsChatMessage reports whether the frame carries a chat message rather
// than a control frame.
func (f Frame) IsChatMessage() bool {
	return f.Type == "" || f.Type == FrameMessage
}

// Message converts a chat frame into the transcript representation.
func (f Frame) Message() entity.ChatMessage {
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return entity.ChatMessage{
		Text:      f.Text,
		IsAdmin:   f.IsAdmin,
		CreatedAt: createdAt,
	}
}

// FrameHandler receives every inbound frame of a connection, in arrival
// order, on the connection's read goroutine.
type FrameHandler func(Frame)
