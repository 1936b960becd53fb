package entity

import (
	"time"
)

// ChatThread identifies a single customer's live-support conversation.
// Threads are created server-side when a customer starts live support and
// disappear from the active list once an admin archives them.
type ChatThread struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	IsOnline      bool      `json:"is_online"`
	LastMessageAt time.Time `json:"last_message_at"`
	Unread        bool      `json:"unread"`
}
