package entity

import (
	"time"
)

// ChatMessage is a single persisted message in a support thread.
// The transcript is ordered oldest first by CreatedAt.
type ChatMessage struct {
	Text      string    `json:"text"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
