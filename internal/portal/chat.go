package portal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"SunPortal/entity"
)

// threadWire tolerates both snake_case and camelCase thread payloads.
type threadWire struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsOnline      bool   `json:"is_online"`
	IsOnlineCC    bool   `json:"isOnline"`
	LastMessageAt string `json:"last_message_at"`
	LastMessageCC string `json:"lastMessageAt"`
	Unread        bool   `json:"unread"`
}

func (w threadWire) normalize() entity.ChatThread {
	return entity.ChatThread{
		ID:            w.ID,
		Name:          w.Name,
		IsOnline:      w.IsOnline || w.IsOnlineCC,
		LastMessageAt: parseDate(pick(w.LastMessageAt, w.LastMessageCC)),
		Unread:        w.Unread,
	}
}

// messageWire tolerates both snake_case and camelCase message payloads.
type messageWire struct {
	Text        string `json:"text"`
	IsAdmin     bool   `json:"is_admin"`
	IsAdminCC   bool   `json:"isAdmin"`
	CreatedAt   string `json:"created_at"`
	CreatedAtCC string `json:"createdAt"`
}

func (w messageWire) normalize() entity.ChatMessage {
	return entity.ChatMessage{
		Text:      w.Text,
		IsAdmin:   w.IsAdmin || w.IsAdminCC,
		CreatedAt: parseDate(pick(w.CreatedAt, w.CreatedAtCC)),
	}
}

// ActiveThreads returns the admin thread list. The panel polls this.
func (c *Client) ActiveThreads(ctx context.Context) ([]entity.ChatThread, error) {
	var wires []threadWire
	if err := c.get(ctx, "/chat/active-threads", nil, &wires); err != nil {
		return nil, fmt.Errorf("active threads: %w", err)
	}

	threads := make([]entity.ChatThread, 0, len(wires))
	for _, w := range wires {
		threads = append(threads, w.normalize())
	}
	return threads, nil
}

// ChatHistory returns one page of a thread transcript, oldest first within
// the page, paged from the newest end by offset.
func (c *Client) ChatHistory(ctx context.Context, threadID string, limit, offset int) ([]entity.ChatMessage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var wires []messageWire
	if err := c.get(ctx, "/chat/history/"+threadID, query, &wires); err != nil {
		return nil, fmt.Errorf("chat history %s: %w", threadID, err)
	}

	messages := make([]entity.ChatMessage, 0, len(wires))
	for _, w := range wires {
		messages = append(messages, w.normalize())
	}
	return messages, nil
}

// ArchiveThread removes a thread from the active list.
func (c *Client) ArchiveThread(ctx context.Context, threadID string) error {
	if err := c.postJSON(ctx, "/chat/archive/"+threadID, nil, nil); err != nil {
		return fmt.Errorf("archive thread %s: %w", threadID, err)
	}
	return nil
}
