// Package panel drives the admin side of live support: a polled thread
// list, a paginated transcript with live append, and the service-request
// queue. One panel owns at most one open socket; selecting another thread
// closes the previous connection before dialing the next.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"SunPortal/chat"
	"SunPortal/entity"
	"SunPortal/internal/lib/sl"
	"SunPortal/internal/portal"
)

// EventKind discriminates panel notifications.
type EventKind string

const (
	EventThreads      EventKind = "threads"
	EventMessage      EventKind = "message"
	EventTyping       EventKind = "typing"
	EventDisconnected EventKind = "disconnected"
)

// Event notifies the UI layer of panel state changes.
type Event struct {
	Kind     EventKind
	ThreadID string
	Message  entity.ChatMessage
	UserID   string
	IsTyping bool
	Err      error
}

type Panel struct {
	api      *portal.Client
	factory  *chat.Factory
	log      *slog.Logger
	pageSize int
	onEvent  func(Event)

	mu         sync.Mutex
	threads    []entity.ChatThread
	current    string
	conn       *chat.Conn
	transcript []entity.ChatMessage
	offset     int
	hasMore    bool
	loading    bool
	typing     map[string]bool

	// gen tags every select so responses landing after a newer select are
	// discarded instead of overwriting newer state.
	gen uint64
}

// New creates an admin panel. onEvent may be nil.
func New(api *portal.Client, factory *chat.Factory, pageSize int, log *slog.Logger, onEvent func(Event)) *Panel {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Panel{
		api:      api,
		factory:  factory,
		log:      log.With(sl.Module("chat.panel")),
		pageSize: pageSize,
		onEvent:  onEvent,
		typing:   make(map[string]bool),
	}
}

// StartPolling refreshes the thread list on the given interval until the
// context is cancelled.
func (p *Panel) StartPolling(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.RefreshThreads(ctx); err != nil {
					p.log.With(sl.Err(err)).Debug("thread poll failed")
				}
			}
		}
	}()
}

// RefreshThreads fetches the active thread list.
func (p *Panel) RefreshThreads(ctx context.Context) error {
	threads, err := p.api.ActiveThreads(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.threads = threads
	p.mu.Unlock()

	p.emit(Event{Kind: EventThreads})
	return nil
}

// Threads returns a copy of the last polled thread list.
func (p *Panel) Threads() []entity.ChatThread {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.ChatThread, len(p.threads))
	copy(out, p.threads)
	return out
}

// Current returns the selected thread id, empty when none is open.
func (p *Panel) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// SelectThread opens a thread: the prior connection is closed first, the
// transcript and pagination reset, the first history page loads, then the
// live socket opens.
func (p *Panel) SelectThread(ctx context.Context, threadID string) error {
	p.mu.Lock()
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	p.gen++
	gen := p.gen
	p.current = threadID
	p.transcript = nil
	p.offset = 0
	p.hasMore = false
	p.loading = false
	p.typing = make(map[string]bool)
	p.mu.Unlock()

	page, err := p.api.ChatHistory(ctx, threadID, p.pageSize, 0)
	if err != nil {
		p.deselect(gen)
		return fmt.Errorf("load history for %s: %w", threadID, err)
	}

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return nil
	}
	p.transcript = page
	p.offset = p.pageSize
	p.hasMore = len(page) == p.pageSize
	p.mu.Unlock()

	conn, err := p.factory.Open(ctx, threadID, p.api.Session().Token(),
		p.frameHandler(gen, threadID),
		func(err error) {
			p.emit(Event{Kind: EventDisconnected, ThreadID: threadID, Err: err})
		})
	if err != nil {
		p.deselect(gen)
		return fmt.Errorf("open socket for %s: %w", threadID, err)
	}

	p.mu.Lock()
	if p.gen != gen {
		// A newer select won the race; this connection must not survive.
		p.mu.Unlock()
		conn.Close()
		return nil
	}
	p.conn = conn
	p.mu.Unlock()

	p.log.Info("thread selected", slog.String("thread_id", threadID))
	return nil
}

// deselect returns the panel to the "nothing open" state after a failed
// select, unless a newer select has taken over in the meantime.
func (p *Panel) deselect(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		return
	}
	p.current = ""
	p.transcript = nil
	p.offset = 0
	p.hasMore = false
}

// frameHandler routes inbound frames into the transcript, dropping frames
// from a connection that a newer select has superseded.
func (p *Panel) frameHandler(gen uint64, threadID string) chat.FrameHandler {
	return func(frame chat.Frame) {
		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			return
		}

		if frame.IsChatMessage() {
			msg := frame.Message()
			// Live messages always append at the end, regardless of how
			// much older history has been paged in.
			p.transcript = append(p.transcript, msg)
			p.mu.Unlock()
			p.emit(Event{Kind: EventMessage, ThreadID: threadID, Message: msg})
			return
		}

		if frame.Type == chat.FrameTyping {
			if frame.IsTyping {
				p.typing[frame.UserID] = true
			} else {
				delete(p.typing, frame.UserID)
			}
			p.mu.Unlock()
			p.emit(Event{
				Kind:     EventTyping,
				ThreadID: threadID,
				UserID:   frame.UserID,
				IsTyping: frame.IsTyping,
			})
			return
		}
		p.mu.Unlock()
	}
}

// LoadOlder fetches the next older page and prepends it. It returns how
// many messages were prepended — the caller's scroll anchor. Once a page
// comes back short, hasMore latches false and further calls are no-ops.
func (p *Panel) LoadOlder(ctx context.Context) (int, error) {
	p.mu.Lock()
	if !p.hasMore || p.loading || p.current == "" {
		p.mu.Unlock()
		return 0, nil
	}
	p.loading = true
	gen := p.gen
	threadID := p.current
	offset := p.offset
	p.mu.Unlock()

	page, err := p.api.ChatHistory(ctx, threadID, p.pageSize, offset)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		// Thread changed while the fetch was in flight; drop the result.
		return 0, nil
	}
	p.loading = false
	if err != nil {
		return 0, fmt.Errorf("load older for %s: %w", threadID, err)
	}

	p.transcript = append(page, p.transcript...)
	p.offset += p.pageSize
	p.hasMore = len(page) == p.pageSize
	return len(page), nil
}

// HasMore reports whether older history remains for the open thread.
func (p *Panel) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Transcript returns a copy of the visible transcript, oldest first.
func (p *Panel) Transcript() []entity.ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.ChatMessage, len(p.transcript))
	copy(out, p.transcript)
	return out
}

// TypingUsers lists users currently typing in the open thread.
func (p *Panel) TypingUsers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	users := make([]string, 0, len(p.typing))
	for id := range p.typing {
		users = append(users, id)
	}
	return users
}

// Send delivers an admin message over the open socket and echoes it into
// the transcript.
func (p *Panel) Send(text string) error {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("no thread open")
	}
	if err := conn.SendMessage(text); err != nil {
		return err
	}

	msg := entity.ChatMessage{Text: text, IsAdmin: true, CreatedAt: time.Now()}
	p.mu.Lock()
	p.transcript = append(p.transcript, msg)
	p.mu.Unlock()
	return nil
}

// Typing forwards the admin's typing state.
func (p *Panel) Typing(isTyping bool) error {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("no thread open")
	}
	return conn.SendTyping(isTyping)
}

// ArchiveThread archives a thread and, when it is the open one, closes the
// socket and clears the transcript.
func (p *Panel) ArchiveThread(ctx context.Context, threadID string) error {
	if err := p.api.ArchiveThread(ctx, threadID); err != nil {
		return err
	}

	p.mu.Lock()
	if p.current == threadID {
		if p.conn != nil {
			p.conn.Close()
			p.conn = nil
		}
		p.gen++
		p.current = ""
		p.transcript = nil
		p.offset = 0
		p.hasMore = false
		p.typing = make(map[string]bool)
	}
	p.mu.Unlock()

	return p.RefreshThreads(ctx)
}

// Close shuts the open socket down.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	p.gen++
	p.current = ""
}

func (p *Panel) emit(event Event) {
	if p.onEvent != nil {
		p.onEvent(event)
	}
}
