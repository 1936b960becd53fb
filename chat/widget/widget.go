// Package widget is the customer-facing chat surface: a menu, a local
// pattern-matching bot, and a live-support mode that owns a single socket
// connection to the visitor's thread.
package widget

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"SunPortal/chat"
	"SunPortal/entity"
	"SunPortal/internal/lib/sl"
	"SunPortal/internal/session"
)

// Mode is the widget's visible surface.
type Mode string

const (
	ModeMenu Mode = "menu"
	ModeBot  Mode = "bot"
	ModeLive Mode = "live"
)

// Event notifies the embedding UI of new transcript entries and state.
type Event struct {
	Mode        Mode
	Message     *entity.ChatMessage
	AgentTyping bool
	Err         error
}

type Widget struct {
	factory *chat.Factory
	session *session.Session
	bot     *Bot
	log     *slog.Logger
	onEvent func(Event)

	mu         sync.Mutex
	mode       Mode
	threadID   string
	conn       *chat.Conn
	transcript []entity.ChatMessage
	hasInput   bool

	// gen tags every mode change so a live connection still being dialed
	// when the mode changes again is discarded instead of leaking.
	gen uint64
}

// New creates a widget in menu mode. The visitor's thread id is minted
// once and reused across live sessions so history stays in one thread.
func New(factory *chat.Factory, sess *session.Session, log *slog.Logger, onEvent func(Event)) *Widget {
	return &Widget{
		factory:  factory,
		session:  sess,
		bot:      NewBot(),
		log:      log.With(sl.Module("chat.widget")),
		onEvent:  onEvent,
		mode:     ModeMenu,
		threadID: uuid.NewString(),
	}
}

// Mode returns the current widget mode.
func (w *Widget) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// ThreadID returns the visitor's live-support thread id.
func (w *Widget) ThreadID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.threadID
}

// Transcript returns a copy of the widget conversation, oldest first.
func (w *Widget) Transcript() []entity.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]entity.ChatMessage, len(w.transcript))
	copy(out, w.transcript)
	return out
}

// ChooseBot switches to bot mode, closing a live connection if one exists.
func (w *Widget) ChooseBot() {
	w.mu.Lock()
	w.closeConnLocked()
	w.mode = ModeBot
	w.mu.Unlock()
	w.emit(Event{Mode: ModeBot})
}

// ChooseLive switches to live support, opening the visitor's thread
// connection. The server creates the thread on first connect.
func (w *Widget) ChooseLive(ctx context.Context) error {
	w.mu.Lock()
	w.closeConnLocked()
	gen := w.gen
	threadID := w.threadID
	w.mu.Unlock()

	conn, err := w.factory.Open(ctx, threadID, w.session.Token(),
		w.handleFrame,
		func(err error) {
			w.log.With(sl.Err(err)).Error("live support connection lost")
			w.emit(Event{Mode: ModeLive, Err: err})
		})
	if err != nil {
		return fmt.Errorf("start live support: %w", err)
	}

	w.mu.Lock()
	if w.gen != gen {
		// A newer mode change won the race; this connection must not survive.
		w.mu.Unlock()
		conn.Close()
		return nil
	}
	w.conn = conn
	w.mode = ModeLive
	w.mu.Unlock()

	w.emit(Event{Mode: ModeLive})
	return nil
}

// BackToMenu returns to the menu, closing any live connection.
func (w *Widget) BackToMenu() {
	w.mu.Lock()
	w.closeConnLocked()
	w.mode = ModeMenu
	w.mu.Unlock()
	w.emit(Event{Mode: ModeMenu})
}

// Send handles a visitor message in the current mode. Bot mode answers
// locally; live mode delegates to the socket.
func (w *Widget) Send(text string) error {
	w.mu.Lock()
	mode := w.mode
	conn := w.conn
	w.mu.Unlock()

	switch mode {
	case ModeBot:
		w.append(entity.ChatMessage{Text: text, CreatedAt: time.Now()})
		reply, _ := w.bot.Reply(text)
		msg := entity.ChatMessage{Text: reply, IsAdmin: true, CreatedAt: time.Now()}
		w.append(msg)
		w.emit(Event{Mode: ModeBot, Message: &msg})
		return nil

	case ModeLive:
		if conn == nil {
			return fmt.Errorf("live support not connected")
		}
		if err := conn.SendMessage(text); err != nil {
			return err
		}
		w.append(entity.ChatMessage{Text: text, CreatedAt: time.Now()})
		return nil
	}

	return fmt.Errorf("no conversation mode selected")
}

// InputChanged reports the current input box content. In live mode a
// typing frame goes out on every empty/non-empty transition, undebounced.
func (w *Widget) InputChanged(text string) {
	w.mu.Lock()
	conn := w.conn
	mode := w.mode
	nonEmpty := text != ""
	changed := nonEmpty != w.hasInput
	w.hasInput = nonEmpty
	w.mu.Unlock()

	if mode != ModeLive || conn == nil || !changed {
		return
	}
	if err := conn.SendTyping(nonEmpty); err != nil {
		w.log.With(sl.Err(err)).Debug("send typing state")
	}
}

// Close shuts the widget down, closing any live connection.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeConnLocked()
	w.mode = ModeMenu
}

func (w *Widget) handleFrame(frame chat.Frame) {
	if frame.IsChatMessage() {
		msg := frame.Message()
		w.append(msg)
		w.emit(Event{Mode: ModeLive, Message: &msg})
		return
	}
	if frame.Type == chat.FrameTyping {
		w.emit(Event{Mode: ModeLive, AgentTyping: frame.IsTyping})
	}
}

func (w *Widget) append(msg entity.ChatMessage) {
	w.mu.Lock()
	w.transcript = append(w.transcript, msg)
	w.mu.Unlock()
}

func (w *Widget) closeConnLocked() {
	w.gen++
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.hasInput = false
}

func (w *Widget) emit(event Event) {
	if w.onEvent != nil {
		w.onEvent(event)
	}
}
