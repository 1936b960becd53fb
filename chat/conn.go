package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SunPortal/internal/config"
	"SunPortal/internal/lib/sl"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 64
)

// Factory opens chat connections. Each Open call yields exactly one channel
// scoped to a single thread; callers switching threads must Close the prior
// connection before opening the next.
type Factory struct {
	wsURL    string
	dialer   *websocket.Dialer
	log      *slog.Logger
	attempts int
	delay    time.Duration
}

func NewFactory(conf *config.Config, log *slog.Logger) *Factory {
	return &Factory{
		wsURL:    strings.TrimRight(conf.API.WSURL, "/"),
		dialer:   websocket.DefaultDialer,
		log:      log.With(sl.Module("chat.factory")),
		attempts: conf.Chat.ReconnectAttempts,
		delay:    conf.ReconnectDelay(),
	}
}

// Conn is a live channel to one support thread.
type Conn struct {
	threadID string
	factory  *Factory
	token    string
	onFrame  FrameHandler
	onDown   func(error)
	log      *slog.Logger

	mu   sync.Mutex // guards ws across redials
	ws   *websocket.Conn
	send chan Frame
	done chan struct{}
	once sync.Once
}

// Open dials the chat endpoint for the given thread. Inbound frames are
// dispatched to onFrame on the connection's read goroutine. When the
// connection drops, the factory redials with capped retries; once they are
// exhausted onDown fires and the connection is dead — the caller re-opens
// by calling Open again. onDown may be nil.
func (f *Factory) Open(ctx context.Context, threadID, token string, onFrame FrameHandler, onDown func(error)) (*Conn, error) {
	ws, err := f.dial(ctx, threadID, token)
	if err != nil {
		return nil, fmt.Errorf("open chat connection: %w", err)
	}

	c := &Conn{
		threadID: threadID,
		factory:  f,
		token:    token,
		onFrame:  onFrame,
		onDown:   onDown,
		log:      f.log.With(slog.String("thread_id", threadID)),
		ws:       ws,
		send:     make(chan Frame, sendBufSize),
		done:     make(chan struct{}),
	}

	go c.run()

	c.log.Debug("chat connection opened")
	return c, nil
}

func (f *Factory) dial(ctx context.Context, threadID, token string) (*websocket.Conn, error) {
	url := fmt.Sprintf("%s/chat/%s?token=%s", f.wsURL, threadID, token)
	ws, _, err := f.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// SendMessage sends a chat message frame.
func (c *Conn) SendMessage(text string) error {
	return c.enqueue(Frame{Type: FrameMessage, Text: text})
}

// SendTyping sends a typing indicator frame. Callers send one on every
// empty/non-empty input transition, undebounced.
func (c *Conn) SendTyping(isTyping bool) error {
	return c.enqueue(Frame{Type: FrameTyping, IsTyping: isTyping})
}

func (c *Conn) enqueue(frame Frame) error {
	select {
	case <-c.done:
		return fmt.Errorf("chat connection closed")
	case c.send <- frame:
		return nil
	default:
		return fmt.Errorf("chat send buffer full")
	}
}

// Close tears the connection down, closing whichever socket is current at
// that moment. Safe to call multiple times, from any goroutine, including
// mid-reconnect.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.socket().Close()
	})
}

func (c *Conn) socket() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws
}

func (c *Conn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// run owns the connection lifecycle: it pumps the current socket until it
// fails, then redials with doubling delays up to the configured cap.
func (c *Conn) run() {
	for {
		err := c.pump()
		if c.closed() {
			return
		}
		c.log.With(sl.Err(err)).Debug("chat connection dropped")

		if err := c.redial(); err != nil {
			if c.closed() {
				// Deliberate Close during the reconnect window; not a loss.
				return
			}
			c.log.With(sl.Err(err)).Error("chat reconnect gave up")
			c.Close()
			if c.onDown != nil {
				c.onDown(err)
			}
			return
		}
	}
}

// pump runs the read and write sides of the current socket and returns the
// first error of either.
func (c *Conn) pump() error {
	ws := c.socket()
	stop := make(chan struct{})
	defer close(stop)

	writeErr := make(chan error, 1)
	go func() { writeErr <- c.writePump(ws, stop) }()

	readErr := c.readPump(ws)
	ws.Close()

	select {
	case err := <-writeErr:
		if readErr != nil {
			return readErr
		}
		return err
	default:
		return readErr
	}
}

func (c *Conn) readPump(ws *websocket.Conn) error {
	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return err
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.With(sl.Err(err)).Warn("malformed chat frame")
			continue
		}
		c.onFrame(frame)
	}
}

func (c *Conn) writePump(ws *websocket.Conn, stop chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case <-stop:
			return nil
		case frame := <-c.send:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(frame); err != nil {
				return err
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// redial re-establishes the socket, doubling the wait between attempts.
func (c *Conn) redial() error {
	delay := c.factory.delay
	var lastErr error

	for attempt := 1; attempt <= c.factory.attempts; attempt++ {
		select {
		case <-c.done:
			return fmt.Errorf("connection closed during reconnect")
		case <-time.After(delay):
		}
		delay *= 2

		ws, err := c.factory.dial(context.Background(), c.threadID, c.token)
		if err != nil {
			lastErr = err
			c.log.With(sl.Err(err)).Debug("chat reconnect attempt failed",
				slog.Int("attempt", attempt))
			continue
		}

		// Install under the lock so a concurrent Close either sees this
		// socket or we see the close and discard it.
		c.mu.Lock()
		select {
		case <-c.done:
			c.mu.Unlock()
			ws.Close()
			return fmt.Errorf("connection closed during reconnect")
		default:
		}
		c.ws = ws
		c.mu.Unlock()

		c.log.Info("chat connection re-established", slog.Int("attempt", attempt))
		return nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no reconnect attempts configured")
	}
	return fmt.Errorf("reconnect failed after %d attempts: %w", c.factory.attempts, lastErr)
}
