package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"SunPortal/chat"
	"SunPortal/internal/config"
	"SunPortal/internal/lib/logger"
	"SunPortal/internal/session"
)

// liveServer fakes the chat socket endpoint and records inbound frames.
type liveServer struct {
	t      *testing.T
	server *httptest.Server

	connects    chan string
	disconnects chan string
	received    chan chat.Frame

	mu       sync.Mutex
	upgrader websocket.Upgrader
	conn     *websocket.Conn
}

func newLiveServer(t *testing.T) *liveServer {
	t.Helper()
	s := &liveServer{
		t:           t,
		connects:    make(chan string, 8),
		disconnects: make(chan string, 8),
		received:    make(chan chat.Frame, 32),
	}

	router := chi.NewRouter()
	router.Get("/ws/chat/{id}", func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		s.connects <- chi.URLParam(r, "id")

		go func() {
			for {
				var frame chat.Frame
				if err := conn.ReadJSON(&frame); err != nil {
					s.disconnects <- ""
					return
				}
				s.received <- frame
			}
		}()
	})

	s.server = httptest.NewServer(router)
	t.Cleanup(s.server.Close)
	return s
}

func (s *liveServer) push(frame chat.Frame) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		s.t.Error("push with no connection")
		return
	}
	if err := conn.WriteJSON(frame); err != nil {
		s.t.Errorf("push: %v", err)
	}
}

func newTestWidget(t *testing.T, s *liveServer) (*Widget, chan Event) {
	t.Helper()

	conf := &config.Config{}
	conf.API.WSURL = "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conf.Chat.ReconnectAttempts = 1
	conf.Chat.ReconnectDelayMs = 10

	log := logger.SetupLogger("local")
	events := make(chan Event, 64)
	w := New(chat.NewFactory(conf, log), session.New(""), log, func(e Event) { events <- e })
	t.Cleanup(w.Close)
	return w, events
}

func wait[T any](t *testing.T, ch chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		var zero T
		return zero
	}
}

func TestBotAnswersKnownTopics(t *testing.T) {
	bot := NewBot()

	cases := []struct {
		text string
		want string // substring of the expected answer
	}{
		{"Cat costa o instalatie?", "estimare"},
		{"cate panouri imi trebuie pentru 5 kw", "fotovoltaice"},
		{"aveti finantare prin casa verde?", "Casa Verde"},
		{"ce garantie au panourile", "25 de ani"},
		{"care e programul vostru", "luni–vineri"},
	}
	for _, tc := range cases {
		reply, matched := bot.Reply(tc.text)
		if !matched {
			t.Errorf("Reply(%q) fell back", tc.text)
			continue
		}
		if !strings.Contains(reply, tc.want) {
			t.Errorf("Reply(%q) = %q, want substring %q", tc.text, reply, tc.want)
		}
	}
}

func TestBotFallsBack(t *testing.T) {
	bot := NewBot()
	for _, text := range []string{"", "   ", "vreau sa vorbesc despre drone"} {
		if _, matched := bot.Reply(text); matched {
			t.Errorf("Reply(%q) matched, want fallback", text)
		}
	}
}

func TestBotModeIsFullyLocal(t *testing.T) {
	s := newLiveServer(t)
	w, events := newTestWidget(t, s)

	w.ChooseBot()
	wait(t, events, "mode event")

	if err := w.Send("cat costa?"); err != nil {
		t.Fatalf("send: %v", err)
	}
	e := wait(t, events, "bot reply")
	if e.Message == nil || !e.Message.IsAdmin {
		t.Fatalf("bot reply event = %+v", e)
	}

	transcript := w.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("got %d transcript entries, want question + answer", len(transcript))
	}
	if transcript[0].IsAdmin || !transcript[1].IsAdmin {
		t.Error("transcript must be visitor question then bot answer")
	}

	select {
	case <-s.connects:
		t.Error("bot mode must not open a socket")
	default:
	}
}

func TestLiveModeUsesOneThread(t *testing.T) {
	s := newLiveServer(t)
	w, events := newTestWidget(t, s)
	ctx := context.Background()

	if err := w.ChooseLive(ctx); err != nil {
		t.Fatalf("choose live: %v", err)
	}
	first := wait(t, s.connects, "first connect")
	if first != w.ThreadID() {
		t.Errorf("connected thread %q, want %q", first, w.ThreadID())
	}
	wait(t, events, "mode event")

	if err := w.Send("buna, am nevoie de ajutor"); err != nil {
		t.Fatalf("send: %v", err)
	}
	frame := wait(t, s.received, "message frame")
	if frame.Type != chat.FrameMessage || frame.Text != "buna, am nevoie de ajutor" {
		t.Errorf("frame = %+v", frame)
	}

	// Back to menu closes the socket; a later live session reuses the thread.
	w.BackToMenu()
	wait(t, s.disconnects, "disconnect")

	if err := w.ChooseLive(ctx); err != nil {
		t.Fatalf("re-choose live: %v", err)
	}
	if second := wait(t, s.connects, "second connect"); second != first {
		t.Errorf("second session thread %q, want %q", second, first)
	}
}

func TestAgentMessagesAppend(t *testing.T) {
	s := newLiveServer(t)
	w, events := newTestWidget(t, s)

	if err := w.ChooseLive(context.Background()); err != nil {
		t.Fatalf("choose live: %v", err)
	}
	wait(t, s.connects, "connect")
	wait(t, events, "mode event")

	s.push(chat.Frame{Text: "cu ce va putem ajuta?", IsAdmin: true, CreatedAt: time.Now()})
	e := wait(t, events, "agent message")
	if e.Message == nil || e.Message.Text != "cu ce va putem ajuta?" || !e.Message.IsAdmin {
		t.Fatalf("event = %+v", e)
	}

	s.push(chat.Frame{Type: chat.FrameTyping, IsTyping: true})
	e = wait(t, events, "agent typing")
	if !e.AgentTyping {
		t.Errorf("event = %+v", e)
	}
}

func TestTypingSentOnEmptyTransitionsOnly(t *testing.T) {
	s := newLiveServer(t)
	w, _ := newTestWidget(t, s)

	if err := w.ChooseLive(context.Background()); err != nil {
		t.Fatalf("choose live: %v", err)
	}
	wait(t, s.connects, "connect")

	w.InputChanged("b")
	w.InputChanged("bu")  // still non-empty, no frame
	w.InputChanged("bun") // still non-empty, no frame
	w.InputChanged("")

	frame := wait(t, s.received, "typing on")
	if frame.Type != chat.FrameTyping || !frame.IsTyping {
		t.Errorf("first frame = %+v", frame)
	}
	frame = wait(t, s.received, "typing off")
	if frame.Type != chat.FrameTyping || frame.IsTyping {
		t.Errorf("second frame = %+v", frame)
	}

	select {
	case extra := <-s.received:
		t.Errorf("unexpected extra frame %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOverlappingLiveChoicesKeepOneSocket(t *testing.T) {
	s := newLiveServer(t)
	w, _ := newTestWidget(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.ChooseLive(context.Background()); err != nil {
				t.Errorf("choose live: %v", err)
			}
		}()
	}
	wg.Wait()

	// Both calls dial, but exactly one connection may survive.
	wait(t, s.connects, "first connect")
	wait(t, s.connects, "second connect")
	wait(t, s.disconnects, "superseded disconnect")

	if w.Mode() != ModeLive {
		t.Errorf("mode = %s, want live", w.Mode())
	}
	if err := w.Send("inca sunt aici"); err != nil {
		t.Fatalf("send over the surviving socket: %v", err)
	}
	frame := wait(t, s.received, "message frame")
	if frame.Text != "inca sunt aici" {
		t.Errorf("frame = %+v", frame)
	}
}

func TestSendRequiresAMode(t *testing.T) {
	s := newLiveServer(t)
	w, _ := newTestWidget(t, s)

	if err := w.Send("inainte de a alege"); err == nil {
		t.Error("menu-mode send must fail")
	}
}
