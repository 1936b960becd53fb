package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"SunPortal/entity"
	"SunPortal/internal/config"
	"SunPortal/internal/lib/logger"
	"SunPortal/internal/session"
)

func ok(data any) map[string]any {
	return map[string]any{"status": "OK", "data": data}
}

func newTestClient(t *testing.T, router chi.Router) (*Client, *session.Session) {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	conf := &config.Config{}
	conf.API.BaseURL = server.URL + "/api"
	conf.API.Timeout = 5

	sess := session.New("")
	return New(conf, sess, logger.SetupLogger("local")), sess
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth atomic.Value

	router := chi.NewRouter()
	router.Get("/api/blog", func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		render.JSON(w, r, ok([]entity.BlogPost{}))
	})

	client, sess := newTestClient(t, router)
	sess.SetAuth("token-123", &entity.User{ID: "u1", Role: entity.AdminRole})

	if _, err := client.BlogPosts(context.Background()); err != nil {
		t.Fatalf("blog posts: %v", err)
	}
	if got := gotAuth.Load(); got != "Bearer token-123" {
		t.Errorf("Authorization = %q, want Bearer token-123", got)
	}
}

func TestErrorEnvelopeSurfacesMessage(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/blog", func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]any{"status": "Error", "error": "database unavailable"})
	})

	client, _ := newTestClient(t, router)
	_, err := client.BlogPosts(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if want := "database unavailable"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not carry the server message %q", err, want)
	}
}

func TestThreadNormalizationSnakeAndCamel(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/chat/active-threads", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, ok([]map[string]any{
			{
				"id": "t1", "name": "Ana",
				"is_online":       true,
				"last_message_at": "2026-03-01T10:00:00Z",
				"unread":          true,
			},
			{
				"id": "t2", "name": "Mihai",
				"isOnline":      true,
				"lastMessageAt": "2026-03-01T11:30:00Z",
			},
		}))
	})

	client, _ := newTestClient(t, router)
	threads, err := client.ActiveThreads(context.Background())
	if err != nil {
		t.Fatalf("active threads: %v", err)
	}
	if len(threads) != 2 {
		t.Fatalf("got %d threads, want 2", len(threads))
	}

	for i, thread := range threads {
		if !thread.IsOnline {
			t.Errorf("thread %d: IsOnline not normalized", i)
		}
		if thread.LastMessageAt.IsZero() {
			t.Errorf("thread %d: LastMessageAt not normalized", i)
		}
	}
	if !threads[0].Unread || threads[1].Unread {
		t.Error("unread flags mangled")
	}
}

func TestHistoryPagingParams(t *testing.T) {
	var gotLimit, gotOffset atomic.Value

	router := chi.NewRouter()
	router.Get("/api/chat/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotLimit.Store(r.URL.Query().Get("limit"))
		gotOffset.Store(r.URL.Query().Get("offset"))
		render.JSON(w, r, ok([]map[string]any{
			{"text": "salut", "is_admin": false, "created_at": "2026-03-01T09:00:00Z"},
			{"text": "buna ziua", "isAdmin": true, "createdAt": "2026-03-01T09:01:00Z"},
		}))
	})

	client, _ := newTestClient(t, router)
	messages, err := client.ChatHistory(context.Background(), "t1", 20, 40)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if gotLimit.Load() != "20" || gotOffset.Load() != "40" {
		t.Errorf("query limit=%v offset=%v, want 20/40", gotLimit.Load(), gotOffset.Load())
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].IsAdmin || !messages[1].IsAdmin {
		t.Error("is_admin not normalized across key styles")
	}
	if !messages[0].CreatedAt.Before(messages[1].CreatedAt) {
		t.Error("created_at not decoded")
	}
}

func TestRequestNormalization(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/service-requests/mine", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, ok([]map[string]any{
			{
				"id": "r1", "type": "oferta",
				"preferredDate": "2026-04-10",
				"preferredTime": "10:30",
				"status":        "rescheduled",
				"adminResponse": "propunem alta zi",
				"newProposedDate": "2026-04-12",
			},
		}))
	})

	client, _ := newTestClient(t, router)
	requests, err := client.MyRequests(context.Background())
	if err != nil {
		t.Fatalf("my requests: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(requests))
	}

	r := requests[0]
	if r.PreferredDate.Day() != 10 || r.PreferredTime != "10:30" {
		t.Errorf("camelCase date/time not normalized: %+v", r)
	}
	if r.AdminResponse != "propunem alta zi" {
		t.Errorf("adminResponse not normalized: %q", r.AdminResponse)
	}
	if r.NewProposedDate.Day() != 12 {
		t.Errorf("newProposedDate not normalized: %v", r.NewProposedDate)
	}
}

func TestRescheduleRequiresProposedDate(t *testing.T) {
	var calls atomic.Int32

	router := chi.NewRouter()
	router.Patch("/api/service-requests/{id}/respond", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		render.JSON(w, r, ok(nil))
	})

	client, _ := newTestClient(t, router)

	err := client.RespondToRequest(context.Background(), "r1", entity.StatusRescheduled, "", time.Time{})
	if err == nil {
		t.Fatal("reschedule without a date must fail client-side")
	}
	if calls.Load() != 0 {
		t.Error("no network call may happen for an invalid reschedule")
	}

	date := time.Date(2026, time.April, 12, 0, 0, 0, 0, time.UTC)
	if err := client.RespondToRequest(context.Background(), "r1", entity.StatusRescheduled, "alta zi", date); err != nil {
		t.Fatalf("valid reschedule: %v", err)
	}
	if calls.Load() != 1 {
		t.Error("valid reschedule should reach the backend")
	}
}

func TestCreateServiceRequestMultipart(t *testing.T) {
	type received struct {
		serviceType string
		date        string
		photoCount  int
	}
	got := make(chan received, 1)

	router := chi.NewRouter()
	router.Post("/api/service-requests", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		got <- received{
			serviceType: r.FormValue("type"),
			date:        r.FormValue("preferred_date"),
			photoCount:  len(r.MultipartForm.File["photos"]),
		}
		render.JSON(w, r, ok(map[string]any{"id": "r9", "type": "oferta", "status": "pending"}))
	})

	client, _ := newTestClient(t, router)

	created, err := client.CreateServiceRequest(context.Background(), ServiceRequestDraft{
		Type:          entity.ServiceOferta,
		PreferredDate: time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC),
		PreferredTime: "10:30",
		Location:      "Cluj-Napoca",
		Phone:         "+40700000000",
		Photos: []entity.Photo{
			{Name: "acoperis.jpg", Data: []byte("jpeg-1")},
			{Name: "tablou.jpg", Data: []byte("jpeg-2")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "r9" || created.Status != entity.StatusPending {
		t.Errorf("created = %+v", created)
	}

	r := <-got
	if r.serviceType != "oferta" || r.date != "2026-04-10" {
		t.Errorf("fields = %+v", r)
	}
	if r.photoCount != 2 {
		t.Errorf("got %d photos, want 2", r.photoCount)
	}
}
