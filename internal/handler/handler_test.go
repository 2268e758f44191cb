package handler

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/senjalabs/senja-web/internal/api"
	"github.com/senjalabs/senja-web/internal/logging"
	"github.com/senjalabs/senja-web/internal/middleware"
	"github.com/senjalabs/senja-web/internal/query"
	"github.com/senjalabs/senja-web/internal/render"
	"github.com/senjalabs/senja-web/internal/session"
	"github.com/senjalabs/senja-web/web"
)

// fakeAPI is an in-memory stand-in for the events API.
type fakeAPI struct {
	mu       sync.Mutex
	bookings []map[string]any
	expired  bool // when true, every authenticated call answers 401
	listHits int
}

func (f *fakeAPI) event() map[string]any {
	return map[string]any{
		"_id":            "e1",
		"title":          "Festival Senja",
		"description":    "Musik dan kuliner di tepi pantai.",
		"date":           time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"availableSeats": 5,
	}
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.listHits++
		f.mu.Unlock()
		writeJSON(w, map[string]any{
			"events": []map[string]any{f.event()},
			"pagination": map[string]any{
				"currentPage": 1, "totalPages": 1, "totalEvents": 1,
				"hasNextPage": false, "hasPrevPage": false,
			},
		})
	})
	mux.HandleFunc("GET /events/e1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.event())
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"token": "tok123",
			"user":  map[string]any{"id": "u1", "name": "Tari", "email": "tari@senja.id"},
		})
	})

	requireAuth := func(w http.ResponseWriter, r *http.Request) bool {
		f.mu.Lock()
		expired := f.expired
		f.mu.Unlock()
		if expired || r.Header.Get("Authorization") != "Bearer tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":""}`))
			return false
		}
		return true
	}

	mux.HandleFunc("GET /bookings", func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.bookings == nil {
			writeJSON(w, []any{})
			return
		}
		writeJSON(w, f.bookings)
	})
	mux.HandleFunc("POST /bookings", func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		var in struct {
			EventID string `json:"eventId"`
			Seats   int    `json:"seats"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("bad booking payload: %v", err)
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		booking := map[string]any{
			"_id":         "b1",
			"eventId":     f.event(),
			"userId":      "u1",
			"seats":       in.Seats,
			"bookingDate": time.Now().Format(time.RFC3339),
		}
		f.bookings = append(f.bookings, booking)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, booking)
	})
	mux.HandleFunc("DELETE /bookings/b1", func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.bookings = nil
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newTestApp wires the full HTML router against the fake API, minus
// CSRF (covered separately) so the test client can POST directly.
func newTestApp(t *testing.T, fake *fakeAPI) (*httptest.Server, *http.Client) {
	t.Helper()

	apiSrv := httptest.NewServer(fake.handler(t))
	t.Cleanup(apiSrv.Close)

	sm := scs.New()
	queries := query.NewManager(query.NewMemoryStore(query.MemoryStoreOptions{}))
	t.Cleanup(func() { _ = queries.Close() })

	apiClient := api.New(apiSrv.URL, func(ctx context.Context) string {
		return session.Token(ctx, sm)
	})

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatal(err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: sm})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	recent := logging.NewRecentHandler(slog.NewTextHandler(io.Discard, nil), slog.LevelWarn, 16)
	h := New(apiClient, queries, renderer, sm, recent)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.Language(sm))
	r.Use(middleware.LoadUser(sm))

	r.Get("/", h.ListEvents)
	r.Get("/events/{id}", h.ShowEvent)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(sm))
		r.Post("/events/{id}/book", h.BookEvent)
		r.Get("/bookings", h.ListBookings)
		r.Post("/bookings/{id}/cancel", h.StartCancel)
		r.Post("/bookings/{id}/cancel/confirm", h.ConfirmCancel)
		r.Post("/bookings/{id}/cancel/dismiss", h.DismissCancel)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, client *http.Client, target string, values url.Values) (int, string) {
	t.Helper()
	resp, err := client.PostForm(target, values)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func signIn(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()
	status, _ := postForm(t, client, baseURL+"/login", url.Values{
		"email":    {"tari@senja.id"},
		"password": {"rahasia1"},
	})
	if status != http.StatusOK {
		t.Fatalf("login flow ended with status %d", status)
	}
}

func TestEventListPage(t *testing.T) {
	srv, client := newTestApp(t, &fakeAPI{})

	status, body := get(t, client, srv.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Festival Senja") {
		t.Error("event list missing event title")
	}
}

func TestEventListIsCached(t *testing.T) {
	fake := &fakeAPI{}
	srv, client := newTestApp(t, fake)

	for i := 0; i < 3; i++ {
		if status, _ := get(t, client, srv.URL+"/"); status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
	}

	fake.mu.Lock()
	hits := fake.listHits
	fake.mu.Unlock()
	if hits != 1 {
		t.Errorf("API list hits = %d, want 1 (cached)", hits)
	}
}

func TestBookEventFlow(t *testing.T) {
	fake := &fakeAPI{}
	srv, client := newTestApp(t, fake)
	signIn(t, client, srv.URL)

	// Detail page shows the booking form for signed-in visitors
	status, body := get(t, client, srv.URL+"/events/e1")
	if status != http.StatusOK {
		t.Fatalf("detail status = %d", status)
	}
	if !strings.Contains(body, `action="/events/e1/book"`) {
		t.Fatal("detail page missing booking form")
	}

	status, body = postForm(t, client, srv.URL+"/events/e1/book", url.Values{"seats": {"2"}})
	if status != http.StatusOK {
		t.Fatalf("book status = %d", status)
	}
	// Confirmation page auto-navigates to the bookings list after 2s
	if !strings.Contains(body, `content="2;url=/bookings"`) {
		t.Error("confirmation page missing meta refresh to /bookings")
	}

	fake.mu.Lock()
	created := len(fake.bookings)
	fake.mu.Unlock()
	if created != 1 {
		t.Fatalf("bookings created = %d, want 1", created)
	}

	// The new booking shows up on the bookings page
	_, body = get(t, client, srv.URL+"/bookings")
	if !strings.Contains(body, "Festival Senja") {
		t.Error("bookings page missing booked event")
	}
}

func TestBookEventSeatGuard(t *testing.T) {
	fake := &fakeAPI{}
	srv, client := newTestApp(t, fake)
	signIn(t, client, srv.URL)

	for _, seats := range []string{"0", "-1", "6", "abc"} {
		status, body := postForm(t, client, srv.URL+"/events/e1/book", url.Values{"seats": {seats}})
		if status != http.StatusOK {
			t.Fatalf("seats=%s: status = %d", seats, status)
		}
		if !strings.Contains(body, `class="field-error"`) {
			t.Errorf("seats=%s: expected field error on re-rendered detail page", seats)
		}
	}

	fake.mu.Lock()
	created := len(fake.bookings)
	fake.mu.Unlock()
	if created != 0 {
		t.Errorf("invalid seat counts reached the API, %d bookings created", created)
	}
}

func TestBookingInvalidatesEventCache(t *testing.T) {
	fake := &fakeAPI{}
	srv, client := newTestApp(t, fake)

	// Warm the events cache
	get(t, client, srv.URL+"/")

	signIn(t, client, srv.URL)
	postForm(t, client, srv.URL+"/events/e1/book", url.Values{"seats": {"1"}})

	fake.mu.Lock()
	before := fake.listHits
	fake.mu.Unlock()

	// The booking dropped both cached families, so the next list view
	// must go back to the API for fresh seat counts.
	get(t, client, srv.URL+"/")

	fake.mu.Lock()
	after := fake.listHits
	fake.mu.Unlock()
	if after != before+1 {
		t.Errorf("list hits after booking = %d, want %d (cache invalidated)", after, before+1)
	}
}

func TestCancelFlow(t *testing.T) {
	fake := &fakeAPI{}
	srv, client := newTestApp(t, fake)
	signIn(t, client, srv.URL)
	postForm(t, client, srv.URL+"/events/e1/book", url.Values{"seats": {"2"}})

	// Step 1: the cancel button arms a confirmation page
	status, body := postForm(t, client, srv.URL+"/bookings/b1/cancel", nil)
	if status != http.StatusOK {
		t.Fatalf("start cancel status = %d", status)
	}
	if !strings.Contains(body, `action="/bookings/b1/cancel/confirm"`) {
		t.Fatal("confirmation page missing confirm form")
	}
	if !strings.Contains(body, "Festival Senja") {
		t.Error("confirmation page missing event title")
	}

	// Step 2: dismissing keeps the booking
	postForm(t, client, srv.URL+"/bookings/b1/cancel/dismiss", nil)
	fake.mu.Lock()
	kept := len(fake.bookings)
	fake.mu.Unlock()
	if kept != 1 {
		t.Fatalf("dismiss cancelled the booking, %d left", kept)
	}

	// A dismissed flow cannot be confirmed afterwards
	postForm(t, client, srv.URL+"/bookings/b1/cancel/confirm", nil)
	fake.mu.Lock()
	kept = len(fake.bookings)
	fake.mu.Unlock()
	if kept != 1 {
		t.Fatalf("confirm without pending cancel deleted the booking")
	}

	// Step 3: arm again and confirm for real
	postForm(t, client, srv.URL+"/bookings/b1/cancel", nil)
	postForm(t, client, srv.URL+"/bookings/b1/cancel/confirm", nil)
	fake.mu.Lock()
	kept = len(fake.bookings)
	fake.mu.Unlock()
	if kept != 0 {
		t.Errorf("booking still present after confirmed cancel")
	}
}

func TestExpiredTokenSignsOut(t *testing.T) {
	fake := &fakeAPI{}
	srv, client := newTestApp(t, fake)
	signIn(t, client, srv.URL)

	fake.mu.Lock()
	fake.expired = true
	fake.mu.Unlock()

	// The API rejects the stored token, so the visitor is signed out
	// and lands on the login page.
	resp, err := client.Get(srv.URL + "/bookings")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if got := resp.Request.URL.Path; got != "/login" {
		t.Errorf("final path = %q, want /login", got)
	}

	// The session is gone: a later protected request redirects to
	// login instead of calling the API again.
	resp2, err := client.Get(srv.URL + "/bookings")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp2.Body.Close() }()
	if got := resp2.Request.URL.Path; got != "/login" {
		t.Errorf("post-signout path = %q, want /login", got)
	}
}

func TestAnonymousCannotBook(t *testing.T) {
	fake := &fakeAPI{}
	srv, client := newTestApp(t, fake)

	// Detail page offers a login link instead of the booking form
	_, body := get(t, client, srv.URL+"/events/e1")
	if strings.Contains(body, `action="/events/e1/book"`) {
		t.Error("anonymous visitor sees the booking form")
	}
	if !strings.Contains(body, "/login?next=/events/e1") {
		t.Error("detail page missing login link with return path")
	}
}
