package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/eventhub/internal/client/credentials"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

// fakeBackend mimics the auth and event endpoints of the REST backend.
type fakeBackend struct {
	mu sync.Mutex

	access        string // the only access token profile accepts; "" accepts none
	refresh       string
	nextAccess    string
	rotate        string
	refreshStatus int
	refreshDelay  time.Duration
	rejectAll     bool

	// refreshEntered and refreshGate let a test act while a refresh is in flight.
	refreshEntered chan struct{}
	refreshGate    chan struct{}

	loginCalls    atomic.Int32
	registerCalls atomic.Int32
	refreshCalls  atomic.Int32
	profileCalls  atomic.Int32

	requestIDs sync.Map
	authHeader sync.Map // path -> last Authorization header
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		b.loginCalls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"access": b.access, "refresh": b.refresh})
	})

	mux.HandleFunc("POST /api/v1/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		b.registerCalls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "taken@example.com" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"email":    []string{"user with this email already exists."},
				"password": "This password is too common.",
			})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": 7, "username": body["username"], "email": body["email"], "role": body["role"]})
	})

	mux.HandleFunc("POST /api/v1/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		if b.refreshEntered != nil {
			b.refreshEntered <- struct{}{}
		}
		if b.refreshGate != nil {
			<-b.refreshGate
		}
		if b.refreshDelay > 0 {
			time.Sleep(b.refreshDelay)
		}

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.refreshStatus != 0 {
			writeJSON(w, b.refreshStatus, map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		if body["refresh"] != b.refresh {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		b.access = b.nextAccess
		resp := map[string]string{"access": b.access}
		if b.rotate != "" {
			b.refresh = b.rotate
			resp["refresh"] = b.rotate
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("/api/v1/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		b.profileCalls.Add(1)
		b.mu.Lock()
		ok := !b.rejectAll && b.access != "" && r.Header.Get("Authorization") == "Bearer "+b.access
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 1, "username": "alice", "email": "alice@example.com",
			"first_name": "Alice", "last_name": "Liddell", "role": "organizer",
		})
	})

	mux.HandleFunc("GET /api/v1/events/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"count": 1,
			"results": []map[string]any{{
				"id": 3, "slug": "gophercon", "title": "GopherCon", "city": r.URL.Query().Get("city"),
			}},
		})
	})

	mux.HandleFunc("GET /api/v1/events/{slug}/", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("slug") != "gophercon" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Event matches the given query."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "slug": "gophercon", "title": "GopherCon"})
	})

	mux.HandleFunc("GET /api/v1/events/{slug}/export/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("name,email\nAlice,alice@example.com\n" + r.PathValue("slug") + "\n"))
	})

	mux.HandleFunc("GET /api/v1/admin/metrics/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"total_events": 12, "total_attendees": 340, "capacity_used": 71.5})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requestIDs.Store(r.Header.Get(RequestIDHeader), r.URL.Path)
		b.authHeader.Store(r.URL.Path, r.Header.Get("Authorization"))
		mux.ServeHTTP(w, r)
	})
}

func noEnv(string) (string, bool) { return "", false }

func newTestClient(t *testing.T, b *fakeBackend) (*HTTPClient, *credentials.MemoryStore, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	r := NewResolver(srv.URL+"/api/v1", "", "", "")
	r.lookupEnv = noEnv

	store := credentials.NewMemoryStore()
	return NewHTTPClient(srv.Client(), r, store, logging.Nop()), store, srv
}
