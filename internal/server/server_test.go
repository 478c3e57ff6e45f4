package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benvon/todo-items/internal/config"
	"github.com/benvon/todo-items/internal/database"
	"github.com/benvon/todo-items/internal/models"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, rate string) (*httptest.Server, *database.MemoryTodoRepository) {
	t.Helper()

	store := database.NewMemoryTodoRepository()
	cfg := &config.Config{
		DatabaseURL:    database.MemoryURL,
		FrontendURL:    "http://localhost:3000",
		RateLimit:      rate,
		RequestTimeout: 5 * time.Second,
	}
	h, err := NewHandler(Deps{
		Config: cfg,
		Store:  store,
		DB:     pingFunc(func(context.Context) error { return nil }),
		Logger: zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, store
}

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func send(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestItemLifecycle(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "1000-S")

	resp := send(t, "POST", srv.URL+"/api/v1/items", `{"name":"Write tests","priority":"Low"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST: expected 201, got %d", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	if location != "/api/v1/items/1" {
		t.Fatalf("POST: expected Location '/api/v1/items/1', got %q", location)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID on response")
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected security headers, got X-Content-Type-Options %q", got)
	}

	resp = send(t, "GET", srv.URL+location, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET: expected 200, got %d", resp.StatusCode)
	}
	var item models.TodoItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("GET: decode: %v", err)
	}
	if item.Name != "Write tests" || item.Priority != models.PriorityLow {
		t.Errorf("GET: unexpected item %+v", item)
	}

	resp = send(t, "PUT", srv.URL+location, `{"id":1,"name":"Write more tests","isCompleted":true}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("PUT: expected 204, got %d", resp.StatusCode)
	}

	resp = send(t, "DELETE", srv.URL+location, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE: expected 204, got %d", resp.StatusCode)
	}

	resp = send(t, "GET", srv.URL+location, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestBlankNameNotStored(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, "1000-S")

	for _, body := range []string{`{"name":""}`, `{"name":"   "}`, `{"name":"\t\n"}`} {
		resp := send(t, "POST", srv.URL+"/api/v1/items", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
	if n, _ := store.Count(context.Background()); n != 0 {
		t.Errorf("Expected nothing stored, found %d", n)
	}
}

func TestContentTypeEnforced(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "1000-S")

	req, _ := http.NewRequest("POST", srv.URL+"/api/v1/items", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("Expected 415, got %d", resp.StatusCode)
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(Deps{
		Config: &config.Config{RateLimit: "1000-S", RequestTimeout: 5 * time.Second},
		Store:  database.NewMemoryTodoRepository(),
		DB:     pingFunc(func(context.Context) error { return nil }),
		Logger: zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	body := `{"name":"x","description":"` + strings.Repeat("d", 2<<20) + `"}`
	req := httptest.NewRequest("POST", "/api/v1/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", w.Code)
	}
}

func TestRateLimitApplied(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "2-M")

	var last int
	for i := 0; i < 3; i++ {
		last = send(t, "GET", srv.URL+"/api/v1/items", "").StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be limited, got %d", last)
	}

	// Health checks are not rate limited
	if code := send(t, "GET", srv.URL+"/healthz", "").StatusCode; code != http.StatusOK {
		t.Errorf("Expected /healthz 200, got %d", code)
	}
}

func TestSupportingEndpoints(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "1000-S")

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/healthz", http.StatusOK},
		{"/healthz?mode=extended", http.StatusOK},
		{"/version", http.StatusOK},
		{"/api/v1/openapi.yaml", http.StatusOK},
		{"/api/v1/openapi.json", http.StatusOK},
		{"/api/v1/nothing-here", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if code := send(t, "GET", srv.URL+tt.path, "").StatusCode; code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "1000-S")

	resp := send(t, "PATCH", srv.URL+"/api/v1/items/1", `{"name":"x"}`)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "1000-S")

	req, _ := http.NewRequest("OPTIONS", srv.URL+"/api/v1/items/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin, got %q", got)
	}
}

func TestNewHandler_InvalidRate(t *testing.T) {
	t.Parallel()

	_, err := NewHandler(Deps{
		Config: &config.Config{RateLimit: "fast"},
		Store:  database.NewMemoryTodoRepository(),
		DB:     pingFunc(func(context.Context) error { return nil }),
		Logger: zap.NewNop(),
	})
	if err == nil {
		t.Error("Expected error for malformed rate")
	}
}
