package middleware

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"GET without header", "GET", "", http.StatusOK},
		{"DELETE without header", "DELETE", "", http.StatusOK},
		{"POST json", "POST", "application/json", http.StatusOK},
		{"PUT json with charset", "PUT", "application/json; charset=utf-8", http.StatusOK},
		{"POST missing header", "POST", "", http.StatusBadRequest},
		{"PUT text", "PUT", "text/plain", http.StatusUnsupportedMediaType},
		{"POST json prefix lookalike", "POST", "application/jsonp", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/api/v1/items", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			ContentType(okHandler()).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	t.Parallel()

	readAll := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("within limit", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("POST", "/", strings.NewReader("12345"))
		w := httptest.NewRecorder()
		MaxRequestSize(10)(readAll).ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("content length over limit", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 20)))
		w := httptest.NewRecorder()
		MaxRequestSize(10)(readAll).ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected status 413, got %d", w.Code)
		}
		var body ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Success {
			t.Error("Expected success to be false")
		}
	})

	t.Run("streamed body over limit", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 20)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		MaxRequestSize(10)(readAll).ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected status 413, got %d", w.Code)
		}
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	SecurityHeaders(true)(okHandler()).ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected X-Content-Type-Options 'nosniff', got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("Expected X-Frame-Options 'DENY', got %q", got)
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Expected no HSTS over plain http, got %q", got)
	}

	tlsReq := httptest.NewRequest("GET", "/", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	w = httptest.NewRecorder()
	SecurityHeaders(true)(okHandler()).ServeHTTP(w, tlsReq)
	if got := w.Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("Expected HSTS header over TLS when enabled")
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(slow).ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON timeout body: %v", err)
	}
}

func TestTimeout_FastHandlerPassesThrough(t *testing.T) {
	t.Parallel()

	created := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/api/v1/items/1")
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest("POST", "/", nil)
	w := httptest.NewRecorder()
	Timeout(time.Second)(created).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/api/v1/items/1" {
		t.Errorf("Expected Location header to survive, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"http://localhost:3000"}, zap.NewNop())(okHandler())

	t.Run("preflight from allowed origin", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("OPTIONS", "/api/v1/items/1", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "PUT")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Expected allowed origin echoed, got %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PUT") {
			t.Errorf("Expected PUT in allowed methods, got %q", got)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected no allow-origin header, got %q", got)
		}
	})
}

func TestRateLimit_MemoryStore(t *testing.T) {
	t.Parallel()

	mw, err := RateLimit("2-M", nil, zap.NewNop())
	if err != nil {
		t.Fatalf("RateLimit() error = %v", err)
	}
	handler := mw(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/v1/items", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("Expected first two requests allowed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third request limited, got %d", codes[2])
	}

	// A different client has its own budget
	req := httptest.NewRequest("GET", "/api/v1/items", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected other client allowed, got %d", w.Code)
	}
}

func TestRateLimit_InvalidRate(t *testing.T) {
	t.Parallel()

	if _, err := RateLimit("lots", nil, zap.NewNop()); err == nil {
		t.Error("Expected error for malformed rate")
	}
}

func TestAudit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		event  string
	}{
		{http.StatusTooManyRequests, "rate_limit_violation"},
		{http.StatusRequestEntityTooLarge, "request_too_large"},
		{http.StatusOK, ""},
		{http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.WarnLevel)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			req := httptest.NewRequest("POST", "/api/v1/items", nil)
			Audit(zap.New(core))(handler).ServeHTTP(httptest.NewRecorder(), req)

			if tt.event == "" {
				if logs.Len() != 0 {
					t.Errorf("Expected no audit entries, got %d", logs.Len())
				}
				return
			}
			if logs.FilterMessage(tt.event).Len() != 1 {
				t.Errorf("Expected one %q entry, got %v", tt.event, logs.All())
			}
		})
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisClient(context.Background(), "not a url"); err == nil {
		t.Error("Expected error for malformed Redis URL")
	}
}
