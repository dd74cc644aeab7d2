package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakePinger struct {
	err   error
	delay time.Duration
}

func (f fakePinger) Ping(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.err
}

func serve(h gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(path, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(Health, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "UP" || body["version"] == "" || body["timestamp"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestPing(t *testing.T) {
	w := serve(Ping, "/api/health/ping")
	if w.Code != http.StatusOK || w.Body.String() != `"pong"` {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
}

func TestLiveness_OK(t *testing.T) {
	hh := NewHealthHandler(fakePinger{err: errors.New("db down")})
	if w := serve(hh.Liveness, "/api/livez"); w.Code != http.StatusOK {
		t.Fatalf("liveness must not depend on the database, got %d", w.Code)
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name string
		pg   Pinger
		want int
	}{
		{"no deps", nil, http.StatusOK},
		{"postgres up", fakePinger{}, http.StatusOK},
		{"postgres down", fakePinger{err: errors.New("db down")}, http.StatusServiceUnavailable},
		{"postgres slow", fakePinger{delay: 200 * time.Millisecond}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hh := &HealthHandler{pg: tt.pg, pingTimeout: 50 * time.Millisecond}
			w := serve(hh.Readiness, "/api/readyz")
			if w.Code != tt.want {
				t.Fatalf("want %d, got %d", tt.want, w.Code)
			}
		})
	}
}
