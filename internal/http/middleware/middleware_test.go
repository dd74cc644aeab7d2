package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/quizbank/pkg"
	"github.com/roguepikachu/quizbank/pkg/ctxutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestRecovery_WritesErrorEnvelope(t *testing.T) {
	r := newEngine(Recovery())
	r.GET("/panic", func(_ *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", w.Code)
	}
	var body pkg.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Error != "Internal Server Error" || body.Message != "An unexpected error occurred" || body.Path != "/panic" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Fatalf("panic value leaked to client: %s", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
		clientID  string
	}{
		{"propagates headers", "req-123", "client-abc"},
		{"generates missing", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(RequestID())
			var gotReq, gotClient string
			r.GET("/", func(c *gin.Context) {
				gotReq = ctxutil.RequestID(c.Request.Context())
				gotClient = ctxutil.ClientID(c.Request.Context())
				c.Status(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.requestID != "" {
				req.Header.Set(headerRequestID, tt.requestID)
				req.Header.Set(headerClientID, tt.clientID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if gotReq == "" || gotClient == "" {
				t.Fatalf("ids missing from context: req=%q client=%q", gotReq, gotClient)
			}
			if w.Header().Get(headerRequestID) != gotReq || w.Header().Get(headerClientID) != gotClient {
				t.Fatalf("response headers do not echo context ids: %v", w.Header())
			}
			if tt.requestID != "" && (gotReq != tt.requestID || gotClient != tt.clientID) {
				t.Fatalf("caller ids not propagated: req=%q client=%q", gotReq, gotClient)
			}
			if tt.requestID == "" && gotReq == gotClient {
				t.Fatalf("generated ids should differ")
			}
		})
	}
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(hook.Reset)

	tests := []struct {
		status int
		level  logrus.Level
	}{
		{http.StatusOK, logrus.InfoLevel},
		{http.StatusNotFound, logrus.WarnLevel},
		{http.StatusServiceUnavailable, logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			hook.Reset()
			r := newEngine(RequestID(), RequestLogger())
			r.GET("/items/:id", func(c *gin.Context) { c.Status(tt.status) })

			req := httptest.NewRequest(http.MethodGet, "/items/7?verbose=1", nil)
			req.Header.Set(headerRequestID, "req-1")
			r.ServeHTTP(httptest.NewRecorder(), req)

			entry := hook.LastEntry()
			if entry == nil {
				t.Fatalf("no log entry written")
			}
			if entry.Level != tt.level || entry.Message != "request completed" {
				t.Fatalf("unexpected entry: level=%v msg=%q", entry.Level, entry.Message)
			}
			want := map[string]any{"status": tt.status, "path": "/items/7?verbose=1", "route": "/items/:id", "request_id": "req-1"}
			for k, v := range want {
				if entry.Data[k] != v {
					t.Fatalf("field %s: want %v, got %v", k, v, entry.Data[k])
				}
			}
		})
	}
}

func TestRequestLogger_CollectsHandlerErrors(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(hook.Reset)

	r := newEngine(RequestLogger())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	entry := hook.LastEntry()
	if entry == nil || entry.Data["errors"] != "db down" {
		t.Fatalf("handler errors not logged: %+v", entry)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantCreds  string
	}{
		{"configured origin preflight", []string{"http://localhost:3000"}, http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000", "true"},
		{"foreign origin rejected", []string{"http://localhost:3000"}, http.MethodGet, "http://evil.example", http.StatusForbidden, "", ""},
		{"wildcard", []string{"*"}, http.MethodGet, "http://anywhere.example", http.StatusOK, "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(CORS(tt.origins))
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/x", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("want %d, got %d", tt.wantStatus, w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("allow-origin: want %q, got %q", tt.wantOrigin, got)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Fatalf("allow-credentials: want %q, got %q", tt.wantCreds, got)
			}
		})
	}
}
