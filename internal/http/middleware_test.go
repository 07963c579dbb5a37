package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		router := mux.NewRouter()
		router.Use(CorrelationIDMiddleware(zap.NewNop()))
		router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
			if r.Context().Value("correlation_id") == nil {
				t.Error("correlation_id missing from request context")
			}
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
		if rec.Header().Get("X-Correlation-ID") == "" {
			t.Error("X-Correlation-ID header not set")
		}
	})

	t.Run("propagates provided ID", func(t *testing.T) {
		router := mux.NewRouter()
		router.Use(CorrelationIDMiddleware(zap.NewNop()))
		router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-Correlation-ID", "abc-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Correlation-ID"); got != "abc-123" {
			t.Errorf("X-Correlation-ID = %q, want abc-123", got)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("denies when bucket exhausted", func(t *testing.T) {
		router := mux.NewRouter()
		router.Use(RateLimitMiddleware(rate.NewLimiter(rate.Limit(0.001), 1)))
		router.HandleFunc("/v1/snapshot", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		first := httptest.NewRecorder()
		router.ServeHTTP(first, httptest.NewRequest("GET", "/v1/snapshot", nil))
		if first.Code != http.StatusOK {
			t.Fatalf("first request status = %d, want 200", first.Code)
		}

		second := httptest.NewRecorder()
		router.ServeHTTP(second, httptest.NewRequest("GET", "/v1/snapshot", nil))
		if second.Code != http.StatusTooManyRequests {
			t.Fatalf("second request status = %d, want 429", second.Code)
		}

		var body map[string]any
		if err := json.Unmarshal(second.Body.Bytes(), &body); err != nil {
			t.Fatalf("429 body not JSON: %v", err)
		}
		errBody, _ := body["error"].(map[string]any)
		if errBody["code"] != "RATE_LIMITED" {
			t.Errorf("error code = %v, want RATE_LIMITED", errBody["code"])
		}
	})

	t.Run("nil limiter disables limiting", func(t *testing.T) {
		router := mux.NewRouter()
		router.Use(RateLimitMiddleware(nil))
		router.HandleFunc("/v1/snapshot", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		for i := 0; i < 10; i++ {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/snapshot", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d status = %d, want 200", i, rec.Code)
			}
		}
	})
}

func TestGetRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/v1/conditions/temperature", "/v1/conditions/{field}"},
		{"/v1/forecast/temperatureMax", "/v1/forecast/{field}"},
		{"/v1/snapshot", "/v1/snapshot"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.path, nil)
		if got := getRoute(r); got != tt.want {
			t.Errorf("getRoute(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestStatusCodeString(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{404, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		if got := statusCodeString(tt.code); got != tt.want {
			t.Errorf("statusCodeString(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
