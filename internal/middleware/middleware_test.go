package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/service"
)

type authFunc func(ctx context.Context, token string) (*model.User, error)

func (f authFunc) Authenticate(ctx context.Context, token string) (*model.User, error) {
	return f(ctx, token)
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	if user := ctxkeys.User(r.Context()); user != nil {
		w.Write([]byte(user.ID))
		return
	}
	w.Write([]byte("anonymous"))
}

func TestAuthMiddleware(t *testing.T) {
	auth := authFunc(func(_ context.Context, token string) (*model.User, error) {
		switch token {
		case "good":
			return &model.User{ID: "u1", IsActive: true}, nil
		case "inactive":
			return nil, service.ErrForbidden
		case "broken":
			return nil, errors.New("db down")
		}
		return nil, service.ErrUnauthenticated
	})
	handler := AuthMiddleware(auth)(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "u1"},
		{"lowercase scheme", "bearer good", http.StatusOK, "u1"},
		{"basic scheme", "Basic good", http.StatusOK, "anonymous"},
		{"invalid token", "Bearer nope", http.StatusOK, "anonymous"},
		{"inactive user", "Bearer inactive", http.StatusForbidden, `{"message":"account is deactivated"}`},
		{"lookup failure", "Bearer broken", http.StatusInternalServerError, `{"message":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(echoUser)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/goals", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"authentication required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/goals", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := &RateLimiter{
		requests: map[string][]time.Time{},
		limit:    2,
		window:   time.Minute,
		now:      func() time.Time { return clock },
	}

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "limits are per IP")

	clock = clock.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.1.1.1"))

	clock = clock.Add(3 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.requests)
}

func TestRateLimitAuth_Returns429(t *testing.T) {
	handler := RateLimitAuth(1, time.Minute)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	first := httptest.NewRecorder()
	handler(first, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	handler(second, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "too many requests")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:5", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.9 "}, "1.2.3.4:5", "10.0.0.9"},
		{"remote addr", nil, "1.2.3.4:5678", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }),
		mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRequestLoggingAndMetrics_CaptureStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /goals/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := Chain(mux, RequestLogging, Metrics)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/goals/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rw := wrapResponseWriter(rec)
	assert.Same(t, rw, wrapResponseWriter(rw))
}
