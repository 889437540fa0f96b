package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/templui/tagbox/internal/ctxkeys"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/service"
)

type fakeVerifier map[string]int64

func (f fakeVerifier) VerifyJWT(token string) (int64, error) {
	id, ok := f[token]
	if !ok {
		return 0, service.ErrInvalidToken
	}
	return id, nil
}

type fakeUsers struct {
	users map[int64]*model.User
	err   error
}

func (f fakeUsers) ByID(_ context.Context, id int64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user.PasswordHash != "" {
		http.Error(w, "password hash leaked", http.StatusInternalServerError)
		return
	}
	w.Write([]byte(user.Email))
}

func TestAuthMiddleware(t *testing.T) {
	users := fakeUsers{users: map[int64]*model.User{
		1: {ID: 1, Email: "ada@example.com", PasswordHash: "hash"},
	}}
	verifier := fakeVerifier{"good": 1, "orphan": 2}

	tests := []struct {
		name     string
		header   string
		users    fakeUsers
		wantCode int
		wantBody string
	}{
		{name: "valid token", header: "Bearer good", users: users, wantCode: http.StatusOK, wantBody: "ada@example.com"},
		{name: "lowercase scheme", header: "bearer good", users: users, wantCode: http.StatusOK, wantBody: "ada@example.com"},
		{name: "missing header", header: "", users: users, wantCode: http.StatusUnauthorized, wantBody: `"error"`},
		{name: "wrong scheme", header: "Basic good", users: users, wantCode: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", users: users, wantCode: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer forged", users: users, wantCode: http.StatusUnauthorized},
		{name: "deleted account", header: "Bearer orphan", users: users, wantCode: http.StatusUnauthorized},
		{name: "user lookup fails", header: "Bearer good", users: fakeUsers{err: errors.New("db down")}, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AuthMiddleware(verifier, tt.users)(RequireAuth(whoAmI))

			req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuthMiddlewareAnonymousPassThrough(t *testing.T) {
	h := AuthMiddleware(fakeVerifier{}, fakeUsers{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) != nil {
			t.Error("expected anonymous request")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	got := strings.Join(order, ",")
	if got != "first,second,handler" {
		t.Errorf("order = %s", got)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Now()
	if !rl.allowAt("10.0.0.1", now) || !rl.allowAt("10.0.0.1", now.Add(time.Second)) {
		t.Fatal("first two requests should be allowed")
	}
	if rl.allowAt("10.0.0.1", now.Add(2*time.Second)) {
		t.Error("third request inside the window should be rejected")
	}
	if !rl.allowAt("10.0.0.2", now.Add(2*time.Second)) {
		t.Error("other clients have their own budget")
	}
	if !rl.allowAt("10.0.0.1", now.Add(time.Minute+2*time.Second)) {
		t.Error("request after the window should be allowed")
	}

	rl.cleanup(now.Add(10 * time.Minute))
	rl.mu.Lock()
	remaining := len(rl.requests)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Errorf("cleanup left %d clients", remaining)
	}

	rl.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	h := RateLimit(rl)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 0, 2)
	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.7:5123"
		rec := httptest.NewRecorder()
		h(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "60" {
			t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "forwarded for", remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, want: "203.0.113.9"},
		{name: "real ip", remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Real-IP": " 203.0.113.10 "}, want: "203.0.113.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tags/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Metrics(mux)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /api/tags/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tags/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("counter delta = %v, want 3", got)
	}

	unmatched := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if got := testutil.ToFloat64(unmatched) - before; got != 1 {
		t.Errorf("unmatched delta = %v, want 1", got)
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/tags", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	out := buf.String()
	if !strings.Contains(out, "path=/api/tags") || !strings.Contains(out, "status=201") {
		t.Errorf("missing request line in %q", out)
	}
	if strings.Contains(out, "/health") {
		t.Errorf("health check should not be logged: %q", out)
	}
}
