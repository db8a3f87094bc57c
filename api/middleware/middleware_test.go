package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret"

type fakeCounter struct {
	counts map[string]int
	err    error
}

func (f *fakeCounter) IncrementRateLimit(_ context.Context, ip, group string, window time.Duration) (int, time.Duration, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.counts[group+":"+ip]++
	return f.counts[group+":"+ip], window, nil
}

func testMiddleware(counter RateCounter) *Middleware {
	cfg := &structs.Config{
		Server: &structs.ServerConfig{Environment: "development"},
		Auth:   &structs.AuthConfig{AccessTokenSecret: testSecret},
		RateLimit: &structs.RateLimitConfig{
			Enabled:         true,
			GeneralLimit:    3,
			GeneralWindow:   time.Minute,
			AuthLimit:       1,
			AuthWindow:      time.Minute,
			CheckoutLimit:   2,
			CheckoutWindow:  time.Minute,
			AdminLimit:      5,
			AdminWindow:     time.Minute,
			ExpensiveLimit:  4,
			ExpensiveWindow: time.Minute,
		},
	}
	mw := NewMiddleware(cfg, gecho.NewDefaultLogger(), counter)
	mw.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return mw
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestWithRole(t *testing.T, role string) *http.Request {
	t.Helper()
	token, _, err := lib.SignToken(uuid.New(), "maker@woodzire.com", role, time.Minute, testSecret)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: token})
	return r
}

func TestRoleMiddleware(t *testing.T) {
	mw := testMiddleware(nil)

	tests := []struct {
		name  string
		chain http.Handler
		role  string
		want  int
	}{
		{"admin on admin route", mw.UserAuthMiddleware(mw.AdminAuthMiddleware(okHandler)), "admin", http.StatusOK},
		{"moderator on admin route", mw.UserAuthMiddleware(mw.AdminAuthMiddleware(okHandler)), "moderator", http.StatusForbidden},
		{"moderator on staff route", mw.UserAuthMiddleware(mw.StaffAuthMiddleware(okHandler)), "moderator", http.StatusOK},
		{"user on staff route", mw.UserAuthMiddleware(mw.StaffAuthMiddleware(okHandler)), "user", http.StatusForbidden},
		{"user on user route", mw.UserAuthMiddleware(okHandler), "user", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.chain.ServeHTTP(w, requestWithRole(t, tt.role))
			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.UserAuthMiddleware(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("optional claims never rejects", func(t *testing.T) {
		var seen bool
		h := mw.OptionalClaims(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, seen = GetClaimsFromContext(r.Context())
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/orders", nil))
		assert.False(t, seen)

		h.ServeHTTP(httptest.NewRecorder(), requestWithRole(t, "user"))
		assert.True(t, seen)
	})
}

func TestCSRFMiddleware(t *testing.T) {
	h := testMiddleware(nil).CSRFMiddleware()(okHandler)

	tests := []struct {
		name   string
		method string
		cookie string
		header string
		want   int
	}{
		{"safe method", http.MethodGet, "", "", http.StatusOK},
		{"matching pair", http.MethodPost, "tok", "tok", http.StatusOK},
		{"missing cookie", http.MethodPost, "", "tok", http.StatusForbidden},
		{"missing header", http.MethodDelete, "tok", "", http.StatusForbidden},
		{"mismatch", http.MethodPut, "tok", "other", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/auth/login", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: lib.CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				r.Header.Set(lib.CSRFHeaderName, tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks after the group limit", func(t *testing.T) {
		h := testMiddleware(&fakeCounter{counts: map[string]int{}}).RateLimitMiddleware()(okHandler)

		send := func(method, path string) *httptest.ResponseRecorder {
			r := httptest.NewRequest(method, path, nil)
			r.RemoteAddr = "203.0.113.9:51234"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			return w
		}

		first := send(http.MethodPost, "/auth/login")
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

		blocked := send(http.MethodPost, "/auth/login")
		assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
		assert.Equal(t, "60", blocked.Header().Get("Retry-After"))

		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/categories").Code, "groups count separately")
		assert.Equal(t, http.StatusOK, send(http.MethodGet, "/health/server").Code, "probes are never limited")
	})

	t.Run("fails open", func(t *testing.T) {
		h := testMiddleware(&fakeCounter{err: assert.AnError}).RateLimitMiddleware()(okHandler)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRuleForEndpoint(t *testing.T) {
	mw := testMiddleware(nil)
	assert.Equal(t, "auth", mw.ruleForEndpoint("/auth/register", http.MethodPost).group)
	assert.Equal(t, "checkout", mw.ruleForEndpoint("/orders", http.MethodPost).group)
	assert.Equal(t, "checkout", mw.ruleForEndpoint("/checkout/quote", http.MethodPost).group)
	assert.Equal(t, "admin", mw.ruleForEndpoint("/admin/orders", http.MethodGet).group)
	assert.Equal(t, "expensive", mw.ruleForEndpoint("/products/teak-tray", http.MethodGet).group)
	assert.Equal(t, "general", mw.ruleForEndpoint("/orders/me", http.MethodGet).group)
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	testMiddleware(nil).SecurityHeaders()(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRoutePattern(t *testing.T) {
	var pattern string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			pattern = routePattern(r)
		})
	})
	r.Get("/products/{ref}", func(w http.ResponseWriter, r *http.Request) {})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/teak-tray", nil))
	assert.Equal(t, "/products/{ref}", pattern)
}
