package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"citadel/internal/model"
	"citadel/internal/repository"
	"citadel/internal/util"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testKey = "test-signing-key"

var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, _ := UserID(r.Context())
	_, _ = w.Write([]byte(id))
})

func newCookieStore() sessions.Store {
	return sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
}

func TestAuthenticateRejectsAnonymous(t *testing.T) {
	h := Authenticate(newCookieStore(), testKey, zerolog.Nop())(echoUser)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAcceptsBearerToken(t *testing.T) {
	tok, err := util.IssueToken("user-7", "", testKey, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	Authenticate(newCookieStore(), testKey, zerolog.Nop())(echoUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-7", rec.Body.String())
}

type stubUsers map[string]*model.User

func (s stubUsers) Get(_ context.Context, id string) (*model.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func TestRequireAdmin(t *testing.T) {
	users := stubUsers{
		"admin": {ID: "admin", Role: model.RoleAdmin},
		"plain": {ID: "plain", Role: model.RoleUser},
	}
	h := RequireAdmin(users, zerolog.Nop())(echoUser)

	cases := map[string]int{"admin": http.StatusOK, "plain": http.StatusForbidden, "ghost": http.StatusForbidden}
	for id, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req = req.WithContext(WithUserID(req.Context(), id))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, id)
	}
}

func TestRequireOwner(t *testing.T) {
	lookup := func(_ context.Context, id int64) (string, error) {
		if id == 1 {
			return "alice", nil
		}
		return "", repository.ErrNotFound
	}
	mux := http.NewServeMux()
	mux.Handle("PUT /api/content/{id}", RequireOwner(lookup, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := ItemID(r.Context())
		require.True(t, ok)
		assert.Equal(t, int64(1), id)
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		user, path string
		want       int
	}{
		{"alice", "/api/content/1", http.StatusNoContent},
		{"bob", "/api/content/1", http.StatusForbidden},
		{"alice", "/api/content/2", http.StatusNotFound},
		{"alice", "/api/content/abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPut, tc.path, nil)
		req = req.WithContext(WithUserID(req.Context(), tc.user))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.user, tc.path)
	}
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	h := LoggerMiddleware(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestMetricsUseRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/content/{category}", func(w http.ResponseWriter, r *http.Request) {})

	h := m.Instrument(mux)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/content/music", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/content/rituals", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET /api/content/{category}", "GET", "200")))
}

func TestRateLimiterPerUser(t *testing.T) {
	l := NewRateLimiter(rate.Every(time.Hour), 1)
	h := l.Limit(echoUser)

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/create-subscription", nil)
		req = req.WithContext(WithUserID(req.Context(), user))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))
}

func TestRateLimiterEvictsRefilledBuckets(t *testing.T) {
	l := NewRateLimiter(rate.Every(time.Minute), 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.True(t, l.allow("b"))
	assert.False(t, l.allow("a"))

	now = now.Add(30 * time.Second)
	assert.False(t, l.allow("a"))
	assert.Len(t, l.visitors, 2)

	now = now.Add(2 * time.Minute)
	assert.True(t, l.allow("c"))
	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "c")

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
}
