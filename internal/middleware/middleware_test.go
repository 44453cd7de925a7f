package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testJWTKey = []byte("jwt-test-key")
	okHandler  = func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) }
)

func newStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("session-key-32-bytes-long-000000"))
}

// signedInRequest returns a request carrying the session cookie of p.
func signedInRequest(t *testing.T, store sessions.Store, p profile.Profile, method, target string) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, SetUserSession(rec, httptest.NewRequest(http.MethodPost, "/x/auth/login", nil), store, testJWTKey, p))
	r := httptest.NewRequest(method, target, nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestHTTPSMiddleware(t *testing.T) {
	h := HTTPSMiddleware(http.HandlerFunc(okHandler), "prod")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://nextgig.dev/jobs?category=Design", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://nextgig.dev/jobs?category=Design", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "http://nextgig.dev/jobs", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HTTPSMiddleware(http.HandlerFunc(okHandler), "dev").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}), zerolog.New(&buf))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), seen)

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	r.Header.Set(RequestIDHeader, "upstream-id")
	h.ServeHTTP(rec, r)
	assert.Equal(t, "upstream-id", seen)
}

func TestHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	HeadersMiddleware(http.HandlerFunc(okHandler), "prod").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "deny", rec.Header().Get("X-Frame-Options"))

	rec = httptest.NewRecorder()
	HeadersMiddleware(http.HandlerFunc(okHandler), "dev").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("X-Frame-Options"))
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware(okHandler, http.MethodPost)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodOptions, "/functions/v1/send-email", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/functions/v1/send-email", nil))
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBearerAuthenticatedMiddleware(t *testing.T) {
	h := BearerAuthenticatedMiddleware("secret", okHandler)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer secret")
	h(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, header := range []string{"Bearer secre", "Bearer secret2", "bearer secret", "secret"} {
		rec = httptest.NewRecorder()
		r = httptest.NewRequest(http.MethodPost, "/", nil)
		r.Header.Set("Authorization", header)
		h(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := newStore()
	p := profile.Profile{ID: "p1", Email: "asha@example.com", Role: profile.RoleEmployer}

	claims, err := GetUserFromJWT(signedInRequest(t, store, p, http.MethodGet, "/"), store, testJWTKey)
	require.NoError(t, err)
	assert.Equal(t, "p1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.True(t, claims.IsEmployer())
	assert.False(t, claims.IsCandidate())

	_, err = GetUserFromJWT(httptest.NewRequest(http.MethodGet, "/", nil), store, testJWTKey)
	assert.Error(t, err)

	_, err = GetUserFromJWT(signedInRequest(t, store, p, http.MethodGet, "/"), store, []byte("other key"))
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	store := newStore()
	tk, err := SignUserJWT(profile.Profile{ID: "p1", Role: profile.RoleCandidate}, testJWTKey, time.Now().Add(-2*TokenTTL))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := store.New(r, SessionName)
	sess.Values["jwt"] = tk
	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(r, rec))
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}

	assert.False(t, IsSignedOn(r, store, testJWTKey))
}

func TestClearUserSession(t *testing.T) {
	store := newStore()
	r := signedInRequest(t, store, profile.Profile{ID: "p1", Role: profile.RoleCandidate}, http.MethodPost, "/x/auth/logout")
	rec := httptest.NewRecorder()
	require.NoError(t, ClearUserSession(rec, r, store))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestRoleAuthenticatedMiddleware(t *testing.T) {
	store := newStore()
	employer := profile.Profile{ID: "e1", Role: profile.RoleEmployer}
	candidate := profile.Profile{ID: "c1", Role: profile.RoleCandidate}
	h := RoleAuthenticatedMiddleware(store, testJWTKey, profile.RoleEmployer, okHandler)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/employer/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h(rec, signedInRequest(t, store, candidate, http.MethodGet, "/employer/dashboard"))
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, signedInRequest(t, store, employer, http.MethodGet, "/employer/dashboard"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	RoleAuthenticatedMiddleware(store, testJWTKey, "", okHandler)(rec, signedInRequest(t, store, candidate, http.MethodGet, "/profile"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJSONAuthenticatedMiddleware(t *testing.T) {
	store := newStore()
	h := JSONAuthenticatedMiddleware(store, testJWTKey, profile.RoleEmployer, okHandler)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/x/jobs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, signedInRequest(t, store, profile.Profile{ID: "c1", Role: profile.RoleCandidate}, http.MethodPost, "/x/jobs"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"only employers can do this"}`, rec.Body.String())
}
