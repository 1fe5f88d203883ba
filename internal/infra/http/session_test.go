package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func TestTokenRoundTrip(t *testing.T) {
	token := IssueToken("secret", "user 42", fixedNow.Add(time.Hour))

	session, err := ParseToken("secret", token, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "user 42", session.UserID)
	assert.Equal(t, fixedNow.Add(time.Hour), session.ExpiresAt)
	assert.Equal(t, token, session.Token)
}

func TestTokenRejected(t *testing.T) {
	token := IssueToken("secret", "u1", fixedNow.Add(time.Hour))

	_, err := ParseToken("other", token, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tampered := strings.Replace(token, "user_id=u1", "user_id=u2", 1)
	_, err = ParseToken("secret", tampered, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("secret", token, fixedNow.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = ParseToken("secret", "user_id=u1", fixedNow)
	assert.ErrorIs(t, err, ErrInvalidToken)

	empty := IssueToken("secret", " ", fixedNow.Add(time.Hour))
	_, err = ParseToken("secret", empty, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionMiddleware(t *testing.T) {
	var seen string
	handler := SessionMiddleware("secret", func() time.Time { return fixedNow })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		require.True(t, ok)
		seen = session.UserID
		w.WriteHeader(http.StatusNoContent)
	}))
	token := IssueToken("secret", "u7", fixedNow.Add(time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u7", seen)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/feed?session="+url.QueryEscape(token), nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"session token is missing"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer "+IssueToken("secret", "u7", fixedNow.Add(-time.Minute)))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServerServesHealthAndMetrics(t *testing.T) {
	srv := NewServer(zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, srv.Shutdown(t.Context()))
}
