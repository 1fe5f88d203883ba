package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"news-dashboard/internal/domain"
)

var (
	// ErrInvalidToken: токен сессии повреждён или подпись не сходится.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken: срок действия токена истёк.
	ErrExpiredToken = errors.New("session token expired")
)

type sessionKey struct{}

// IssueToken подписывает токен сессии для пользователя.
func IssueToken(secret, userID string, expiresAt time.Time) string {
	values := url.Values{}
	values.Set("user_id", userID)
	values.Set("expires_at", strconv.FormatInt(expiresAt.Unix(), 10))
	values.Set("hash", hex.EncodeToString(sign(values, secret)))
	return values.Encode()
}

// ParseToken проверяет подпись и срок действия токена.
func ParseToken(secret, token string, now time.Time) (domain.Session, error) {
	values, err := url.ParseQuery(token)
	if err != nil {
		return domain.Session{}, ErrInvalidToken
	}
	expected, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(expected) == 0 {
		return domain.Session{}, ErrInvalidToken
	}
	if !hmac.Equal(sign(values, secret), expected) {
		return domain.Session{}, ErrInvalidToken
	}
	unix, err := strconv.ParseInt(values.Get("expires_at"), 10, 64)
	if err != nil {
		return domain.Session{}, ErrInvalidToken
	}
	session := domain.Session{
		UserID:    values.Get("user_id"),
		ExpiresAt: time.Unix(unix, 0).UTC(),
		Token:     token,
	}
	if !session.Valid() {
		return domain.Session{}, ErrInvalidToken
	}
	if session.Expired(now) {
		return domain.Session{}, ErrExpiredToken
	}
	return session, nil
}

// sign считает HMAC-SHA256 по отсортированным парам key=value без hash.
func sign(values url.Values, secret string) []byte {
	pairs := make([]string, 0, len(values))
	for k, vs := range values {
		if k == "hash" {
			continue
		}
		for _, v := range vs {
			pairs = append(pairs, k+"="+v)
		}
	}
	sort.Strings(pairs)
	key := sha256.Sum256([]byte(secret))
	h := hmac.New(sha256.New, key[:])
	h.Write([]byte(strings.Join(pairs, "\n")))
	return h.Sum(nil)
}

// SessionMiddleware пускает дальше только запросы с действительным токеном.
func SessionMiddleware(secret string, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, errors.New("session token is missing"))
				return
			}
			session, err := ParseToken(secret, token, now())
			if err != nil {
				WriteError(w, http.StatusUnauthorized, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("session")
}

// WithSession кладёт сессию в контекст.
func WithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext достаёт сессию, положенную SessionMiddleware.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(domain.Session)
	return session, ok
}

// RequestID возвращает request ID из контекста chi.
func RequestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// ErrorResponse описывает ошибку.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError отправляет JSON с ошибкой.
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteJSON(w, status, ErrorResponse{Error: err.Error()})
}

// WriteJSON отправляет ответ в JSON.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
