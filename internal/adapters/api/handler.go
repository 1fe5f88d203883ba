package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
	httpinfra "news-dashboard/internal/infra/http"
	"news-dashboard/internal/usecase/dashboard"
	"news-dashboard/internal/usecase/preferences"
)

// PersistenceFailureMessage: текст ответа, когда хранилище не приняло предпочтения.
const PersistenceFailureMessage = "Failed to update preferences"

// Dashboard: операции дашборда, доступные через HTTP.
type Dashboard interface {
	Open(ctx context.Context, session domain.Session) (dashboard.View, error)
	View(userID string) (dashboard.View, error)
	Preferences(userID string) ([]domain.Preference, error)
	Refresh(ctx context.Context, userID string) (dashboard.View, error)
	ToggleRead(userID, articleID string) (dashboard.View, error)
	ToggleSave(userID, articleID string) (dashboard.View, error)
	TogglePreference(ctx context.Context, userID, prefID string) (dashboard.View, error)
	UpdatePreferences(ctx context.Context, userID string, prefs []domain.Preference) (dashboard.View, error)
	Share(ctx context.Context, userID, articleID string, chatID int64) (string, error)
	ShareSaved(ctx context.Context, userID string, chatID int64) (int, error)
	Close(userID string)
}

// Handler обслуживает /api/v1.
type Handler struct {
	svc Dashboard
	log zerolog.Logger
}

// NewHandler создаёт обработчик API.
func NewHandler(svc Dashboard, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Mount регистрирует маршруты под /api/v1; auth проверяет токен сессии.
func (h *Handler) Mount(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(auth)

		api.Post("/session", h.openSession)
		api.Delete("/session", h.closeSession)

		api.Get("/feed", h.feed)
		api.Post("/feed/refresh", h.refresh)

		api.Post("/articles/{id}/read", h.toggleRead)
		api.Post("/articles/{id}/save", h.toggleSave)
		api.Post("/articles/{id}/share", h.share)
		api.Post("/saved/share", h.shareSaved)

		api.Get("/preferences", h.preferences)
		api.Put("/preferences", h.updatePreferences)
		api.Post("/preferences/{id}/toggle", h.togglePreference)
	})
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Open(r.Context(), session)
	h.respondView(w, r, view, err)
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.svc.Close(session.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := h.svc.View(session.UserID)
	h.respondView(w, r, view, err)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Refresh(r.Context(), session.UserID)
	h.respondView(w, r, view, err)
}

func (h *Handler) toggleRead(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := h.svc.ToggleRead(session.UserID, chi.URLParam(r, "id"))
	h.respondView(w, r, view, err)
}

func (h *Handler) toggleSave(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := h.svc.ToggleSave(session.UserID, chi.URLParam(r, "id"))
	h.respondView(w, r, view, err)
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req shareRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	text, err := h.svc.Share(r.Context(), session.UserID, chi.URLParam(r, "id"), req.ChatID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, shareResponse{Text: text, Sent: req.ChatID != 0})
}

func (h *Handler) shareSaved(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req shareRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	if req.ChatID == 0 {
		httpinfra.WriteError(w, http.StatusBadRequest, errors.New("chat_id is required"))
		return
	}
	n, err := h.svc.ShareSaved(r.Context(), session.UserID, req.ChatID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, shareSavedResponse{Sent: n})
}

func (h *Handler) preferences(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	prefs, err := h.svc.Preferences(session.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, prefs)
}

func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()
	var prefs []domain.Preference
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		httpinfra.WriteError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	view, err := h.svc.UpdatePreferences(r.Context(), session.UserID, prefs)
	h.respondView(w, r, view, err)
}

func (h *Handler) togglePreference(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := h.svc.TogglePreference(r.Context(), session.UserID, chi.URLParam(r, "id"))
	h.respondView(w, r, view, err)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	session, ok := httpinfra.SessionFromContext(r.Context())
	if !ok || !session.Valid() {
		httpinfra.WriteError(w, http.StatusUnauthorized, errors.New("session is required"))
		return domain.Session{}, false
	}
	return session, true
}

func (h *Handler) respondView(w http.ResponseWriter, r *http.Request, view dashboard.View, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, newViewDTO(view))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("request_id", httpinfra.RequestID(r)).Str("path", r.URL.Path).Msg("api: ошибка запроса")
	}
	httpinfra.WriteError(w, status, errors.New(msg))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusBadGateway, PersistenceFailureMessage
	case errors.Is(err, domain.ErrDuplicateCategory),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, preferences.ErrNoUser):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "dashboard is not open"
	case errors.Is(err, domain.ErrArticleNotFound):
		return http.StatusNotFound, "article not found"
	case errors.Is(err, dashboard.ErrNothingSaved):
		return http.StatusConflict, err.Error()
	case errors.Is(err, dashboard.ErrShareUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, dashboard.ErrShareFailed):
		return http.StatusBadGateway, "failed to deliver message"
	case errors.Is(err, domain.ErrEmptyConfiguration), errors.Is(err, domain.ErrInvalidCatalog):
		return http.StatusInternalServerError, "feed configuration is invalid"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		return true
	}
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	httpinfra.WriteError(w, http.StatusBadRequest, errors.New("invalid request body"))
	return false
}
