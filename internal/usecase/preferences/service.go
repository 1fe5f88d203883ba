package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

// ErrNoUser возвращается, если идентификатор пользователя пуст.
var ErrNoUser = errors.New("user id is empty")

// Service читает и сохраняет наборы предпочтений через хранилище.
type Service struct {
	store domain.PreferenceStore
	known []domain.Category
	log   zerolog.Logger
}

// NewService создаёт сервис предпочтений; known содержит категории каталога.
func NewService(store domain.PreferenceStore, known []domain.Category, log zerolog.Logger) *Service {
	return &Service{store: store, known: known, log: log}
}

// Load возвращает набор пользователя или DefaultsFor(known), если записи нет.
func (s *Service) Load(ctx context.Context, userID string) ([]domain.Preference, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNoUser
	}
	prefs, found, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("загрузка предпочтений: %w", err)
	}
	if !found || prefs == nil {
		s.log.Debug().Str("user", userID).Msg("предпочтения не найдены, используем значения по умолчанию")
		return DefaultsFor(s.known), nil
	}
	return prefs, nil
}

// Save проверяет updated и передаёт его хранилищу.
// Возвращает новый набор только если хранилище его приняло; иначе current и ошибку.
func (s *Service) Save(ctx context.Context, userID string, current, updated []domain.Preference) ([]domain.Preference, error) {
	if strings.TrimSpace(userID) == "" {
		return current, ErrNoUser
	}
	next, err := Upsert(current, updated, s.known)
	if err != nil {
		metrics.ObservePreferenceUpdate("invalid")
		return current, err
	}
	if err := s.store.Put(ctx, userID, next); err != nil {
		metrics.ObservePreferenceUpdate("failed")
		s.log.Error().Err(err).Str("user", userID).Msg("хранилище отклонило предпочтения")
		return current, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	metrics.ObservePreferenceUpdate("ok")
	return next, nil
}
