package repo

import (
	"context"
	"sync"

	"news-dashboard/internal/domain"
)

// Memory хранит предпочтения в памяти процесса. Используется, когда PG_DSN не задан.
type Memory struct {
	mu    sync.RWMutex
	prefs map[string][]domain.Preference
}

var _ domain.PreferenceStore = (*Memory)(nil)

// NewMemory создаёт пустое хранилище.
func NewMemory() *Memory {
	return &Memory{prefs: make(map[string][]domain.Preference)}
}

// Get реализует domain.PreferenceStore.
func (m *Memory) Get(_ context.Context, userID string) ([]domain.Preference, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefs, ok := m.prefs[userID]
	if !ok {
		return nil, false, nil
	}
	return clonePrefs(prefs), true, nil
}

// Put реализует domain.PreferenceStore.
func (m *Memory) Put(_ context.Context, userID string, prefs []domain.Preference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[userID] = clonePrefs(prefs)
	return nil
}

func clonePrefs(prefs []domain.Preference) []domain.Preference {
	out := make([]domain.Preference, len(prefs))
	copy(out, prefs)
	return out
}
