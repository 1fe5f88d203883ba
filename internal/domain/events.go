package domain

import "time"

// PreferencesChangeCause описывает источник изменения предпочтений.
type PreferencesChangeCause string

const (
	// PreferencesCauseToggle: пользователь переключил одну категорию.
	PreferencesCauseToggle PreferencesChangeCause = "toggle"
	// PreferencesCauseBulk: пользователь сохранил набор целиком.
	PreferencesCauseBulk PreferencesChangeCause = "bulk"
)

// PreferencesChanged публикуется после того, как хранилище приняло новый набор.
type PreferencesChanged struct {
	ID          string                 `json:"event_id"`
	UserID      string                 `json:"user_id"`
	Preferences []Preference           `json:"preferences"`
	Enabled     []Category             `json:"enabled"`
	Cause       PreferencesChangeCause `json:"cause"`
	OccurredAt  time.Time              `json:"occurred_at"`
}
