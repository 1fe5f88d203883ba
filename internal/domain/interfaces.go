package domain

import (
	"context"
	"time"
)

// RandomSource выдаёт равномерные значения из [0, 1).
// *math/rand/v2.Rand удовлетворяет интерфейсу.
type RandomSource interface {
	Float64() float64
}

// PreferenceStore хранит набор предпочтений по идентификатору пользователя.
type PreferenceStore interface {
	// Get возвращает набор предпочтений; found=false, если записи нет.
	Get(ctx context.Context, userID string) (prefs []Preference, found bool, err error)
	// Put целиком заменяет набор предпочтений пользователя.
	Put(ctx context.Context, userID string, prefs []Preference) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get возвращает ErrCacheMiss, если ключа нет.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// EventPublisher публикует события об изменении предпочтений.
type EventPublisher interface {
	Publish(ctx context.Context, event PreferencesChanged) error
}

// ShareSender доставляет текст в чат Telegram.
type ShareSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}
