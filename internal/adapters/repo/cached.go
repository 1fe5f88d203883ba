package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"news-dashboard/internal/domain"
)

const cacheKeyPrefix = "prefs:"

// CachedStore читает предпочтения через кэш и сбрасывает его при записи.
// Ошибки кэша не мешают работе: запрос уходит в основное хранилище.
type CachedStore struct {
	inner domain.PreferenceStore
	cache domain.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

var _ domain.PreferenceStore = (*CachedStore)(nil)

// NewCachedStore оборачивает хранилище кэшем.
func NewCachedStore(inner domain.PreferenceStore, cache domain.Cache, ttl time.Duration, log zerolog.Logger) *CachedStore {
	return &CachedStore{inner: inner, cache: cache, ttl: ttl, log: log}
}

// Get реализует domain.PreferenceStore.
func (c *CachedStore) Get(ctx context.Context, userID string) ([]domain.Preference, bool, error) {
	key := cacheKeyPrefix + userID
	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var prefs []domain.Preference
		if err := json.Unmarshal(raw, &prefs); err == nil {
			return prefs, true, nil
		}
		c.log.Warn().Str("key", key).Msg("cache: повреждённая запись, читаем из хранилища")
	case !errors.Is(err, domain.ErrCacheMiss):
		c.log.Warn().Err(err).Str("key", key).Msg("cache: ошибка чтения")
	}

	prefs, found, err := c.inner.Get(ctx, userID)
	if err != nil || !found {
		return prefs, found, err
	}
	c.store(ctx, key, prefs)
	return prefs, true, nil
}

// Put реализует domain.PreferenceStore. Кэш обновляется только после успешной записи.
func (c *CachedStore) Put(ctx context.Context, userID string, prefs []domain.Preference) error {
	key := cacheKeyPrefix + userID
	if err := c.inner.Put(ctx, userID, prefs); err != nil {
		if delErr := c.cache.Delete(ctx, key); delErr != nil {
			c.log.Warn().Err(delErr).Str("key", key).Msg("cache: не удалось сбросить запись")
		}
		return err
	}
	c.store(ctx, key, prefs)
	return nil
}

func (c *CachedStore) store(ctx context.Context, key string, prefs []domain.Preference) {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: ошибка записи")
	}
}
