package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS user_preferences (
	user_id     TEXT PRIMARY KEY,
	preferences JSONB NOT NULL DEFAULT '[]'::jsonb,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// querier: часть pgxpool.Pool, которой пользуется адаптер.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres реализует domain.PreferenceStore на основе pgxpool.
type Postgres struct {
	pool querier
}

var _ domain.PreferenceStore = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool querier) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// Migrate создаёт таблицу предпочтений, если её нет.
func (p *Postgres) Migrate(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	start := time.Now()
	_, err := p.pool.Exec(ctx, schemaSQL)
	metrics.ObserveNetworkRequest("postgres", "migrate", "user_preferences", start, err)
	if err != nil {
		return fmt.Errorf("создание таблицы user_preferences: %w", err)
	}
	return nil
}

// Get реализует domain.PreferenceStore.
func (p *Postgres) Get(ctx context.Context, userID string) ([]domain.Preference, bool, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	var raw []byte
	start := time.Now()
	err := p.pool.QueryRow(ctx, `SELECT preferences FROM user_preferences WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveNetworkRequest("postgres", "select", "user_preferences", start, nil)
		return nil, false, nil
	}
	metrics.ObserveNetworkRequest("postgres", "select", "user_preferences", start, err)
	if err != nil {
		return nil, false, err
	}

	var prefs []domain.Preference
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, false, fmt.Errorf("decode preferences: %w", err)
	}
	if prefs == nil {
		prefs = []domain.Preference{}
	}
	return prefs, true, nil
}

// Put реализует domain.PreferenceStore.
func (p *Postgres) Put(ctx context.Context, userID string, prefs []domain.Preference) error {
	if prefs == nil {
		prefs = []domain.Preference{}
	}
	payload, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err = p.pool.Exec(ctx, `
INSERT INTO user_preferences (user_id, preferences, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (user_id) DO UPDATE SET preferences = EXCLUDED.preferences, updated_at = now()
`, userID, string(payload))
	metrics.ObserveNetworkRequest("postgres", "upsert", "user_preferences", start, err)
	return err
}
