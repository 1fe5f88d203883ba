package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/config"
	logpkg "news-dashboard/internal/infra/log"
	"news-dashboard/internal/infra/queue"
)

const retryDelay = 2 * time.Second

func main() {
	cfg := config.Load()
	logger := logpkg.Component(logpkg.NewLogger(cfg.AppEnv), "prefs_audit")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Events.Backend {
	case config.EventsRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		q := queue.NewRedisEventQueue(rdb, cfg.Events.RedisKey)
		for {
			event, err := q.Pop(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				logger.Error().Err(err).Msg("не удалось прочитать событие")
				if !sleepCtx(ctx, retryDelay) {
					return
				}
				continue
			}
			logEvent(logger, event)
		}
	case config.EventsRabbitMQ:
		rabbit, err := queue.DialRabbit(cfg.Events.AMQPURL, cfg.Events.Queue)
		if err != nil {
			log.Fatal().Err(err).Msg("prefs-audit: нет подключения к RabbitMQ")
		}
		defer rabbit.Close()
		err = rabbit.Consume(ctx, func(event domain.PreferencesChanged) error {
			logEvent(logger, event)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("чтение очереди остановлено")
		}
	default:
		log.Fatal().Str("backend", cfg.Events.Backend).Msg("prefs-audit: EVENTS_BACKEND должен быть redis или rabbitmq")
	}
}

func logEvent(logger zerolog.Logger, event domain.PreferencesChanged) {
	enabled := make([]string, 0, len(event.Enabled))
	for _, c := range event.Enabled {
		enabled = append(enabled, string(c))
	}
	logger.Info().
		Str("event_id", event.ID).
		Str("user", event.UserID).
		Str("cause", string(event.Cause)).
		Strs("enabled", enabled).
		Time("occurred_at", event.OccurredAt).
		Msg("предпочтения изменены")
}

// sleepCtx ждёт d или отмены ctx; false означает, что ctx отменён.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
