package main

import (
	"context"
	"math/rand/v2"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"news-dashboard/internal/adapters/api"
	"news-dashboard/internal/adapters/catalog"
	"news-dashboard/internal/adapters/repo"
	"news-dashboard/internal/adapters/telegram"
	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/cache"
	"news-dashboard/internal/infra/config"
	"news-dashboard/internal/infra/db"
	httpinfra "news-dashboard/internal/infra/http"
	logpkg "news-dashboard/internal/infra/log"
	"news-dashboard/internal/infra/metrics"
	"news-dashboard/internal/infra/queue"
	"news-dashboard/internal/usecase/dashboard"
	"news-dashboard/internal/usecase/feed"
	"news-dashboard/internal/usecase/preferences"
)

func main() {
	cfg := config.Load()
	logger := logpkg.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("api: не удалось загрузить каталог")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	}

	var store domain.PreferenceStore = repo.NewMemory()
	if cfg.PGDSN != "" {
		pool, err := db.Connect(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			log.Fatal().Err(err).Msg("api: нет подключения к БД")
		}
		defer pool.Close()
		pg := repo.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("api: миграция не выполнена")
		}
		store = pg
	} else {
		logger.Warn().Msg("api: PG_DSN не задан, предпочтения хранятся в памяти")
	}
	if rdb != nil {
		store = repo.NewCachedStore(store, cache.NewRedis(rdb), cfg.PrefsCacheTTL, logpkg.Component(logger, "prefs_cache"))
	}

	opts := []dashboard.Option{}
	switch cfg.Events.Backend {
	case config.EventsRedis:
		opts = append(opts, dashboard.WithEvents(queue.NewRedisEventQueue(rdb, cfg.Events.RedisKey)))
	case config.EventsRabbitMQ:
		rabbit, err := queue.DialRabbit(cfg.Events.AMQPURL, cfg.Events.Queue)
		if err != nil {
			log.Fatal().Err(err).Msg("api: нет подключения к RabbitMQ")
		}
		defer rabbit.Close()
		opts = append(opts, dashboard.WithEvents(rabbit))
	}
	if cfg.Telegram.Token != "" {
		sender, err := telegram.NewBotSender(cfg.Telegram.Token)
		if err != nil {
			log.Fatal().Err(err).Msg("api: Telegram недоступен")
		}
		opts = append(opts, dashboard.WithShareSender(sender))
	}

	seed := uint64(time.Now().UnixNano())
	generator := feed.NewGenerator(cat, rand.New(rand.NewPCG(seed, seed>>1)), time.Now)
	prefService := preferences.NewService(store, cat.Categories(), logpkg.Component(logger, "preferences"))
	dash := dashboard.NewService(generator, prefService, logpkg.Component(logger, "dashboard"), opts...)

	server := httpinfra.NewServer(logpkg.Component(logger, "http"))
	api.NewHandler(dash, logpkg.Component(logger, "api")).
		Mount(server.Router, httpinfra.SessionMiddleware(cfg.SessionSecret(), time.Now))

	metrics.StartServer(ctx, logpkg.Component(logger, "metrics"), cfg.MetricsAddr)
	go func() {
		if err := server.Start(":" + strconv.Itoa(cfg.Port)); err != nil {
			log.Error().Err(err).Msg("api: сервер остановлен")
			stop()
		}
	}()
	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
