package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	FeedGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_generated_total",
		Help: "Количество сгенерированных лент",
	}, []string{"status"})
	FeedGenerateSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_generate_seconds",
		Help:    "Время генерации ленты",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})
	FeedVisibleArticles = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_visible_articles",
		Help:    "Количество статей после фильтра по предпочтениям",
		Buckets: []float64{0, 5, 10, 20, 30, 45, 60, 100},
	})
	ArticleToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "article_toggles_total",
		Help: "Переключения флагов статей",
	}, []string{"kind"})
	PreferenceUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "preference_updates_total",
		Help: "Попытки сохранить предпочтения",
	}, []string{"status"})
	ShareRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_requests_total",
		Help: "Запросы на отправку статей",
	}, []string{"kind", "status"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		FeedGenerated,
		FeedGenerateSeconds,
		FeedVisibleArticles,
		ArticleToggles,
		PreferenceUpdates,
		ShareRequests,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveFeedGeneration записывает результат генерации ленты.
func ObserveFeedGeneration(start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	FeedGenerated.WithLabelValues(status).Inc()
	FeedGenerateSeconds.Observe(time.Since(start).Seconds())
}

// ObserveVisible записывает размер отфильтрованной ленты.
func ObserveVisible(n int) {
	FeedVisibleArticles.Observe(float64(n))
}

// IncToggle увеличивает счётчик переключений read/save/preference.
func IncToggle(kind string) {
	ArticleToggles.WithLabelValues(kind).Inc()
}

// ObservePreferenceUpdate увеличивает счётчик сохранений предпочтений по статусу.
func ObservePreferenceUpdate(status string) {
	PreferenceUpdates.WithLabelValues(status).Inc()
}

// ObserveShare увеличивает счётчик отправок.
func ObserveShare(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ShareRequests.WithLabelValues(kind, status).Inc()
}
