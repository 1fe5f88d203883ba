package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Бэкенды публикации событий.
const (
	EventsNone     = "none"
	EventsRedis    = "redis"
	EventsRabbitMQ = "rabbitmq"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	Session struct {
		Secret string        `envconfig:"SESSION_SECRET"`
		TTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	} `envconfig:""`

	PGDSN      string `envconfig:"PG_DSN"`
	PGMaxConns int32  `envconfig:"PG_MAX_CONNS" default:"5"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	PrefsCacheTTL time.Duration `envconfig:"PREFS_CACHE_TTL" default:"10m"`

	Events struct {
		Backend  string `envconfig:"EVENTS_BACKEND" default:"none"`
		RedisKey string `envconfig:"EVENTS_REDIS_KEY" default:"preferences_changed"`
		AMQPURL  string `envconfig:"RABBITMQ_URL"`
		Queue    string `envconfig:"EVENTS_QUEUE" default:"preferences.changed"`
	} `envconfig:""`

	Telegram struct {
		Token string `envconfig:"TG_BOT_TOKEN"`
	} `envconfig:""`

	CatalogPath string `envconfig:"FEED_CATALOG_PATH"`
}

// Parse читает .env (если есть) и переменные окружения.
func Parse() (AppConfig, error) {
	if err := loadDotEnv(); err != nil {
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// Validate проверяет согласованность настроек.
func (c AppConfig) Validate() error {
	switch c.Events.Backend {
	case EventsNone:
	case EventsRedis:
		if c.RedisAddr == "" {
			return errors.New("EVENTS_BACKEND=redis требует REDIS_ADDR")
		}
	case EventsRabbitMQ:
		if c.Events.AMQPURL == "" {
			return errors.New("EVENTS_BACKEND=rabbitmq требует RABBITMQ_URL")
		}
	default:
		return fmt.Errorf("неизвестный EVENTS_BACKEND %q", c.Events.Backend)
	}
	if c.AppEnv != "dev" && c.Session.Secret == "" {
		return errors.New("SESSION_SECRET обязателен вне dev")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL должен быть положительным")
	}
	return nil
}

// SessionSecret возвращает секрет подписи сессий; в dev допускается значение по умолчанию.
func (c AppConfig) SessionSecret() string {
	if c.Session.Secret == "" {
		return "dev-session-secret"
	}
	return c.Session.Secret
}

func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("ENV_PATH"))
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
