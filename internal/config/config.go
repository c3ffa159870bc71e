// config - источник загрузки конфигурации шлюза витрины.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Backend  BackendConfig `yaml:"backend"`
	Session  SessionConfig `yaml:"session"`
	Redis    RedisConfig   `yaml:"redis"`
	Pages    PagesConfig   `yaml:"pages"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — таймауты запросов.
type TimeoutConfig struct {
	// Service — бюджет обработки одного входящего запроса.
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
	// Backend — таймаут одного исходящего вызова бэкенда.
	Backend time.Duration `yaml:"backend" env:"BACKEND_TIMEOUT" env-default:"10s"`
}

// HTTPConfig — публичный HTTP-сервер шлюза.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// MetricsConfig — отдельный HTTP для Prometheus.
type MetricsConfig struct {
	Host string `yaml:"host"   env:"METRICS_HOST"   env-default:"0.0.0.0"`
	Port string `yaml:"port"   env:"METRICS_PORT"   env-default:"50085"`
}

func (m MetricsConfig) Addr() string { return net.JoinHostPort(m.Host, m.Port) }

// BackendConfig — внутренний REST-бэкенд магазина.
type BackendConfig struct {
	// BaseURL — ориджин бэкенда, например "http://bookstore-api:8080".
	BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://127.0.0.1:8080"`
	// SelfURL — собственный ориджин шлюза (same-origin refresh).
	SelfURL   string `yaml:"self_url"   env:"SELF_URL"   env-default:"http://127.0.0.1:50090"`
	UserAgent string `yaml:"user_agent" env:"USER_AGENT" env-default:"bookstore-gateway"`
}

// SessionConfig — кука сессии и политика рассинхрона токенов.
type SessionConfig struct {
	// CookieSecure выключают только в локальной разработке без TLS.
	CookieSecure bool `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"true"`
	// MismatchPolicy — strict либо lenient.
	MismatchPolicy string `yaml:"mismatch_policy" env:"SESSION_MISMATCH_POLICY" env-default:"lenient"`
}

// RedisConfig — внешнее хранилище access-токенов; пустой Addr —
// in-memory стор.
type RedisConfig struct {
	Addr     string        `yaml:"addr"     env:"REDIS_ADDR"     env-default:""`
	Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
	TTL      time.Duration `yaml:"ttl"      env:"REDIS_TTL"      env-default:"15m"`
}

// PagesConfig — статические страницы витрины.
type PagesConfig struct {
	Dir string `yaml:"dir" env:"PAGES_DIR" env-default:"./web"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return &cfg, nil
}
