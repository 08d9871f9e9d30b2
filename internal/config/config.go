package config

import (
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "CONFIRMER_"

// developmentEnvs are the only environments where development shortcuts apply.
var developmentEnvs = []string{"development", "local", "test"}

type Config struct {
	Primary    Primary          `koanf:"primary"`
	Server     ServerConfig     `koanf:"server"`
	Storage    StorageConfig    `koanf:"storage"`
	Database   DatabaseConfig   `koanf:"database" validate:"-"`
	Backend    BackendConfig    `koanf:"backend"`
	Retry      RetryConfig      `koanf:"retry"`
	Payment    PaymentConfig    `koanf:"payment"`
	Withdrawal WithdrawalConfig `koanf:"withdrawal"`
	Identity   IdentityConfig   `koanf:"identity"`
	Redis      RedisConfig      `koanf:"redis"`
	Logger     LoggerConfig     `koanf:"logger"`
	Worker     WorkerConfig     `koanf:"worker"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// IsDevelopment reports whether Env is on the development allow-list.
// Anything else, including typos, counts as production.
func (p Primary) IsDevelopment() bool {
	return slices.Contains(developmentEnvs, strings.ToLower(p.Env))
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type StorageConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=postgres memory"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type BackendConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"required"`
	Token   string        `koanf:"token"`
}

// RetryConfig applies to read-only status queries only.
type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries" validate:"min=1"`
}

type PollConfig struct {
	Interval     time.Duration `koanf:"interval" validate:"required"`
	MaxAttempts  int           `koanf:"max_attempts" validate:"required,min=1"`
	InitialDelay time.Duration `koanf:"initial_delay"`
}

type PaymentConfig struct {
	Poll    PollConfig `koanf:"poll"`
	Method  string     `koanf:"method" validate:"required"`
	PayType string     `koanf:"pay_type" validate:"required,oneof=prepay repair"`
}

type WithdrawalConfig struct {
	Poll       PollConfig `koanf:"poll"`
	MinAmount  string     `koanf:"min_amount" validate:"required,numeric"`
	MerchantID string     `koanf:"merchant_id"`
}

type IdentityConfig struct {
	UseRealIdentity bool `koanf:"use_real_identity"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Key      string        `koanf:"key" validate:"required"`
	TTL      time.Duration `koanf:"ttl"`
}

type WorkerConfig struct {
	Interval    time.Duration `koanf:"interval" validate:"required"`
	BatchSize   int           `koanf:"batch_size" validate:"required"`
	OrphanAfter time.Duration `koanf:"orphan_after" validate:"required"`
	SettleAfter time.Duration `koanf:"settle_after" validate:"required"`
}

type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" validate:"gt=0"`
	Burst int     `koanf:"burst" validate:"min=1"`
}

var defaults = map[string]any{
	"primary.env":                    "production",
	"server.port":                    "8085",
	"server.read_timeout":            "15s",
	"server.write_timeout":           "15s",
	"server.idle_timeout":            "60s",
	"storage.driver":                 "memory",
	"database.ssl_mode":              "disable",
	"database.max_open_conns":        10,
	"database.max_idle_conns":        2,
	"database.conn_max_lifetime":     "1h",
	"database.conn_max_idle_time":    "30m",
	"backend.timeout":                "10s",
	"retry.base_delay":               "200ms",
	"retry.max_retries":              3,
	"payment.poll.interval":          "1s",
	"payment.poll.max_attempts":      10,
	"payment.method":                 "wechat",
	"payment.pay_type":               "prepay",
	"withdrawal.poll.interval":       "2s",
	"withdrawal.poll.max_attempts":   6,
	"withdrawal.poll.initial_delay":  "3s",
	"withdrawal.min_amount":          "0.10",
	"redis.key":                      "confirmer:identity",
	"logger.level":                   "info",
	"worker.interval":                "30s",
	"worker.batch_size":              50,
	"worker.orphan_after":            "10m",
	"worker.settle_after":            "1m",
	"rate_limit.rps":                 5,
	"rate_limit.burst":               10,
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	if mainConfig.Storage.Driver == "postgres" {
		if err := validate.Struct(&mainConfig.Database); err != nil {
			logger.Error("database config validation failed", "error", err)
			return nil, err
		}
	}

	return mainConfig, nil
}
