package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/partvault-backend/internal/pkg/envutil"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	LogMode         string        `yaml:"log_mode"`
	GinMode         string        `yaml:"gin_mode"`
	LockTimeout     time.Duration `yaml:"lock_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	MetricsEnabled bool `yaml:"metrics_enabled"`
	TracingEnabled bool `yaml:"tracing_enabled"`
	EventsEnabled  bool `yaml:"events_enabled"`

	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`
}

// LoadConfig reads the optional CONFIG_FILE yaml first, then lets
// environment variables override it.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		HTTPAddr:        ":8080",
		LogMode:         "development",
		GinMode:         "debug",
		LockTimeout:     5 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		MetricsEnabled:  true,
		TracingEnabled:  false,
		EventsEnabled:   false,
		ServiceVersion:  "dev",
		Environment:     "development",
	}

	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.HTTPAddr = envutil.String("HTTP_ADDR", cfg.HTTPAddr)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTPAddr = ":" + port
	}
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.GinMode = envutil.String("GIN_MODE", cfg.GinMode)
	cfg.LockTimeout = time.Duration(envutil.Int("LOCK_TIMEOUT_MS", int(cfg.LockTimeout.Milliseconds()))) * time.Millisecond
	cfg.ShutdownTimeout = time.Duration(envutil.Int("SHUTDOWN_TIMEOUT_MS", int(cfg.ShutdownTimeout.Milliseconds()))) * time.Millisecond
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.TracingEnabled = envutil.Bool("OTEL_ENABLED", cfg.TracingEnabled)
	cfg.EventsEnabled = envutil.Bool("EVENTS_ENABLED", cfg.EventsEnabled)
	cfg.ServiceVersion = envutil.String("SERVICE_VERSION", cfg.ServiceVersion)
	cfg.Environment = envutil.String("ENVIRONMENT", cfg.Environment)

	return cfg, nil
}
