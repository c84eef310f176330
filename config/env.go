package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zynerotech/apiserver/database"
	"github.com/zynerotech/apiserver/healthcheck"
	"github.com/zynerotech/apiserver/logger"
	"github.com/zynerotech/apiserver/metrics"
	"github.com/zynerotech/apiserver/notify"
	"github.com/zynerotech/apiserver/server"
)

// Окружения приложения
const (
	ProductionEnv  = logger.ProductionEnv
	DevelopmentEnv = "development"
)

// InterfacesAlias адрес, на котором слушает HTTP-сервер
const InterfacesAlias = "0.0.0.0"

// Config is the process-wide configuration. It is built once at startup and
// only read afterwards.
type Config struct {
	Env              string        `mapstructure:"current_env"`
	ApplicationName  string        `mapstructure:"application_name"`
	DBURI            string        `mapstructure:"db_uri"`
	Port             int           `mapstructure:"port"`
	Language         string        `mapstructure:"language"`
	LogFolder        string        `mapstructure:"log_folder"`
	InfoLogFileName  string        `mapstructure:"info_log_file_name"`
	ErrorLogFileName string        `mapstructure:"error_log_file_name"`
	LogFileSize      string        `mapstructure:"log_file_size"`
	LoggingLevel     string        `mapstructure:"server_logging_level"`
	TokenExpiry      time.Duration `mapstructure:"token_expiry"` // declared, not consumed yet

	RedisURL           string        `mapstructure:"redis_url"`
	MetricsEnabled     bool          `mapstructure:"metrics_enabled"`
	MetricsPort        int           `mapstructure:"metrics_port"`
	HealthcheckEnabled bool          `mapstructure:"healthcheck_enabled"`
	HealthcheckPort    int           `mapstructure:"healthcheck_port"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	DBConnectTimeout   time.Duration `mapstructure:"db_connect_timeout"`
}

// Defaults регистрирует значения по умолчанию для всех ключей
func Defaults(l *Loader) {
	l.SetDefault("current_env", ProductionEnv)
	l.SetDefault("application_name", "")
	l.SetDefault("db_uri", "")
	l.SetDefault("port", 5000)
	l.SetDefault("language", "en-US")
	l.SetDefault("log_folder", "logs")
	l.SetDefault("info_log_file_name", "info-%DATE%.log")
	l.SetDefault("error_log_file_name", "error-%DATE%.log")
	l.SetDefault("log_file_size", "10m")
	l.SetDefault("server_logging_level", "debug")
	l.SetDefault("token_expiry", "2h")

	l.SetDefault("redis_url", "")
	l.SetDefault("metrics_enabled", false)
	l.SetDefault("metrics_port", 9090)
	l.SetDefault("healthcheck_enabled", true)
	l.SetDefault("healthcheck_port", 5001)
	l.SetDefault("shutdown_timeout", "10s")
	l.SetDefault("db_connect_timeout", "30s")
}

// FromEnv загружает конфигурацию из envFile (пусто = .env) и окружения
func FromEnv(envFile string) (*Config, error) {
	loader := NewLoader(envFile)
	Defaults(loader)

	cfg := &Config{}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate реализует интерфейс Configurable. Любое окружение, кроме
// development, считается production.
func (c *Config) Validate() error {
	if c.Env != DevelopmentEnv {
		c.Env = ProductionEnv
	}

	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if _, err := zerolog.ParseLevel(c.LoggingLevel); err != nil || c.LoggingLevel == "" {
		errs = append(errs, fmt.Errorf("unknown logging level %q", c.LoggingLevel))
	}
	if _, err := logger.ParseSize(c.LogFileSize); err != nil {
		errs = append(errs, err)
	}
	if c.MetricsEnabled && (c.MetricsPort <= 0 || c.MetricsPort == c.Port) {
		errs = append(errs, fmt.Errorf("metrics port %d is not usable", c.MetricsPort))
	}
	if c.HealthcheckEnabled && (c.HealthcheckPort <= 0 || c.HealthcheckPort == c.Port) {
		errs = append(errs, fmt.Errorf("healthcheck port %d is not usable", c.HealthcheckPort))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, errors.Join(errs...))
	}
	return nil
}

// IsProduction сообщает, запущено ли приложение в production
func (c *Config) IsProduction() bool {
	return c.Env != DevelopmentEnv
}

// LoggerConfig возвращает конфигурацию логгера
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Environment: c.Env,
		Label:       c.ApplicationName,
		Level:       c.LoggingLevel,
		Folder:      c.LogFolder,
		InfoFile:    c.InfoLogFileName,
		ErrorFile:   c.ErrorLogFileName,
		MaxSize:     c.LogFileSize,
		Language:    c.Language,
	}
}

// ServerConfig возвращает конфигурацию HTTP-сервера
func (c *Config) ServerConfig() *server.Config {
	return &server.Config{
		Address:         fmt.Sprintf("%s:%d", InterfacesAlias, c.Port),
		BodyLimit:       server.DefaultBodyLimit,
		ShutdownTimeout: c.ShutdownTimeout,
	}
}

// DatabaseConfig возвращает конфигурацию подключения к хранилищу
func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		URI:     c.DBURI,
		Timeout: c.DBConnectTimeout,
	}
}

// NotifyConfig возвращает конфигурацию канала уведомлений
func (c *Config) NotifyConfig() *notify.Config {
	return &notify.Config{
		Origins:  []string{"*"},
		RedisURL: c.RedisURL,
	}
}

// MetricsConfig возвращает конфигурацию метрик или nil, если они выключены
func (c *Config) MetricsConfig() *metrics.Config {
	if !c.MetricsEnabled {
		return nil
	}
	return &metrics.Config{
		Enabled:     true,
		Path:        "/metrics",
		Port:        c.MetricsPort,
		ServiceName: c.ApplicationName,
	}
}

// HealthcheckConfig возвращает конфигурацию healthcheck или nil, если он выключен
func (c *Config) HealthcheckConfig() *healthcheck.Config {
	if !c.HealthcheckEnabled {
		return nil
	}
	return &healthcheck.Config{
		Enabled: true,
		Path:    "/health",
		Port:    c.HealthcheckPort,
	}
}
