package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Custom error types for better error handling
var (
	ErrConfigInvalid    = errors.New("invalid config")
	ErrConfigValidation = errors.New("config validation failed")
	ErrConfigUnmarshal  = errors.New("failed to unmarshal config")
)

// DefaultEnvFile файл dotenv, читаемый по умолчанию, если он существует
const DefaultEnvFile = ".env"

// Configurable определяет интерфейс для любой конфигурации
type Configurable interface {
	Validate() error
}

// Loader предоставляет функциональность для загрузки конфигурации
// из необязательного dotenv-файла и переменных окружения.
type Loader struct {
	viper *viper.Viper
}

// NewLoader создает новый загрузчик конфигурации
func NewLoader(envFile string) *Loader {
	v := viper.New()

	if envFile == "" {
		envFile = DefaultEnvFile
	}

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	return &Loader{
		viper: v,
	}
}

// Load заполняет cfg из dotenv-файла, окружения и значений по умолчанию.
// Отсутствующий файл не является ошибкой.
func (l *Loader) Load(cfg Configurable) error {
	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := l.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}

	return nil
}

// SetDefault устанавливает значение по умолчанию для ключа
func (l *Loader) SetDefault(key string, value any) {
	l.viper.SetDefault(key, value)
}
