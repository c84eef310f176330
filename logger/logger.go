package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ProductionEnv окружение, в котором консольный вывод отключён
const ProductionEnv = "production"

// Config представляет конфигурацию логгера
type Config struct {
	Environment string `mapstructure:"environment"`
	Label       string `mapstructure:"label"`      // имя приложения в каждой строке
	Level       string `mapstructure:"level"`      // порог для всех приёмников
	Folder      string `mapstructure:"folder"`     // каталог с файлами логов
	InfoFile    string `mapstructure:"info_file"`  // шаблон имени, %DATE% заменяется датой
	ErrorFile   string `mapstructure:"error_file"` // шаблон имени, %DATE% заменяется датой
	MaxSize     string `mapstructure:"max_size"`   // 10m, 512k, 1g или байты
	Language    string `mapstructure:"language"`   // локаль для отметки времени
	TimeZone    string `mapstructure:"time_zone"`  // IANA-зона, пусто = локальная

	// Console заменяет os.Stdout для консольного приёмника
	Console io.Writer `mapstructure:"-"`
}

// Logger представляет собой обертку над zerolog.Logger
type Logger struct {
	logger  zerolog.Logger
	level   zerolog.Level
	closers []io.Closer
}

// New создает новый экземпляр логгера с файловыми приёмниками info и error
// и, вне production, с консольным приёмником.
func New(cfg Config) (*Logger, error) {
	cfg = sanitize(&cfg)

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	maxBytes, err := ParseSize(cfg.MaxSize)
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if cfg.TimeZone != "" {
		if loc, err = time.LoadLocation(cfg.TimeZone); err != nil {
			return nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
		}
	}

	format := &lineFormat{
		label:  cfg.Label,
		layout: timeLayout(cfg.Language),
		loc:    loc,
		now:    time.Now,
	}

	infoFile := newDatedFile(cfg.Folder, cfg.InfoFile, maxBytes, loc, time.Now)
	errorFile := newDatedFile(cfg.Folder, cfg.ErrorFile, maxBytes, loc, time.Now)

	writers := []io.Writer{
		newSink(infoFile, maxLevel(zerolog.InfoLevel, level), format),
		newSink(errorFile, maxLevel(zerolog.ErrorLevel, level), format),
	}
	if cfg.Environment != ProductionEnv {
		writers = append(writers, newSink(cfg.Console, level, format))
	}

	return &Logger{
		logger:  zerolog.New(zerolog.MultiLevelWriter(writers...)),
		level:   level,
		closers: []io.Closer{infoFile, errorFile},
	}, nil
}

// Debug логирует сообщение с уровнем Debug
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info логирует сообщение с уровнем Info
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn логирует сообщение с уровнем Warn
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error логирует сообщение с уровнем Error
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

// Fatal логирует сообщение с уровнем Fatal и завершает программу
func (l *Logger) Fatal() *zerolog.Event {
	return l.logger.Fatal()
}

// WithField возвращает новый логгер с добавленным полем
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger(), level: l.level}
}

// Level возвращает порог, применяемый приёмниками
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// Close закрывает файловые приёмники
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func maxLevel(a, b zerolog.Level) zerolog.Level {
	if a > b {
		return a
	}
	return b
}

// sanitize ensures the Config struct is populated with default values when fields are empty.
func sanitize(cfg *Config) Config {
	if cfg.Environment == "" {
		cfg.Environment = ProductionEnv
	}
	if cfg.Level == "" {
		cfg.Level = "debug"
	}
	if cfg.Folder == "" {
		cfg.Folder = "logs"
	}
	if cfg.InfoFile == "" {
		cfg.InfoFile = "info-%DATE%.log"
	}
	if cfg.ErrorFile == "" {
		cfg.ErrorFile = "error-%DATE%.log"
	}
	if cfg.MaxSize == "" {
		cfg.MaxSize = "10m"
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.Console == nil {
		cfg.Console = os.Stdout
	}
	return *cfg
}
