package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	global     *Logger
	globalLock sync.RWMutex
)

func init() {
	global = &Logger{
		logger: zerolog.New(newSink(os.Stdout, zerolog.DebugLevel, &lineFormat{
			layout: time.RFC3339,
			loc:    time.Local,
			now:    time.Now,
		})),
		level: zerolog.DebugLevel,
	}
}

// SetGlobal устанавливает глобальный логгер
func SetGlobal(l *Logger) {
	if l == nil {
		return
	}
	globalLock.Lock()
	global = l
	globalLock.Unlock()
}

// GetGlobal возвращает глобальный логгер
func GetGlobal() *Logger {
	globalLock.RLock()
	defer globalLock.RUnlock()
	return global
}

// Debug логирует через глобальный логгер
func Debug() *zerolog.Event {
	return GetGlobal().Debug()
}

// Info логирует через глобальный логгер
func Info() *zerolog.Event {
	return GetGlobal().Info()
}

// Warn логирует через глобальный логгер
func Warn() *zerolog.Event {
	return GetGlobal().Warn()
}

// Error логирует через глобальный логгер
func Error() *zerolog.Event {
	return GetGlobal().Error()
}

// Fatal логирует через глобальный логгер и завершает программу
func Fatal() *zerolog.Event {
	return GetGlobal().Fatal()
}

// Component возвращает глобальный логгер с полем component
func Component(name string) *Logger {
	return GetGlobal().WithField("component", name)
}
