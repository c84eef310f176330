package notify

import (
	"errors"
	"sync"
)

// DefaultRoom is the only room peers are joined to.
const DefaultRoom = "default"

var (
	ErrNotInitialized = errors.New("notify: broadcaster used before the connection layer was started")
	ErrAlreadyStarted = errors.New("notify: broadcaster already started")
	ErrUnknownRoom    = errors.New("notify: unknown room")
)

// Config представляет конфигурацию канала уведомлений
type Config struct {
	Origins  []string `mapstructure:"origins"`
	RedisURL string   `mapstructure:"redis_url"`
	Channel  string   `mapstructure:"channel"`
}

// Emitter delivers a payload to every peer in room.
type Emitter interface {
	Emit(room string, payload any) error
}

// AlertObserver is told about every alert handed to the emitter.
type AlertObserver interface {
	ObserveAlert()
}

// Broadcaster holds the connection-layer handle. It is set once by Start and
// read by every SendAlert.
type Broadcaster struct {
	mu       sync.RWMutex
	emitter  Emitter
	observer AlertObserver
}

// NewBroadcaster returns an unstarted Broadcaster. observer may be nil.
func NewBroadcaster(observer AlertObserver) *Broadcaster {
	return &Broadcaster{observer: observer}
}

// Start sets the emitter. It fails if called twice or with nil.
func (b *Broadcaster) Start(e Emitter) error {
	if e == nil {
		return ErrNotInitialized
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.emitter != nil {
		return ErrAlreadyStarted
	}
	b.emitter = e
	return nil
}

// Started reports whether Start has succeeded.
func (b *Broadcaster) Started() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.emitter != nil
}

// SendAlert broadcasts payload to the default room. It returns
// ErrNotInitialized instead of dropping the alert when Start was not called.
func (b *Broadcaster) SendAlert(payload any) error {
	b.mu.RLock()
	e := b.emitter
	b.mu.RUnlock()

	if e == nil {
		return ErrNotInitialized
	}
	if err := e.Emit(DefaultRoom, payload); err != nil {
		return err
	}
	if b.observer != nil {
		b.observer.ObserveAlert()
	}
	return nil
}
