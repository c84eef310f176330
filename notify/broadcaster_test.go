package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitCall struct {
	room    string
	payload any
}

type fakeEmitter struct {
	mu    sync.Mutex
	calls []emitCall
	err   error
}

func (f *fakeEmitter) Emit(room string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, emitCall{room: room, payload: payload})
	return nil
}

type countObserver struct{ n int }

func (c *countObserver) ObserveAlert() { c.n++ }

func TestSendAlertBeforeStart(t *testing.T) {
	b := NewBroadcaster(nil)

	err := b.SendAlert("early")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, b.Started())
}

func TestStart(t *testing.T) {
	b := NewBroadcaster(nil)

	assert.ErrorIs(t, b.Start(nil), ErrNotInitialized)
	require.NoError(t, b.Start(&fakeEmitter{}))
	assert.True(t, b.Started())
	assert.ErrorIs(t, b.Start(&fakeEmitter{}), ErrAlreadyStarted)
}

func TestSendAlert(t *testing.T) {
	e := &fakeEmitter{}
	obs := &countObserver{}
	b := NewBroadcaster(obs)
	require.NoError(t, b.Start(e))

	require.NoError(t, b.SendAlert(map[string]any{"level": "warn"}))
	require.NoError(t, b.SendAlert("second"))

	require.Len(t, e.calls, 2)
	assert.Equal(t, DefaultRoom, e.calls[0].room)
	assert.Equal(t, map[string]any{"level": "warn"}, e.calls[0].payload)
	assert.Equal(t, "second", e.calls[1].payload)
	assert.Equal(t, 2, obs.n)
}

func TestSendAlertEmitterError(t *testing.T) {
	boom := errors.New("boom")
	obs := &countObserver{}
	b := NewBroadcaster(obs)
	require.NoError(t, b.Start(&fakeEmitter{err: boom}))

	assert.ErrorIs(t, b.SendAlert("x"), boom)
	assert.Zero(t, obs.n)
}
