package capture

import (
	"testing"

	"inikeys/internal/keycode"

	"github.com/stretchr/testify/assert"
)

func TestIdleIgnoresEvents(t *testing.T) {
	c := New()
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Handle(keycode.Event{Key: "a"}))

	_, ok := c.Last()
	assert.False(t, ok)
}

func TestCaptureSuccess(t *testing.T) {
	c := New()
	var got []int
	c.Start(func(code int) { got = append(got, code) })
	assert.True(t, c.Capturing())

	assert.True(t, c.Handle(keycode.Event{Key: "ArrowUp"}))
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []int{38}, got)

	code, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, 38, code)

	// further events are ignored until the next Start
	assert.False(t, c.Handle(keycode.Event{Key: "b"}))
	assert.Equal(t, []int{38}, got)
}

func TestEscapeCancels(t *testing.T) {
	c := New()
	called := false
	c.Start(func(int) { called = true })

	assert.True(t, c.Handle(keycode.Event{Key: "Escape", Code: 27}))
	assert.Equal(t, Idle, c.State())
	assert.False(t, called)

	_, ok := c.Last()
	assert.False(t, ok)
}

func TestUnusableEventKeepsCapturing(t *testing.T) {
	c := New()
	c.Start(nil)

	assert.True(t, c.Handle(keycode.Event{Key: "MediaPlay"}))
	assert.True(t, c.Capturing())

	assert.True(t, c.Handle(keycode.Event{Key: "k"}))
	assert.False(t, c.Capturing())
	code, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, 75, code)
}

func TestStop(t *testing.T) {
	c := New()
	called := false
	c.Start(func(int) { called = true })
	c.Stop()

	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Handle(keycode.Event{Key: "a"}))
	assert.False(t, called)
}

func TestStartClearsLast(t *testing.T) {
	c := New()
	c.Start(nil)
	c.Handle(keycode.Event{Code: 70})
	c.Start(nil)

	_, ok := c.Last()
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "capturing", Capturing.String())
}
