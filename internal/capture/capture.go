// Package capture implements the "press a key to bind it" interaction as a
// two-state machine: Idle and Capturing.
package capture

import (
	"sync"

	"inikeys/internal/keycode"
)

// State is the capture state.
type State int

const (
	Idle State = iota
	Capturing
)

func (s State) String() string {
	if s == Capturing {
		return "capturing"
	}
	return "idle"
}

// Capturer turns the next usable key event into a key code. It is safe for
// concurrent use.
type Capturer struct {
	mu        sync.Mutex
	state     State
	last      int
	hasLast   bool
	onCapture func(code int)
}

func New() *Capturer {
	return &Capturer{}
}

// Start begins capturing. onCapture, if not nil, receives the captured code.
func (c *Capturer) Start(onCapture func(code int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Capturing
	c.hasLast = false
	c.last = keycode.None
	c.onCapture = onCapture
}

// Stop returns to Idle without capturing anything.
func (c *Capturer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Capturer) stopLocked() {
	c.state = Idle
	c.onCapture = nil
}

// Handle feeds a key event to the machine and reports whether it was
// consumed. Events are ignored while Idle. Escape cancels the capture; an
// event that resolves to no usable code is swallowed and capture continues.
func (c *Capturer) Handle(ev keycode.Event) bool {
	c.mu.Lock()
	if c.state != Capturing {
		c.mu.Unlock()
		return false
	}

	if ev.Key == "Escape" {
		c.stopLocked()
		c.mu.Unlock()
		return true
	}

	code := keycode.EventToCode(ev)
	if code == keycode.None {
		c.mu.Unlock()
		return true
	}

	c.last = code
	c.hasLast = true
	cb := c.onCapture
	c.stopLocked()
	c.mu.Unlock()

	if cb != nil {
		cb(code)
	}
	return true
}

// State returns the current state.
func (c *Capturer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Capturing reports whether a capture is in progress.
func (c *Capturer) Capturing() bool {
	return c.State() == Capturing
}

// Last returns the most recently captured code since the last Start.
func (c *Capturer) Last() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.hasLast
}
