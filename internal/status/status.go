// Package status holds the single human-readable message shown to the user.
package status

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type State int

const (
	Idle State = iota
	Loading
	Playing
	Paused
	Ended
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case Error:
		return "error"
	}
	return "unknown"
}

const IdleMessage = "Open an MP3 (O) or load a YouTube URL (U) to begin."

// Channel keeps exactly one message; each Set replaces the previous one.
type Channel struct {
	mu      sync.RWMutex
	state   State
	message string
}

func New() *Channel {
	return &Channel{state: Idle, message: IdleMessage}
}

func (c *Channel) Set(state State, message string) {
	c.mu.Lock()
	c.state = state
	c.message = message
	c.mu.Unlock()

	entry := logrus.WithFields(logrus.Fields{
		"function": "Status.Set",
		"state":    state.String(),
	})
	if state == Error {
		entry.Warn(message)
		return
	}
	entry.Info(message)
}

// Fail reports err as the current message.
func (c *Channel) Fail(err error) {
	c.Set(Error, err.Error())
}

func (c *Channel) Get() (State, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.message
}

func (c *Channel) Message() string {
	_, msg := c.Get()
	return msg
}

func (c *Channel) State() State {
	s, _ := c.Get()
	return s
}
