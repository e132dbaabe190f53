package status

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelStartsIdle(t *testing.T) {
	c := New()
	s, msg := c.Get()
	assert.Equal(t, Idle, s)
	assert.Equal(t, IdleMessage, msg)
}

func TestChannelKeepsOneMessage(t *testing.T) {
	c := New()
	c.Set(Loading, "Loading audio…")
	c.Set(Playing, "Playing: song.mp3")

	assert.Equal(t, Playing, c.State())
	assert.Equal(t, "Playing: song.mp3", c.Message())

	c.Fail(errors.New("Error: boom"))
	assert.Equal(t, Error, c.State())
	assert.Equal(t, "Error: boom", c.Message())
}

func TestChannelConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(Playing, "x")
				_ = c.Message()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, "x", c.Message())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "ended", Ended.String())
	assert.Equal(t, "unknown", State(42).String())
}
