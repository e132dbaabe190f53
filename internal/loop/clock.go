package loop

import "time"

// Clock drives the render loop. Tick returns the seconds since the previous
// tick and since the clock started.
type Clock interface {
	Tick() (delta, elapsed float64)
}

// FixedClock advances by Step on every tick. Displays with a fixed update
// rate use it, and so do tests.
type FixedClock struct {
	Step    float64
	elapsed float64
}

func NewFixedClock(tps int) *FixedClock {
	return &FixedClock{Step: 1 / float64(tps)}
}

func (c *FixedClock) Tick() (float64, float64) {
	c.elapsed += c.Step
	return c.Step, c.elapsed
}

// WallClock measures real time. The first tick has a zero delta.
type WallClock struct {
	now   func() time.Time
	start time.Time
	last  time.Time
}

func NewWallClock(now func() time.Time) *WallClock {
	if now == nil {
		now = time.Now
	}
	return &WallClock{now: now}
}

func (c *WallClock) Tick() (float64, float64) {
	t := c.now()
	if c.start.IsZero() {
		c.start, c.last = t, t
		return 0, 0
	}
	delta := t.Sub(c.last).Seconds()
	c.last = t
	return delta, t.Sub(c.start).Seconds()
}
