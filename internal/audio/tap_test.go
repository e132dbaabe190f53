package audio

import (
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
)

// counter streams 1, 2, 3, ... on both channels.
func counter(limit int) beep.Streamer {
	next := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if next >= limit {
			return 0, false
		}
		n := 0
		for i := range samples {
			if next >= limit {
				break
			}
			next++
			samples[i] = [2]float64{float64(next), float64(next)}
			n++
		}
		return n, true
	})
}

func TestVisualTapEmpty(t *testing.T) {
	tap := newVisualTap(counter(0), 8)
	assert.Empty(t, tap.Samples(4))
}

func TestVisualTapPartial(t *testing.T) {
	tap := newVisualTap(counter(100), 8)
	n, ok := tap.Stream(make([][2]float64, 3))
	assert.Equal(t, 3, n)
	assert.True(t, ok)

	assert.Equal(t, []float64{1, 2, 3}, tap.Samples(8))
	assert.Equal(t, []float64{2, 3}, tap.Samples(2))
}

func TestVisualTapWraps(t *testing.T) {
	tap := newVisualTap(counter(100), 4)
	buf := make([][2]float64, 3)
	tap.Stream(buf)
	tap.Stream(buf)
	tap.Stream(buf)

	assert.Equal(t, []float64{6, 7, 8, 9}, tap.Samples(10))
	assert.Equal(t, []float64{8, 9}, tap.Samples(2))
}

func TestVisualTapMixesToMono(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 0}
		}
		return len(samples), true
	})
	tap := newVisualTap(src, 4)
	tap.Stream(make([][2]float64, 2))
	assert.Equal(t, []float64{0.5, 0.5}, tap.Samples(2))
}
