package term

import (
	"math/rand/v2"
	"testing"

	"github.com/faiface/beep"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/audio-particles/internal/audio"
	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/loop"
	"github.com/iburimskiy/audio-particles/internal/status"
)

type nopPlayer struct{}

func (nopPlayer) Init() error                 { return nil }
func (nopPlayer) SampleRate() beep.SampleRate { return audio.OutputRate }
func (nopPlayer) Play(beep.Streamer)          {}
func (nopPlayer) Clear()                      {}
func (nopPlayer) Lock()                       {}
func (nopPlayer) Unlock()                     {}

func newTestDisplay(t *testing.T, cols, rows int) (*Display, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	st := status.New()
	m := audio.NewManager(audio.NewSession(nopPlayer{}), st, nil)
	t.Cleanup(m.Close)

	p := config.Default()
	p.ParticleCount = 2000
	l := loop.New(p, nil, rand.New(rand.NewPCG(3, 4)), float64(cols), float64(rows))

	d := New(screen, l, m, st)
	d.resize()
	return d, screen
}

func TestResizeReservesStatusRow(t *testing.T) {
	d, _ := newTestDisplay(t, 80, 25)

	assert.Equal(t, 80.0, d.loop.Camera.Width)
	assert.Equal(t, 48.0, d.loop.Camera.Height)
}

func TestAccumulate(t *testing.T) {
	sprites := []loop.Sprite{
		{X: 1.5, Y: 3.9, R: 1, A: 1},
		{X: 1.2, Y: 2.1, R: 1, G: 1, A: 0.5},
		{X: -1, Y: 0, R: 1, A: 1},
		{X: 4, Y: 0, R: 1, A: 1},
		{X: 0, Y: 6, R: 1, A: 1},
	}

	cells := accumulate(nil, sprites, 4, 3)
	require.Len(t, cells, 12)

	c := cells[1*4+1]
	assert.InDelta(t, cellWeight*1.5, c.r, 1e-12)
	assert.InDelta(t, cellWeight*0.5, c.g, 1e-12)
	assert.Zero(t, c.b)

	lit := 0
	for _, c := range cells {
		if c != (cell{}) {
			lit++
		}
	}
	assert.Equal(t, 1, lit)
}

func TestAccumulateReusesBuffer(t *testing.T) {
	buf := accumulate(nil, []loop.Sprite{{X: 0, Y: 0, R: 1, A: 1}}, 2, 2)
	buf = accumulate(buf, nil, 2, 2)
	for _, c := range buf {
		assert.Equal(t, cell{}, c)
	}
}

func TestShade(t *testing.T) {
	ch, _ := shade(cell{})
	assert.Equal(t, ' ', ch)

	ch, style := shade(cell{r: 10, g: 10, b: 10})
	assert.Equal(t, '#', ch)
	fg, _, _ := style.Decompose()
	r, g, b := fg.RGB()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
	assert.Greater(t, r, int32(250))

	dim, _ := shade(cell{b: 0.2})
	assert.NotEqual(t, '#', dim)
}

func TestTone(t *testing.T) {
	assert.Equal(t, 0.0, tone(0))
	assert.Less(t, tone(100), 1.0+1e-12)
	assert.Greater(t, tone(2), tone(1))
}

func TestHandleRune(t *testing.T) {
	d, _ := newTestDisplay(t, 40, 12)

	assert.True(t, d.handleRune(']'))
	assert.Equal(t, 3000, d.loop.Params.ParticleCount)
	assert.True(t, d.handleRune('['))
	assert.True(t, d.handleRune('['))
	assert.Equal(t, config.ParticleCountStep, d.loop.Params.ParticleCount)

	speed := d.loop.Params.Speed
	assert.True(t, d.handleRune('='))
	assert.InDelta(t, speed*1.1, d.loop.Params.Speed, 1e-12)

	assert.True(t, d.handleRune(' '))
	assert.False(t, d.handleRune('q'))
}

func TestDrawShowsStatus(t *testing.T) {
	d, screen := newTestDisplay(t, 80, 10)

	d.loop.Step(1.0/60, 1.0/60)
	d.draw()

	var got []rune
	for x := 0; x < len(status.IdleMessage); x++ {
		r, _, _, _ := screen.GetContent(x, 9)
		got = append(got, r)
	}
	assert.Equal(t, status.IdleMessage, string(got))

	lit := 0
	for y := 0; y < 9; y++ {
		for x := 0; x < 80; x++ {
			if r, _, _, _ := screen.GetContent(x, y); r != ' ' {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}
