// Package term draws the particle cloud into a terminal. Each cell covers
// one pixel column and two pixel rows of the projected view.
package term

import (
	"context"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/audio-particles/internal/audio"
	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/loop"
	"github.com/iburimskiy/audio-particles/internal/status"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

// cellWeight is how much one sprite adds to the cell it lands in.
const cellWeight = 0.35

var glyphs = []rune{' ', '.', ':', '*', '#'}

type Display struct {
	screen  tcell.Screen
	loop    *loop.Loop
	clock   loop.Clock
	manager *audio.Manager
	status  *status.Channel

	sprites []loop.Sprite
	cells   []cell
	width   int
	height  int
}

// cell is the additive light gathered in one terminal cell.
type cell struct {
	r, g, b float64
}

func New(screen tcell.Screen, l *loop.Loop, m *audio.Manager, st *status.Channel) *Display {
	return &Display{
		screen:  screen,
		loop:    l,
		clock:   loop.NewWallClock(nil),
		manager: m,
		status:  st,
	}
}

// Run draws until ctx ends or the user quits. It owns the screen and
// finalises it on return.
func (d *Display) Run(ctx context.Context) error {
	if err := d.screen.Init(); err != nil {
		return err
	}
	defer d.screen.Fini()
	d.resize()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !d.handleInput(ev) {
				logrus.WithFields(logrus.Fields{
					"function": "Display.Run",
				}).Info("Terminal display closed")
				return nil
			}
		case <-ticker.C:
			d.manager.Poll()
			d.loop.Tick(d.clock)
			d.draw()
		}
	}
}

func (d *Display) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		return d.handleRune(ev.Rune())

	case *tcell.EventResize:
		d.resize()
		d.screen.Sync()
	}
	return true
}

// handleRune applies a key press and reports whether to keep running.
func (d *Display) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case ' ':
		d.manager.TogglePause()
	case ']':
		d.loop.AdjustParticleCount(config.ParticleCountStep)
	case '[':
		d.loop.AdjustParticleCount(-config.ParticleCountStep)
	case '=':
		loop.Scale(&d.loop.Params.Speed, 1.1)
	case '-':
		loop.Scale(&d.loop.Params.Speed, 1/1.1)
	case '.':
		loop.Scale(&d.loop.Params.AudioSensitivity, 1.1)
	case ',':
		loop.Scale(&d.loop.Params.AudioSensitivity, 1/1.1)
	}
	return true
}

// resize keeps the bottom row for the status line.
func (d *Display) resize() {
	d.width, d.height = d.screen.Size()
	rows := max(d.height-1, 1)
	d.loop.Resize(float64(d.width), float64(rows*2))
}

func (d *Display) draw() {
	rows := max(d.height-1, 0)
	d.sprites = d.loop.Sprites(d.sprites)
	d.cells = accumulate(d.cells, d.sprites, d.width, rows)

	d.screen.Clear()
	for y := 0; y < rows; y++ {
		for x := 0; x < d.width; x++ {
			ch, style := shade(d.cells[y*d.width+x])
			if ch != ' ' {
				d.screen.SetContent(x, y, ch, nil, style)
			}
		}
	}
	d.drawStatus(rows)
	d.screen.Show()
}

func (d *Display) drawStatus(row int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	x := 0
	for _, r := range d.status.Message() {
		if x >= d.width {
			break
		}
		d.screen.SetContent(x, row, r, nil, style)
		x++
	}
}

// accumulate adds every sprite's light to its cell. Sprite y is in pixel
// rows, two per cell.
func accumulate(dst []cell, sprites []loop.Sprite, width, rows int) []cell {
	n := width * rows
	if cap(dst) < n {
		dst = make([]cell, n)
	}
	dst = dst[:n]
	clear(dst)

	for _, s := range sprites {
		x, y := int(s.X), int(s.Y/2)
		if x < 0 || y < 0 || x >= width || y >= rows {
			continue
		}
		w := cellWeight * s.A
		c := &dst[y*width+x]
		c.r += s.R * w
		c.g += s.G * w
		c.b += s.B * w
	}
	return dst
}

// shade tone-maps a cell to a glyph and colour. Dim cells are blank.
func shade(c cell) (rune, tcell.Style) {
	col := colorful.Color{R: tone(c.r), G: tone(c.g), B: tone(c.b)}.Clamped()
	_, _, l := col.Hsl()

	i := int(l * float64(len(glyphs)) * 1.6)
	i = max(0, min(i, len(glyphs)-1))
	if i == 0 {
		return ' ', tcell.StyleDefault
	}

	r, g, b := col.RGB255()
	return glyphs[i], tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

// tone compresses unbounded additive light into [0,1).
func tone(v float64) float64 {
	return 1 - math.Exp(-v)
}
