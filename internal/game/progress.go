package game

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	progressBarHeight = 16
	progressBarMargin = 20
	progressBarBottom = 160 // distance of the bar's top from the bottom edge

	seekCooldown  = 50 * time.Millisecond
	seekThreshold = 0.01
)

// progressBar is the scrub control above the HUD.
type progressBar struct {
	x, y          int
	width, height int

	hovered  bool
	dragging bool
	lastSeek time.Time
}

// layout places the bar for a surface of the given size.
func (b *progressBar) layout(screenWidth, screenHeight int) {
	b.x = progressBarMargin
	b.y = screenHeight - progressBarBottom
	b.width = max(screenWidth-2*progressBarMargin, 1)
	b.height = progressBarHeight
}

func (b *progressBar) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.width && y >= b.y && y <= b.y+b.height
}

// fraction maps a cursor x to a position along the bar in [0,1].
func (b *progressBar) fraction(x int) float64 {
	f := float64(x-b.x) / float64(b.width)
	return math.Max(0, math.Min(f, 1))
}

// update handles a click or drag and returns where to seek, if anywhere.
// progress is the current playback fraction; seekable is false while the
// length is unknown.
func (b *progressBar) update(mouseX, mouseY int, justPressed, justReleased bool, progress float64, seekable bool, now time.Time) (float64, bool) {
	b.hovered = b.contains(mouseX, mouseY)
	if !seekable {
		b.dragging = false
		return 0, false
	}

	if b.hovered && justPressed {
		b.dragging = true
		b.lastSeek = now
		return b.fraction(mouseX), true
	}
	if justReleased {
		b.dragging = false
		return 0, false
	}
	if !b.dragging || now.Sub(b.lastSeek) < seekCooldown {
		return 0, false
	}

	// Only seek if the position changed significantly (avoid micro-seeks)
	f := b.fraction(mouseX)
	if math.Abs(f-progress) <= seekThreshold {
		return 0, false
	}
	b.lastSeek = now
	return f, true
}

func (b *progressBar) draw(screen *ebiten.Image, pos, total time.Duration, mouseX, mouseY int) {
	x, y := float32(b.x), float32(b.y)
	w, h := float32(b.width), float32(b.height)

	vector.DrawFilledRect(screen, x, y, w, h, color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	progress := 0.0
	if total > 0 {
		progress = math.Min(float64(pos)/float64(total), 1)
	}
	if progress > 0 {
		r, g, bl := colorful.Hsv(200+progress*60, 0.8, 0.9).RGB255()
		vector.DrawFilledRect(screen, x, y, w*float32(progress), h, color.RGBA{R: r, G: g, B: bl, A: 180}, false)
	}

	indicatorX := x + w*float32(progress)
	vector.DrawFilledCircle(screen, indicatorX, y+h/2, 6, color.RGBA{R: 255, G: 255, B: 255, A: 255}, false)
	vector.StrokeCircle(screen, indicatorX, y+h/2, 6, 2, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)

	current := formatDuration(pos)
	length := formatDuration(total)
	ebitenutil.DebugPrintAt(screen, current, b.x, b.y+b.height+3)
	ebitenutil.DebugPrintAt(screen, length, b.x+b.width-len(length)*6, b.y+b.height+3)

	if !b.hovered {
		return
	}
	tip := formatDuration(time.Duration(b.fraction(mouseX) * float64(total)))
	tipWidth := len(tip)*6 + 10
	tipX := max(0, min(mouseX-tipWidth/2, b.x+b.width-tipWidth))
	tipY := b.y - 22
	vector.DrawFilledRect(screen, float32(tipX), float32(tipY), float32(tipWidth), 18, color.RGBA{R: 0, G: 0, B: 0, A: 200}, false)
	vector.StrokeRect(screen, float32(tipX), float32(tipY), float32(tipWidth), 18, 1, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, tip, tipX+5, tipY+1)
}
