package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/audio-particles/internal/config"
)

type button struct {
	label         string
	x, y          int
	width, height int

	hovered  bool
	pressed  bool
	disabled bool
}

func newButton(label string, x, y int) *button {
	return &button{
		label:  label,
		x:      x,
		y:      y,
		width:  config.ButtonWidth,
		height: config.ButtonHeight,
	}
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.width && y >= b.y && y <= b.y+b.height
}

// update tracks hover and press state and reports a completed click.
func (b *button) update(mouseX, mouseY int) bool {
	b.hovered = b.contains(mouseX, mouseY)
	if b.disabled {
		b.pressed = false
		return false
	}

	if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.pressed = true
	}
	clicked := false
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		clicked = b.pressed && b.hovered
		b.pressed = false
	}
	return clicked
}

func (b *button) fill() color.RGBA {
	switch {
	case b.disabled:
		return color.RGBA{R: 50, G: 55, B: 70, A: 255}
	case b.pressed:
		return color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	case b.hovered:
		return color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	}
	return color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
}

func (b *button) draw(screen *ebiten.Image) {
	x, y := float32(b.x), float32(b.y)
	w, h := float32(b.width), float32(b.height)
	vector.DrawFilledRect(screen, x, y, w, h, b.fill(), false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, x, y, w, h, 2, borderColor, false)

	textWidth := len(b.label) * 6 // debug font glyph width
	textX := b.x + (b.width-textWidth)/2
	textY := b.y + (b.height-16)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}
