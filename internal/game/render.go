package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/audio-particles/internal/loop"
)

const dotSize = 32

// softDot is a white disc with a quadratic falloff, drawn once per
// particle and tinted through ColorScale.
func softDot() *ebiten.Image {
	pix := make([]byte, dotSize*dotSize*4)
	c := float64(dotSize-1) / 2
	for y := 0; y < dotSize; y++ {
		for x := 0; x < dotSize; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c) / c
			a := dotAlpha(d)
			i := (y*dotSize + x) * 4
			v := byte(a * 255)
			// premultiplied
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	img := ebiten.NewImage(dotSize, dotSize)
	img.WritePixels(pix)
	return img
}

// dotAlpha is the coverage at normalised distance d from the centre.
func dotAlpha(d float64) float64 {
	if d >= 1 {
		return 0
	}
	return (1 - d) * (1 - d)
}

// spriteScale is the premultiplied tint for s.
func spriteScale(s loop.Sprite) (r, g, b, a float32) {
	a = float32(s.A)
	return float32(s.R) * a, float32(s.G) * a, float32(s.B) * a, a
}

func (g *Game) drawParticles(screen *ebiten.Image) {
	if g.dot == nil {
		g.dot = softDot()
	}
	g.sprites = g.loop.Sprites(g.sprites)

	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendLighter
	op.Filter = ebiten.FilterLinear
	for _, s := range g.sprites {
		size := max(s.Size, 1)
		k := size / dotSize
		op.GeoM.Reset()
		op.GeoM.Scale(k, k)
		op.GeoM.Translate(s.X-size/2, s.Y-size/2)
		op.ColorScale.Reset()
		op.ColorScale.Scale(spriteScale(s))
		screen.DrawImage(g.dot, op)
	}
}

// drawHUD shows the band levels and the tunable params in the bottom-left
// corner, with the scrub bar above them. Streams of unknown length get a
// position label instead of the bar.
func (g *Game) drawHUD(screen *ebiten.Image) {
	f := g.loop.Last()
	p := g.loop.Params

	x, y := 20, g.height-110
	bands := []struct {
		label string
		value float64
		color color.RGBA
	}{
		{"Low", f.Spectrum.Low, color.RGBA{R: 220, G: 90, B: 90, A: 255}},
		{"Mid", f.Spectrum.Mid, color.RGBA{R: 90, G: 200, B: 120, A: 255}},
		{"High", f.Spectrum.High, color.RGBA{R: 90, G: 140, B: 230, A: 255}},
		{"All", f.Spectrum.Overall, color.RGBA{R: 200, G: 200, B: 210, A: 255}},
	}
	const barWidth, barHeight = 160, 8
	for i, b := range bands {
		by := y + i*14
		ebitenutil.DebugPrintAt(screen, b.label, x, by-5)
		vector.DrawFilledRect(screen, float32(x+36), float32(by), barWidth, barHeight, color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
		vector.DrawFilledRect(screen, float32(x+36), float32(by), float32(barWidth*b.value), barHeight, b.color, false)
	}

	params := fmt.Sprintf("particles %d  speed %.2f  audio %.2f  [ ] - = , .",
		p.ParticleCount, p.Speed, p.AudioSensitivity)
	ebitenutil.DebugPrintAt(screen, params, x, y+58)

	pos, total, ok := g.manager.Session().Progress()
	switch {
	case ok && total > 0:
		mouseX, mouseY := ebiten.CursorPosition()
		g.progress.draw(screen, pos, total, mouseX, mouseY)
	case ok:
		ebitenutil.DebugPrintAt(screen, progressLabel(pos, total), x, y+74)
	}
}
