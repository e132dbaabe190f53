package loop

import (
	"github.com/iburimskiy/audio-particles/internal/camera"
	"github.com/iburimskiy/audio-particles/internal/config"
)

// Sprite is a projected particle ready for additive drawing. Colour is
// already attenuated by fog; A is the cloud opacity.
type Sprite struct {
	X, Y    float64
	Size    float64
	R, G, B float64
	A       float64
}

// Sprites projects the field into dst, reusing its storage. Points outside
// the view are skipped.
func (l *Loop) Sprites(dst []Sprite) []Sprite {
	dst = dst[:0]
	cam := l.Camera
	f := l.Field
	for i := range f.Particles {
		p := &f.Particles[i]
		x, y, depth, ok := cam.Project(p.Position)
		if !ok || x < 0 || y < 0 || x > cam.Width || y > cam.Height {
			continue
		}
		vis := 1 - camera.FogFactor(depth, config.FogDensity)
		dst = append(dst, Sprite{
			X:    x,
			Y:    y,
			Size: cam.PointScale(f.PointSize, depth),
			R:    p.Color.X * vis,
			G:    p.Color.Y * vis,
			B:    p.Color.Z * vis,
			A:    f.Opacity,
		})
	}
	f.MarkClean()
	return dst
}
