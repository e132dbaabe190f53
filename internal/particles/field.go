// Package particles owns the kinematic and colour state of the point cloud.
package particles

import (
	"math"
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/spectrum"
	"github.com/iburimskiy/audio-particles/internal/vmath"
)

const (
	sizeEase       = 0.18
	initialOpacity = 0.9
)

// Particle is one point of the cloud. Direction is unit length and every
// Color channel is in [0,1].
type Particle struct {
	Position  vmath.Vec3
	Direction vmath.Vec3
	Color     vmath.Vec3
}

// Field is a fixed-size particle cloud. It is never resized; a new count
// means a new Field.
type Field struct {
	Particles []Particle

	// PointSize is eased towards its audio-driven target every update.
	PointSize float64
	Opacity   float64

	pixelFactor float64
	dirty       bool
}

// New seeds count particles uniformly inside a sphere with random headings
// and a blue-ish palette.
func New(count int, scale float64, rng *rand.Rand) *Field {
	ps := make([]Particle, count)
	for i := range ps {
		theta := rng.Float64() * math.Pi * 2
		phi := math.Acos(rng.Float64()*2 - 1)
		r := config.SeedRadius * math.Cbrt(rng.Float64())

		ps[i].Position = vmath.Vec3{
			X: r * math.Sin(phi) * math.Cos(theta),
			Y: r * math.Sin(phi) * math.Sin(theta),
			Z: r * math.Cos(phi),
		}

		dir := vmath.Vec3{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1, Z: rng.Float64()*2 - 1}
		if vmath.V3Mag(dir) == 0 {
			dir.X = 1
		}
		ps[i].Direction = vmath.V3Normalize(dir)

		c := colorful.Hsl((0.58+rng.Float64()*0.1)*360, 0.6, 0.55).Clamped()
		ps[i].Color = vmath.Vec3{X: c.R, Y: c.G, Z: c.B}
	}

	return &Field{
		Particles:   ps,
		PointSize:   scale,
		Opacity:     initialOpacity,
		pixelFactor: 1,
		dirty:       true,
	}
}

func (f *Field) Len() int {
	return len(f.Particles)
}

// SetPixelRatio records the display's device scale factor. Dense displays
// get larger points.
func (f *Field) SetPixelRatio(ratio float64) {
	if ratio > 1 {
		f.pixelFactor = 1.5
		return
	}
	f.pixelFactor = 1
}

// Dirty reports whether positions or colours changed since MarkClean.
func (f *Field) Dirty() bool {
	return f.dirty
}

func (f *Field) MarkClean() {
	f.dirty = false
}

// Update advances every particle by delta seconds. elapsed is the time since
// the field's clock started.
func (f *Field) Update(delta, elapsed float64, s spectrum.Frame, p config.RenderParams) {
	audioBoost := 1 + s.Overall*p.AudioSensitivity
	baseMove := p.Speed * delta * 60
	driftStrength := s.High * p.Velocity * 0.4
	movement := p.Velocity * baseMove * audioBoost

	for i := range f.Particles {
		pt := &f.Particles[i]
		idx := float64(i * 3)
		fi := float64(i)

		dir := pt.Direction
		dir.X += (math.Sin(elapsed*0.6+idx)*0.5 - 0.25) * driftStrength * delta
		dir.Y += (math.Cos(elapsed*0.4+idx)*0.5 - 0.25) * driftStrength * delta
		dir.Z += (math.Sin(elapsed*0.7+idx)*0.5 - 0.25) * driftStrength * delta
		dir = vmath.V3Normalize(dir)
		pt.Direction = dir

		pos := vmath.V3Add(pt.Position, vmath.V3Scale(dir, movement))
		pos.X += math.Sin(elapsed*0.5+fi*0.002) * s.Mid * 8 * delta
		pos.Y += math.Cos(elapsed*0.3+fi*0.0025) * s.Low * 9 * delta
		pos.Z += math.Sin(elapsed*0.4+fi*0.0015) * s.High * 10 * delta

		pos.X = wrap(pos.X, config.BoundaryLimit)
		pos.Y = wrap(pos.Y, config.BoundaryLimit)
		pos.Z = wrap(pos.Z, config.BoundaryLimit)
		pt.Position = pos

		noise := (math.Sin(elapsed+fi*0.01) + 1) * 0.5
		cs := p.ColorSensitivity
		pt.Color = vmath.Vec3{
			X: vmath.Clamp(0.15+s.Low*cs*(0.5+noise), 0, 1),
			Y: vmath.Clamp(0.18+s.Mid*cs*(1-noise*0.5), 0, 1),
			Z: vmath.Clamp(0.25+s.High*cs*(0.3+noise), 0, 1),
		}
	}
	f.dirty = true

	target := p.Scale * f.pixelFactor * (1 + s.Low*0.6 + s.Overall*0.4)
	f.PointSize = vmath.Lerp(f.PointSize, target, sizeEase)
	f.Opacity = Opacity(s.Overall, p.AudioSensitivity)
}

// Opacity is the cloud's alpha for the given overall level.
func Opacity(overall, audioSensitivity float64) float64 {
	return vmath.Clamp(0.4+overall*audioSensitivity*0.08, 0.35, 1)
}

// wrap teleports v to the opposite face once it leaves [-limit, limit].
func wrap(v, limit float64) float64 {
	if v > limit {
		return -limit
	}
	if v < -limit {
		return limit
	}
	return v
}
