// Package camera places the viewer relative to the particle cloud and
// projects world points onto a viewport.
package camera

import (
	"math"

	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/spectrum"
	"github.com/iburimskiy/audio-particles/internal/vmath"
)

// Target is the point the camera always looks at.
var Target = vmath.Vec3{}

// Position sways the camera around the origin. Mid widens the horizontal
// swing and low widens the vertical one.
func Position(elapsed float64, s spectrum.Frame) vmath.Vec3 {
	sway := s.Mid * 12
	return vmath.Vec3{
		X: math.Sin(elapsed*0.2) * (30 + sway*0.8),
		Y: 20 + math.Cos(elapsed*0.15)*(10+s.Low*15),
		Z: config.CameraDistance,
	}
}

// Perspective is a pinhole camera looking from Eye at Target.
type Perspective struct {
	FOV    float64 // vertical, degrees
	Near   float64
	Far    float64
	Width  float64
	Height float64

	eye     vmath.Vec3
	right   vmath.Vec3
	up      vmath.Vec3
	forward vmath.Vec3
	focal   float64
}

// NewPerspective returns the default camera for a viewport size.
func NewPerspective(width, height float64) *Perspective {
	p := &Perspective{
		FOV:  config.CameraFOV,
		Near: config.CameraNear,
		Far:  config.CameraFar,
	}
	p.Resize(width, height)
	p.LookAt(vmath.Vec3{Y: 30, Z: config.CameraDistance}, Target)
	return p
}

// Resize keeps the aspect ratio in step with the viewport.
func (p *Perspective) Resize(width, height float64) {
	if height <= 0 {
		height = 1
	}
	p.Width = width
	p.Height = height
	p.focal = 1 / math.Tan(p.FOV*math.Pi/360)
}

func (p *Perspective) Aspect() float64 {
	return p.Width / p.Height
}

// LookAt orients the camera. World up is +Y.
func (p *Perspective) LookAt(eye, target vmath.Vec3) {
	p.eye = eye
	p.forward = vmath.V3Normalize(vmath.V3Sub(target, eye))
	p.right = vmath.V3Normalize(vmath.V3Cross(p.forward, vmath.Vec3{Y: 1}))
	p.up = vmath.V3Cross(p.right, p.forward)
}

func (p *Perspective) Eye() vmath.Vec3 {
	return p.eye
}

// Project maps a world point to viewport pixels. ok is false for points
// outside the near/far range.
func (p *Perspective) Project(point vmath.Vec3) (x, y, depth float64, ok bool) {
	d := vmath.V3Sub(point, p.eye)
	depth = vmath.V3Dot(d, p.forward)
	if depth < p.Near || depth > p.Far {
		return 0, 0, depth, false
	}
	ndcX := vmath.V3Dot(d, p.right) * p.focal / (p.Aspect() * depth)
	ndcY := vmath.V3Dot(d, p.up) * p.focal / depth
	x = (ndcX + 1) / 2 * p.Width
	y = (1 - ndcY) / 2 * p.Height
	return x, y, depth, true
}

// PointScale is the on-screen diameter of a point of the given size at
// depth, attenuated with distance.
func (p *Perspective) PointScale(size, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return size * p.Height / 2 / depth
}

// FogFactor is the exponential-squared fog amount at depth, 0 = clear.
func FogFactor(depth, density float64) float64 {
	d := density * depth
	return vmath.Clamp(1-math.Exp(-d*d), 0, 1)
}
