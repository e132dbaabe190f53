// Package loop is the display-independent render loop: it samples the
// spectrum, advances the particle field and moves the camera once per tick.
package loop

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/audio-particles/internal/camera"
	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/particles"
	"github.com/iburimskiy/audio-particles/internal/spectrum"
	"github.com/iburimskiy/audio-particles/internal/vmath"
)

// Frame records what the last step computed.
type Frame struct {
	Delta    float64
	Elapsed  float64
	Spectrum spectrum.Frame
	Eye      vmath.Vec3
}

// Loop owns the particle field; nothing else writes it.
type Loop struct {
	Params config.RenderParams
	Field  *particles.Field
	Camera *camera.Perspective

	extractor  *spectrum.Extractor
	rng        *rand.Rand
	pixelRatio float64
	last       Frame
}

func New(params config.RenderParams, src spectrum.FrequencySource, rng *rand.Rand, width, height float64) *Loop {
	l := &Loop{
		Params:     params,
		Camera:     camera.NewPerspective(width, height),
		extractor:  spectrum.NewExtractor(src),
		rng:        rng,
		pixelRatio: 1,
	}
	l.rebuild()
	return l
}

// rebuild replaces the field wholesale.
func (l *Loop) rebuild() {
	l.Field = particles.New(l.Params.ParticleCount, l.Params.Scale, l.rng)
	l.Field.SetPixelRatio(l.pixelRatio)

	logrus.WithFields(logrus.Fields{
		"function": "Loop.rebuild",
		"count":    l.Params.ParticleCount,
	}).Info("Particle field created")
}

// Tick reads the clock and steps.
func (l *Loop) Tick(c Clock) Frame {
	delta, elapsed := c.Tick()
	return l.Step(delta, elapsed)
}

// Step runs one frame: spectrum, field, camera.
func (l *Loop) Step(delta, elapsed float64) Frame {
	if l.Field.Len() != l.Params.ParticleCount {
		l.rebuild()
	}

	s := l.extractor.Frame()
	l.Field.Update(delta, elapsed, s, l.Params)

	eye := camera.Position(elapsed, s)
	l.Camera.LookAt(eye, camera.Target)

	l.last = Frame{Delta: delta, Elapsed: elapsed, Spectrum: s, Eye: eye}
	return l.last
}

// Last is the most recent frame.
func (l *Loop) Last() Frame {
	return l.last
}

func (l *Loop) SetPixelRatio(ratio float64) {
	if ratio == l.pixelRatio {
		return
	}
	l.pixelRatio = ratio
	l.Field.SetPixelRatio(ratio)
}

func (l *Loop) Resize(width, height float64) {
	if width == l.Camera.Width && height == l.Camera.Height {
		return
	}
	l.Camera.Resize(width, height)
}

// AdjustParticleCount changes the count by delta within the allowed range.
// The field is reallocated on the next step.
func (l *Loop) AdjustParticleCount(delta int) {
	n := l.Params.ParticleCount + delta
	n = max(config.MinParticleCount, min(n, config.MaxParticleCount))
	l.Params.ParticleCount = n
}

// Scale multiplies a float param, keeping it non-negative.
func Scale(v *float64, factor float64) {
	*v = max(0, *v*factor)
}
