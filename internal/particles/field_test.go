package particles

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/spectrum"
	"github.com/iburimskiy/audio-particles/internal/vmath"
)

func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func randomFrame(rng *rand.Rand) spectrum.Frame {
	return spectrum.Frame{Low: rng.Float64(), Mid: rng.Float64(), High: rng.Float64(), Overall: rng.Float64()}
}

func assertInvariants(t *testing.T, f *Field) {
	t.Helper()
	for i, p := range f.Particles {
		require.InDelta(t, 1.0, vmath.V3Mag(p.Direction), 1e-9, "direction %d", i)
		for _, v := range []float64{p.Position.X, p.Position.Y, p.Position.Z} {
			require.GreaterOrEqual(t, v, -config.BoundaryLimit, "position %d", i)
			require.LessOrEqual(t, v, config.BoundaryLimit, "position %d", i)
		}
		for _, c := range []float64{p.Color.X, p.Color.Y, p.Color.Z} {
			require.GreaterOrEqual(t, c, 0.0, "color %d", i)
			require.LessOrEqual(t, c, 1.0, "color %d", i)
		}
	}
}

func TestNewSeedsInsideSphere(t *testing.T) {
	f := New(2000, 1.4, newRNG())
	require.Equal(t, 2000, f.Len())
	assert.Equal(t, 1.4, f.PointSize)
	assert.Equal(t, 0.9, f.Opacity)
	assert.True(t, f.Dirty())

	for _, p := range f.Particles {
		assert.LessOrEqual(t, vmath.V3Mag(p.Position), config.SeedRadius+1e-9)
	}
	assertInvariants(t, f)
}

func TestUpdateKeepsInvariants(t *testing.T) {
	rng := newRNG()
	f := New(1000, 1.4, rng)
	p := config.Default()
	p.Speed = 8
	p.ColorSensitivity = 50

	elapsed := 0.0
	for step := 0; step < 300; step++ {
		delta := rng.Float64() * 0.1
		elapsed += delta
		f.Update(delta, elapsed, randomFrame(rng), p)
		assertInvariants(t, f)
	}
}

func TestUpdatePureTranslationWhenSilent(t *testing.T) {
	f := New(1, 1.4, newRNG())
	f.Particles[0].Position = vmath.Vec3{}
	f.Particles[0].Direction = vmath.Vec3{X: 1}

	p := config.Default()
	f.Update(1.0/60, 0, spectrum.Frame{}, p)

	got := f.Particles[0]
	assert.InDelta(t, p.Velocity*p.Speed, got.Position.X, 1e-9)
	assert.InDelta(t, 0, got.Position.Y, 1e-12)
	assert.InDelta(t, 0, got.Position.Z, 1e-12)
	assert.Equal(t, vmath.Vec3{X: 1}, got.Direction)
}

func TestUpdateWrapsAtBoundary(t *testing.T) {
	f := New(3, 1.4, newRNG())
	for i := range f.Particles {
		f.Particles[i].Direction = vmath.Vec3{X: 1}
	}
	f.Particles[0].Position = vmath.Vec3{X: 261}
	f.Particles[1].Position = vmath.Vec3{Y: -261}
	f.Particles[2].Position = vmath.Vec3{X: 259}

	p := config.Default()
	p.Velocity = 1
	p.Speed = 2 // moves 2 units per 1/60s frame

	f.Particles[0].Direction = vmath.Vec3{Z: 1}
	f.Update(1.0/60, 0, spectrum.Frame{}, p)

	assert.Equal(t, -config.BoundaryLimit, f.Particles[0].Position.X)
	assert.Equal(t, config.BoundaryLimit, f.Particles[1].Position.Y)
	assert.Equal(t, -config.BoundaryLimit, f.Particles[2].Position.X, "259 + 2 teleports instead of clamping")
}

func TestColorsStayInRange(t *testing.T) {
	rng := newRNG()
	f := New(200, 1.4, rng)
	for _, cs := range []float64{0, 0.5, 1.5, 10, 1e6} {
		p := config.Default()
		p.ColorSensitivity = cs
		for _, s := range []spectrum.Frame{{}, {Low: 1, Mid: 1, High: 1, Overall: 1}, randomFrame(rng)} {
			f.Update(1.0/60, rng.Float64()*100, s, p)
			assertInvariants(t, f)
		}
	}
}

func TestSilentColorsAreBase(t *testing.T) {
	f := New(5, 1.4, newRNG())
	f.Update(1.0/60, 3, spectrum.Frame{}, config.Default())
	for _, p := range f.Particles {
		assert.InDelta(t, 0.15, p.Color.X, 1e-12)
		assert.InDelta(t, 0.18, p.Color.Y, 1e-12)
		assert.InDelta(t, 0.25, p.Color.Z, 1e-12)
	}
}

func TestPointSizeEasesTowardsTarget(t *testing.T) {
	p := config.Default()
	f := New(1, p.Scale, newRNG())

	loud := spectrum.Frame{Low: 1, Overall: 1}
	target := p.Scale * 2
	f.Update(1.0/60, 0, loud, p)
	assert.InDelta(t, p.Scale+(target-p.Scale)*0.18, f.PointSize, 1e-12)

	for i := 0; i < 200; i++ {
		f.Update(1.0/60, 0, loud, p)
	}
	assert.InDelta(t, target, f.PointSize, 1e-9)

	f.SetPixelRatio(2)
	for i := 0; i < 200; i++ {
		f.Update(1.0/60, 0, loud, p)
	}
	assert.InDelta(t, target*1.5, f.PointSize, 1e-9)
}

func TestOpacity(t *testing.T) {
	assert.InDelta(t, 0.4, Opacity(0, 3), 1e-12)
	assert.InDelta(t, 0.64, Opacity(1, 3), 1e-12)
	assert.Equal(t, 1.0, Opacity(1, 100))

	f := New(1, 1.4, newRNG())
	f.Update(1.0/60, 0, spectrum.Frame{}, config.Default())
	assert.InDelta(t, 0.4, f.Opacity, 1e-12)
}

func TestDirtyTracking(t *testing.T) {
	f := New(1, 1.4, newRNG())
	f.MarkClean()
	assert.False(t, f.Dirty())
	f.Update(0, 0, spectrum.Frame{}, config.Default())
	assert.True(t, f.Dirty())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, -260.0, wrap(261, 260))
	assert.Equal(t, 260.0, wrap(-260.5, 260))
	assert.Equal(t, 260.0, wrap(260, 260))
	assert.Equal(t, 12.5, wrap(12.5, 260))
	assert.False(t, math.IsNaN(wrap(0, 260)))
}
