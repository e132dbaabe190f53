package vmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestV3Normalize(t *testing.T) {
	v := V3Normalize(Vec3{3, 4, 0})
	assert.InDelta(t, 0.6, v.X, 1e-12)
	assert.InDelta(t, 0.8, v.Y, 1e-12)
	assert.InDelta(t, 1.0, V3Mag(v), 1e-12)

	// zero length falls back to a divisor of one
	assert.Equal(t, Vec3{}, V3Normalize(Vec3{}))
}

func TestV3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	assert.Equal(t, Vec3{0, 0, 1}, V3Cross(x, y))
	assert.Equal(t, Vec3{0, 0, -1}, V3Cross(y, x))
}

func TestClampAndLerp(t *testing.T) {
	assert.Equal(t, 0.35, Clamp(0.1, 0.35, 1))
	assert.Equal(t, 1.0, Clamp(3, 0.35, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))

	assert.InDelta(t, 1.18, Lerp(1, 2, 0.18), 1e-12)
	assert.Equal(t, 2.0, Lerp(2, 2, 0.18))
}
