// Package spectrum reduces frequency-magnitude data to the four band scalars
// that drive the particle field.
package spectrum

import "github.com/iburimskiy/audio-particles/internal/vmath"

const maxByte = 255.0

// Frame is one frame's spectrum summary. Every field is in [0,1].
type Frame struct {
	Low     float64
	Mid     float64
	High    float64
	Overall float64
}

// Extract splits data into low/mid/high thirds by index and averages each
// band. An empty buffer is the silent frame.
func Extract(data []byte) Frame {
	length := len(data)
	if length == 0 {
		return Frame{}
	}

	lowEnd := int(float64(length) * 0.33)
	midEnd := int(float64(length) * 0.66)
	lowScale := divisor(lowEnd)
	midScale := divisor(midEnd - lowEnd)
	highScale := divisor(length - midEnd)

	var low, mid, high, total float64
	for i, b := range data {
		value := float64(b) / maxByte
		total += value
		switch {
		case i < lowEnd:
			low += value
		case i < midEnd:
			mid += value
		default:
			high += value
		}
	}

	return Frame{
		Low:     vmath.Clamp(low/lowScale, 0, 1),
		Mid:     vmath.Clamp(mid/midScale, 0, 1),
		High:    vmath.Clamp(high/highScale, 0, 1),
		Overall: vmath.Clamp(total/float64(length), 0, 1),
	}
}

func divisor(n int) float64 {
	if n == 0 {
		return 1
	}
	return float64(n)
}
