package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/iburimskiy/audio-particles/internal/config"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// SampleSource provides the most recent mono samples, oldest first. It may
// return fewer than n samples, or none before playback starts.
type SampleSource interface {
	Samples(n int) []float64
}

// Analyser converts PCM samples to byte frequency magnitudes: Blackman
// window, FFT, smoothing over time, then a decibel range mapped onto 0..255.
type Analyser struct {
	src       SampleSource
	fft       *fourier.FFT
	size      int
	coeffs    []float64
	buf       []float64
	spectrum  []complex128
	smoothed  []float64
	smoothing float64
	minDB     float64
	maxDB     float64
}

// NewAnalyser creates an analyser over size samples. size must be even.
func NewAnalyser(src SampleSource, size int, smoothing float64) *Analyser {
	ones := make([]float64, size)
	for i := range ones {
		ones[i] = 1
	}
	return &Analyser{
		src:       src,
		fft:       fourier.NewFFT(size),
		size:      size,
		coeffs:    window.Blackman(ones),
		buf:       make([]float64, size),
		smoothed:  make([]float64, size/2),
		smoothing: smoothing,
		minDB:     config.MinDecibels,
		maxDB:     config.MaxDecibels,
	}
}

// FrequencyBinCount is half the FFT size.
func (a *Analyser) FrequencyBinCount() int {
	return a.size / 2
}

// ByteFrequencyData writes up to FrequencyBinCount magnitudes into dst and
// returns how many were written.
func (a *Analyser) ByteFrequencyData(dst []byte) int {
	var samples []float64
	if a.src != nil {
		samples = a.src.Samples(a.size)
	}

	// Right-align so the newest sample is last; missing history is silence.
	clear(a.buf)
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	copy(a.buf[a.size-len(samples):], samples)
	for i := range a.buf {
		a.buf[i] *= a.coeffs[i]
	}

	a.spectrum = a.fft.Coefficients(a.spectrum, a.buf)

	n := min(len(dst), len(a.smoothed))
	scale := 1.0 / float64(a.size)
	for k := range a.smoothed {
		mag := cmplx.Abs(a.spectrum[k]) * scale
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
	}
	for k := 0; k < n; k++ {
		dst[k] = a.toByte(a.smoothed[k])
	}
	return n
}

func (a *Analyser) toByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := maxByte * (db - a.minDB) / (a.maxDB - a.minDB)
	switch {
	case v <= 0:
		return 0
	case v >= maxByte:
		return maxByte
	}
	return byte(v)
}
