package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the one-sided magnitude spectrum of data after
// removing its mean and applying a Hann window. Input of any length is
// zero-padded to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	buf := make([]float64, n)
	for i, v := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(data)-1)))
		buf[i] = (v - mean) * window
	}

	spectrum := fft.FFTReal(buf)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz of data
// sampled every dt seconds.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}

	n := 2 * len(ps)
	return float64(maxIdx) / (float64(n) * dt)
}
