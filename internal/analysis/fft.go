package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitudes of bins 0..n/2 of the series after
// removing its mean and zero padding it to a power of two length n.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, nextPow2(len(data)))
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(padded)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency and magnitude of the strongest
// bin above DC, for samples taken every interval time units.
func DominantFrequency(data []float64, interval float64) (freq, power float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || !(interval > 0) {
		return 0, 0
	}

	n := float64(2 * (len(ps) - 1))
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if math.IsNaN(ps[best]) {
		return 0, 0
	}
	return float64(best) / (n * interval), ps[best]
}
