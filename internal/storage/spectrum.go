package storage

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Flicker summarizes how a clip's lit area oscillates.
type Flicker struct {
	// Frequency is the strongest non-DC component in Hz.
	Frequency float64
	// Magnitude is that component's amplitude in coverage units.
	Magnitude float64
	// Spectrum holds amplitudes for bins 0..n/2.
	Spectrum []float64
}

// FlickerSpectrum runs an FFT over the coverage series sampled at fps. It
// returns a zero Flicker for fewer than two samples.
func FlickerSpectrum(stats []FrameStat, fps int) Flicker {
	n := len(stats)
	if n < 2 || fps <= 0 {
		return Flicker{}
	}

	mean := 0.0
	for _, s := range stats {
		mean += s.Coverage
	}
	mean /= float64(n)

	series := make([]float64, n)
	for i, s := range stats {
		series[i] = s.Coverage - mean
	}

	bins := fft.FFTReal(series)
	amp := make([]float64, n/2+1)
	for i := range amp {
		amp[i] = 2 * cmplx.Abs(bins[i]) / float64(n)
	}

	best := 1
	for i := 2; i < len(amp); i++ {
		if amp[i] > amp[best] {
			best = i
		}
	}

	return Flicker{
		Frequency: float64(best) * float64(fps) / float64(n),
		Magnitude: amp[best],
		Spectrum:  amp,
	}
}
