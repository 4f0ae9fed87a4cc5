package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the DFT of data
// after removing its mean. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	spectrum := fft.FFTReal(detrend(data))
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantFrequency is the strongest non-zero frequency of data sampled at
// sampleRate, with its magnitude. A constant series reports zero.
func DominantFrequency(data []float64, sampleRate float64) (freq, power float64) {
	ps := PowerSpectrum(data)
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(best) * sampleRate / float64(len(data)), ps[best]
}

func detrend(data []float64) []float64 {
	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}
