package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is the one-sided magnitude spectrum of a real series.
type Spectrum struct {
	Frequencies []float64 // Hz
	Magnitudes  []float64

	DominantFrequency float64
	DominantMagnitude float64
}

// TorqueSpectrum removes the mean, applies a Hann window and returns the
// spectrum of series sampled every dt seconds.
func TorqueSpectrum(series []float64, dt float64) (*Spectrum, error) {
	n := len(series)
	if n < 4 {
		return nil, errors.New("analysis: need at least 4 samples")
	}
	if dt <= 0 {
		return nil, errors.New("analysis: dt must be positive")
	}

	mean := stat.Mean(series, nil)
	windowed := make([]float64, n)
	for i, v := range series {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	coeffs := fft.FFTReal(windowed)
	half := n / 2
	spec := &Spectrum{
		Frequencies: make([]float64, half),
		Magnitudes:  make([]float64, half),
	}
	df := 1 / (float64(n) * dt)
	for k := 0; k < half; k++ {
		spec.Frequencies[k] = float64(k) * df
		spec.Magnitudes[k] = cmplx.Abs(coeffs[k]) * 2 / float64(n)
	}

	// Skip the DC bin; the mean has been removed but windowing leaks into it.
	for k := 1; k < half; k++ {
		if spec.Magnitudes[k] > spec.DominantMagnitude {
			spec.DominantMagnitude = spec.Magnitudes[k]
			spec.DominantFrequency = spec.Frequencies[k]
		}
	}
	return spec, nil
}
