package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum summarizes a single analysis window of the signal.
type Spectrum struct {
	CentroidHz  float64
	SpreadHz    float64
	BassRatio   float64
	MidRatio    float64
	TrebleRatio float64
}

const (
	// fftSize is the fixed analysis window, taken from the start of the
	// signal. Single-window by design; this is not a multi-frame average.
	fftSize = 2048

	bassCutoffHz   = 250.0
	trebleCutoffHz = 4000.0

	fallbackCentroidHz = 2000.0
	fallbackSpreadHz   = 1000.0
)

// fallbackSpectrum is returned whenever the window has no usable energy
// (empty signal, all-zero placeholder, NaN contamination). Spectral failure is
// non-fatal to a job.
func fallbackSpectrum() Spectrum {
	return Spectrum{
		CentroidHz:  fallbackCentroidHz,
		SpreadHz:    fallbackSpreadHz,
		BassRatio:   0.3,
		MidRatio:    0.5,
		TrebleRatio: 0.2,
	}
}

// AnalyzeSpectrum computes the magnitude spectrum of the first 2048 samples
// and derives centroid, spread, and band-energy ratios. Pure function: the
// same samples always produce the same Spectrum.
func AnalyzeSpectrum(samples []float64, sampleRate int) Spectrum {
	if len(samples) == 0 || sampleRate <= 0 {
		return fallbackSpectrum()
	}

	window := make([]float64, fftSize)
	copy(window, samples) // zero-padded when the signal is shorter

	spec := fft.FFTReal(window)

	// Nyquist-folded: only the first N/2 bins carry information.
	mags := make([]float64, fftSize/2)
	total := 0.0
	for i := range mags {
		mags[i] = cmplx.Abs(spec[i])
		total += mags[i]
	}
	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return fallbackSpectrum()
	}

	binHz := float64(sampleRate) / float64(fftSize)

	centroid := 0.0
	for i, m := range mags {
		centroid += float64(i) * binHz * m
	}
	centroid /= total

	spread := 0.0
	for i, m := range mags {
		d := float64(i)*binHz - centroid
		spread += d * d * m
	}
	spread = math.Sqrt(spread / total)

	var bass, mid, treble float64
	for i, m := range mags {
		switch f := float64(i) * binHz; {
		case f < bassCutoffHz:
			bass += m
		case f < trebleCutoffHz:
			mid += m
		default:
			treble += m
		}
	}

	out := Spectrum{
		CentroidHz:  centroid,
		SpreadHz:    spread,
		BassRatio:   bass / total,
		MidRatio:    mid / total,
		TrebleRatio: treble / total,
	}
	if math.IsNaN(out.CentroidHz) {
		out.CentroidHz = fallbackCentroidHz
	}
	if math.IsNaN(out.SpreadHz) {
		out.SpreadHz = fallbackSpreadHz
	}
	return out
}
