package audio

import (
	"math"
	"testing"
)

func sine(freq float64, sampleRate, n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestAnalyzeSpectrumBandRatiosSumToOne(t *testing.T) {
	cases := map[string][]float64{
		"sine440":  sine(440, 44100, 4096, 0.5),
		"sine5k":   sine(5000, 44100, 4096, 0.8),
		"impulses": {1, 0, 0, 0, -1, 0, 0, 0, 1},
		"short":    sine(440, 44100, 100, 0.5),
	}
	for name, samples := range cases {
		s := AnalyzeSpectrum(samples, 44100)
		sum := s.BassRatio + s.MidRatio + s.TrebleRatio
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("%s: ratios sum to %f, want 1", name, sum)
		}
		for label, r := range map[string]float64{"bass": s.BassRatio, "mid": s.MidRatio, "treble": s.TrebleRatio} {
			if r < 0 || r > 1 {
				t.Errorf("%s: %s ratio %f out of [0,1]", name, label, r)
			}
		}
	}
}

func TestAnalyzeSpectrumLowSine(t *testing.T) {
	s := AnalyzeSpectrum(sine(440, 44100, 4096, 0.5), 44100)

	if s.CentroidHz < 200 || s.CentroidHz > 1500 {
		t.Errorf("centroid for 440 Hz sine: got %f", s.CentroidHz)
	}
	if s.TrebleRatio > s.MidRatio+s.BassRatio {
		t.Errorf("440 Hz sine should not be treble-dominated: %+v", s)
	}
}

func TestAnalyzeSpectrumHighSineIsTrebleHeavy(t *testing.T) {
	s := AnalyzeSpectrum(sine(8000, 44100, 4096, 0.5), 44100)

	if s.TrebleRatio < 0.5 {
		t.Errorf("8 kHz sine treble ratio: got %f want > 0.5", s.TrebleRatio)
	}
	if s.CentroidHz < 4000 {
		t.Errorf("8 kHz sine centroid: got %f want >= 4000", s.CentroidHz)
	}
}

func TestAnalyzeSpectrumIdempotent(t *testing.T) {
	samples := sine(440, 44100, 4096, 0.5)
	first := AnalyzeSpectrum(samples, 44100)
	second := AnalyzeSpectrum(samples, 44100)
	if first != second {
		t.Errorf("spectral analysis not idempotent: %+v vs %+v", first, second)
	}
}

func TestAnalyzeSpectrumFallbacks(t *testing.T) {
	want := fallbackSpectrum()

	for name, samples := range map[string][]float64{
		"empty":       {},
		"silence":     make([]float64, 4096),
		"placeholder": make([]float64, 44100*10),
	} {
		if got := AnalyzeSpectrum(samples, 44100); got != want {
			t.Errorf("%s: got %+v want fallback %+v", name, got, want)
		}
	}

	if got := AnalyzeSpectrum(sine(440, 44100, 4096, 0.5), 0); got != want {
		t.Errorf("zero sample rate: got %+v want fallback", got)
	}
}
