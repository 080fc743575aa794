package audio

import (
	"fmt"
	"math"
	"strings"

	"github.com/mager/cochlea/cochlea"
)

// ExtractFeatures runs the signal analyzers over a decoded buffer and
// assembles the signal-derived portion of the FeatureSet. Genre, mood, and
// characteristic fields are filled by the classifier afterwards.
func ExtractFeatures(dec *Decoded, bpm float64, filename string) *cochlea.FeatureSet {
	spectrum := AnalyzeSpectrum(dec.Samples, dec.SampleRate)
	rhythm := AnalyzeRhythm(dec.Samples, dec.SampleRate, bpm)
	vocal := EstimateVocal(spectrum)

	rms, peak := levels(dec.Samples)
	harmonic, percussive, hpRatio := harmonicSplit(spectrum, rhythm)

	key, mode := approximateKey(filename)

	fs := &cochlea.FeatureSet{
		BPM:           bpm,
		Key:           key,
		KeyFull:       key + " " + mode,
		TimeSignature: timeSignature(rhythm),

		Duration:    formatDuration(dec.DurationSec),
		DurationSec: round(dec.DurationSec, 1),
		SampleRate:  dec.SampleRate,
		Channels:    dec.Channels,
		Bitrate:     dec.Bitrate,
		Codec:       dec.Codec,

		EnergyLevel:  energyLevel(rms),
		DynamicRange: dynamicRange(peak),
		RMSEnergy:    round(rms, 5),
		PeakLevel:    round(peak, 5),

		Brightness:         BrightnessLabel(spectrum.CentroidHz),
		SpectralCentroidHz: round(spectrum.CentroidHz, 0),
		SpectralSpread:     round(spectrum.SpreadHz, 0),
		BassPresence:       spectrum.BassRatio,
		MidPresence:        spectrum.MidRatio,
		TreblePresence:     spectrum.TrebleRatio,

		Texture:                   texture(hpRatio),
		RhythmDensity:             rhythmDensity(dec.Samples, dec.SampleRate, dec.DurationSec),
		RhythmRegularity:          rhythm.Regularity,
		DrumIntensity:             rhythm.DrumIntensity,
		PercussionCharacteristics: rhythm.Percussion,

		HPRatio:           round(hpRatio, 3),
		HarmonicContent:   round(harmonic, 3),
		PercussiveContent: round(percussive, 3),

		VocalPresence: vocal.Presence,
		VocalTone:     vocal.Tone,
		VocalRange:    vocal.Range,

		Title: titleFromFilename(filename),
	}
	return fs
}

// levels returns the RMS energy and peak absolute amplitude, both in [0,1]
// for samples normalized to [-1,1].
func levels(samples []float64) (rms, peak float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	sumSq := 0.0
	for _, s := range samples {
		sumSq += s * s
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	rms = math.Sqrt(sumSq / float64(len(samples)))
	if peak > 1 {
		peak = 1
	}
	if rms > 1 {
		rms = 1
	}
	return rms, peak
}

func energyLevel(rms float64) string {
	switch {
	case rms < 0.05:
		return "Low"
	case rms < 0.12:
		return "Medium-Low"
	case rms < 0.20:
		return "Medium"
	case rms < 0.30:
		return "Medium-High"
	default:
		return "High"
	}
}

func dynamicRange(peak float64) string {
	switch {
	case peak > 0.8:
		return "Wide"
	case peak > 0.5:
		return "Moderate"
	default:
		return "Narrow"
	}
}

// harmonicSplit approximates harmonic vs. percussive content from band
// balance and beat punch. A coarse proxy, not a true HPSS decomposition.
func harmonicSplit(s Spectrum, r Rhythm) (harmonic, percussive, ratio float64) {
	percussive = 0.5*s.TrebleRatio + 0.5*r.DrumIntensity
	if percussive > 1 {
		percussive = 1
	}
	harmonic = 1 - percussive
	ratio = harmonic / (percussive + 1e-10)
	return harmonic, percussive, ratio
}

func texture(hpRatio float64) string {
	switch {
	case hpRatio > 3.0:
		return "Melodic-dominant"
	case hpRatio > 1.0:
		return "Balanced"
	default:
		return "Rhythmic-dominant"
	}
}

// rhythmDensity counts energy onsets in 50 ms windows and buckets the onset
// rate per second: under 1 is sparse, under 3 moderate, otherwise dense.
func rhythmDensity(samples []float64, sampleRate int, durationSec float64) string {
	if sampleRate <= 0 || durationSec <= 0 {
		return "Sparse"
	}
	win := sampleRate / 20
	if win <= 0 || len(samples) < 2*win {
		return "Sparse"
	}

	prev := -1.0
	onsets := 0
	for off := 0; off+win <= len(samples); off += win {
		sum := 0.0
		for _, s := range samples[off : off+win] {
			sum += math.Abs(s)
		}
		e := sum / float64(win)
		if prev >= 0 && e > prev*1.3 && e > 0.01 {
			onsets++
		}
		prev = e
	}

	rate := float64(onsets) / durationSec
	switch {
	case rate < 1:
		return "Sparse"
	case rate < 3:
		return "Moderate"
	default:
		return "Dense"
	}
}

// timeSignature guesses the meter from beat-energy regularity. Steady frames
// read as common time; anything uneven is reported as irregular.
func timeSignature(r Rhythm) string {
	if len(r.FrameEnergies) <= 4 {
		return "4/4"
	}
	if r.Regularity > 0.7 {
		return "4/4"
	}
	return "3/4 or irregular"
}

// approximateKey is a stub. Real key estimation is out of scope; the default
// is C major, nudged to A minor only by an explicit filename hint.
func approximateKey(filename string) (key, mode string) {
	if strings.Contains(strings.ToLower(filename), "minor") {
		return "A", "Minor"
	}
	return "C", "Major"
}

func formatDuration(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func titleFromFilename(filename string) string {
	base := filename
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
