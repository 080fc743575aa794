package audio

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Rhythm summarizes beat-level energy statistics of the signal.
type Rhythm struct {
	// Regularity is 1 - coefficient of variation of beat-frame energies,
	// clamped to [0,1]. Steady material scores near 1.
	Regularity float64
	// DrumIntensity is the loudest beat frame relative to the mean, capped at 1.
	DrumIntensity float64
	// Percussion labels the drum intensity: punchy, crisp, moderate, muffled.
	Percussion string
	// FrameEnergies are the per-beat mean absolute amplitudes, kept for
	// downstream density/time-signature heuristics.
	FrameEnergies []float64
}

// AnalyzeRhythm frames the signal into beat-length windows for the given BPM
// estimate and measures how evenly energy is distributed across them.
// The trailing partial frame is discarded.
func AnalyzeRhythm(samples []float64, sampleRate int, bpm float64) Rhythm {
	if bpm <= 0 || sampleRate <= 0 {
		return Rhythm{Regularity: 1, DrumIntensity: 0.5, Percussion: percussionLabel(0.5)}
	}

	frameLen := int(math.Round(float64(sampleRate) * 60.0 / bpm))
	if frameLen <= 0 {
		return Rhythm{Regularity: 1, DrumIntensity: 0.5, Percussion: percussionLabel(0.5)}
	}

	numFrames := len(samples) / frameLen
	energies := make([]float64, 0, numFrames)
	for f := 0; f < numFrames; f++ {
		frame := samples[f*frameLen : (f+1)*frameLen]
		sum := 0.0
		for _, s := range frame {
			sum += math.Abs(s)
		}
		energies = append(energies, sum/float64(frameLen))
	}

	// Mean defaults to 0.1 when no whole frame exists, so the ratios below
	// stay defined.
	mean := 0.1
	if len(energies) > 0 {
		mean = stat.Mean(energies, nil)
	}
	if mean == 0 {
		mean = 0.1
	}

	std := 0.0
	if len(energies) >= 2 {
		std = stat.StdDev(energies, nil)
	}

	regularity := 1 - std/mean
	if regularity < 0 {
		regularity = 0
	}
	if regularity > 1 {
		regularity = 1
	}

	intensity := 0.5
	if len(energies) > 0 {
		peak := energies[0]
		for _, e := range energies[1:] {
			if e > peak {
				peak = e
			}
		}
		intensity = math.Min(1, peak/mean)
	}

	return Rhythm{
		Regularity:    regularity,
		DrumIntensity: intensity,
		Percussion:    percussionLabel(intensity),
		FrameEnergies: energies,
	}
}

// percussionLabel buckets drum intensity. Thresholds are exclusive and
// evaluated in priority order; the first match wins.
func percussionLabel(intensity float64) string {
	switch {
	case intensity > 0.8:
		return "punchy"
	case intensity > 0.6:
		return "crisp"
	case intensity < 0.3:
		return "muffled"
	default:
		return "moderate"
	}
}
