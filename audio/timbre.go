package audio

// Timbre and vocal estimation are pure functions of the spectral outputs; no
// additional signal access happens here.

// Vocal describes the estimated vocal character of the track.
type Vocal struct {
	// Presence treats mid-band energy as a weak proxy for vocal content,
	// deliberately biased upward and capped at 1.
	Presence float64
	Tone     string
	Range    string
}

// EstimateVocal derives vocal descriptors from the spectrum.
func EstimateVocal(s Spectrum) Vocal {
	presence := s.MidRatio*0.8 + 0.2
	if presence > 1 {
		presence = 1
	}
	return Vocal{
		Presence: presence,
		Tone:     vocalTone(s.CentroidHz),
		Range:    vocalRange(s.CentroidHz),
	}
}

// BrightnessLabel buckets the overall spectral centroid into four tiers.
func BrightnessLabel(centroidHz float64) string {
	switch {
	case centroidHz < 1500:
		return "Dark & Warm"
	case centroidHz < 2500:
		return "Balanced"
	case centroidHz < 4000:
		return "Bright"
	default:
		return "Very Bright"
	}
}

// ToneLabel is the coarser three-tier bucketing used for prose descriptions.
// It intentionally differs from BrightnessLabel; the two tier tables are not
// unified.
func ToneLabel(centroidHz float64) string {
	switch {
	case centroidHz > 3000:
		return "Bright"
	case centroidHz > 1500:
		return "Warm"
	default:
		return "Dark"
	}
}

func vocalTone(centroidHz float64) string {
	switch {
	case centroidHz < 1000:
		return "warm"
	case centroidHz < 2000:
		return "balanced"
	case centroidHz < 4000:
		return "bright"
	default:
		return "crisp"
	}
}

func vocalRange(centroidHz float64) string {
	switch {
	case centroidHz < 1500:
		return "low"
	case centroidHz > 3500:
		return "high"
	default:
		return "mid"
	}
}
