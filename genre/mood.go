package genre

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Input is the feature slice the mood/characteristic rule chains consume.
type Input struct {
	BPM           float64
	RMSEnergy     float64
	CentroidHz    float64
	EnergyLevel   string
	VocalPresence float64
	DrumIntensity float64
	BassPresence  float64
	// Filename and KnownGenre feed the keyword rules.
	Filename   string
	KnownGenre string
}

func (in Input) haystack() string {
	return strings.ToLower(in.Filename + " " + in.KnownGenre)
}

const maxTags = 5

// moodRule appends up to two tags when its predicate fires. Rules run in
// declaration order so the output order is explicit and testable.
type moodRule struct {
	applies func(Input) bool
	tags    []string
}

var moodRules = []moodRule{
	{func(in Input) bool { return in.EnergyLevel == "High" || in.EnergyLevel == "Medium-High" },
		[]string{"Energetic", "Powerful"}},
	{func(in Input) bool { return in.EnergyLevel == "Low" },
		[]string{"Calm", "Mellow"}},
	{keywordRule("edm", "dance"), []string{"Euphoric", "Uplifting"}},
	{keywordRule("ballad", "slow"), []string{"Emotional", "Heartfelt"}},
	{keywordRule("jazz"), []string{"Smooth", "Sophisticated"}},
	{keywordRule("rock", "metal"), []string{"Intense", "Driving"}},
	{keywordRule("hip", "rap"), []string{"Confident", "Groovy"}},
	{func(in Input) bool { return in.VocalPresence > 0.7 }, []string{"Expressive"}},
	{func(in Input) bool { return in.DrumIntensity > 0.8 }, []string{"Punchy"}},
}

func keywordRule(words ...string) func(Input) bool {
	return func(in Input) bool {
		hay := in.haystack()
		for _, w := range words {
			if strings.Contains(hay, w) {
				return true
			}
		}
		return false
	}
}

// MoodTags runs the rule chain and collapses duplicates, preserving insertion
// order, capped at five tags. When nothing fires the default pair stands in.
func MoodTags(in Input) []string {
	tags := make([]string, 0, maxTags)
	for _, r := range moodRules {
		if !r.applies(in) {
			continue
		}
		for _, t := range r.tags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	if len(tags) == 0 {
		tags = append(tags, "Expressive", "Dynamic")
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// characteristicRule emits one sentence when its predicate fires.
type characteristicRule struct {
	applies  func(Input) bool
	sentence func(Input) string
}

func constSentence(s string) func(Input) string {
	return func(Input) string { return s }
}

// characteristicRules are evaluated in this fixed order: BPM tier, centroid
// tier, drum-intensity tier, vocal-presence tier, bass presence, genre
// keyword. The output is not re-sorted.
var characteristicRules = []characteristicRule{
	{func(in Input) bool { return in.BPM < 70 },
		constSentence("Very slow, spacious tempo that leaves room for atmosphere")},
	{func(in Input) bool { return in.BPM >= 70 && in.BPM < 100 },
		constSentence("Laid-back tempo with an unhurried groove")},
	{func(in Input) bool { return in.BPM >= 100 && in.BPM < 130 },
		constSentence("Steady mid-tempo pulse that carries the track")},
	{func(in Input) bool { return in.BPM >= 130 },
		constSentence("Driving high-tempo momentum throughout")},
	{func(in Input) bool { return in.CentroidHz > 3500 },
		constSentence("Crisp, airy high end that gives the mix a bright sheen")},
	{func(in Input) bool { return in.CentroidHz < 1200 },
		constSentence("Dark, rounded tonality centered in the low registers")},
	{func(in Input) bool { return in.DrumIntensity > 0.8 },
		constSentence("Hard-hitting percussion that punches through the mix")},
	{func(in Input) bool { return in.DrumIntensity < 0.3 },
		constSentence("Soft percussion that sits behind the melody")},
	{func(in Input) bool { return in.VocalPresence > 0.75 },
		constSentence("Vocals sit forward as the focal point of the arrangement")},
	{func(in Input) bool { return in.VocalPresence < 0.35 },
		constSentence("Largely instrumental with minimal vocal presence")},
	{func(in Input) bool { return in.BassPresence > 0.4 },
		constSentence("Bass-heavy foundation that anchors the low end")},
	{keywordRule("edm", "dance"),
		constSentence("Four-on-the-floor rhythm built for the dancefloor")},
}

// UniqueCharacteristics emits an ordered list of short sentences describing
// what stands out about the track, capped at five entries.
func UniqueCharacteristics(in Input) []string {
	out := make([]string, 0, maxTags)
	for _, r := range characteristicRules {
		if len(out) == maxTags {
			break
		}
		if r.applies(in) {
			out = append(out, r.sentence(in))
		}
	}
	return out
}

// Classify scores the feature vector against the profile table and bundles
// the genre hint list with the mood/characteristic rule output.
type Classification struct {
	Genre                 string
	Confidence            float64
	GenreHints            []string
	MoodTags              []string
	UniqueCharacteristics []string
}

// Classify picks the best-matching profile and derives mood tags and
// unique-characteristic sentences from the same input.
func Classify(in Input) Classification {
	match := BestMatch(in.BPM, in.RMSEnergy, in.CentroidHz)

	hints := []string{match.Profile.Name}
	// A known genre from the caller is kept as a secondary hint when it
	// disagrees with the scored result.
	if g := strings.TrimSpace(in.KnownGenre); g != "" && !strings.EqualFold(g, match.Profile.Name) {
		hints = append(hints, g)
	}

	return Classification{
		Genre:                 match.Profile.Name,
		Confidence:            match.Confidence,
		GenreHints:            hints,
		MoodTags:              MoodTags(in),
		UniqueCharacteristics: UniqueCharacteristics(in),
	}
}
