package genre

import "strings"

// bpmKeywords maps filename/genre keywords to tempo defaults. Entries are
// evaluated in order; the first keyword found in the haystack wins.
var bpmKeywords = []struct {
	words []string
	bpm   float64
}{
	{[]string{"hip", "rap", "wiz"}, 85},
	{[]string{"ballad", "slow"}, 72},
	{[]string{"edm", "dance"}, 128},
	{[]string{"rock"}, 130},
	{[]string{"jazz"}, 110},
}

const (
	minPlausibleBPM = 40
	maxPlausibleBPM = 300

	highBitrateBPS = 256000
)

// EstimateBPM resolves the tempo used by the rhythm analyzer and classifier.
// A tagged BPM wins if it is plausible; otherwise filename/genre keywords
// supply a genre-typical default, and failing that the bitrate picks between
// two generic defaults.
func EstimateBPM(tagged float64, filename, knownGenre string, bitrateBPS int) float64 {
	if tagged > minPlausibleBPM && tagged < maxPlausibleBPM {
		return tagged
	}

	haystack := strings.ToLower(filename + " " + knownGenre)
	for _, entry := range bpmKeywords {
		for _, w := range entry.words {
			if strings.Contains(haystack, w) {
				return entry.bpm
			}
		}
	}

	if bitrateBPS > highBitrateBPS {
		return 120
	}
	return 90
}
