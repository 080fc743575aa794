package genre

// Profile is a static reference record describing one genre's typical
// tempo, energy, and spectral ranges. The table is defined at process start
// and never mutated.
type Profile struct {
	Name        string
	BPMMin      float64
	BPMMax      float64
	EnergyMin   float64
	EnergyMax   float64
	CentroidMin float64
	CentroidMax float64
	// Characteristics are short descriptors typical of the genre.
	Characteristics []string
	// KeyInstruments name the instruments that usually indicate the genre.
	KeyInstruments []string
}

// Scoring weights: BPM and energy are worth 30 points each, the spectral
// centroid 40, for a 100-point maximum.
const (
	bpmPoints      = 30
	energyPoints   = 30
	centroidPoints = 40
	maxScore       = bpmPoints + energyPoints + centroidPoints
)

// profiles is ordered: ties keep the first-declared profile, so declaration
// order is part of the classifier's contract.
var profiles = []Profile{
	{
		Name:   "EDM",
		BPMMin: 118, BPMMax: 140,
		EnergyMin: 0.6, EnergyMax: 1.0,
		CentroidMin: 2500, CentroidMax: 5200,
		Characteristics: []string{"four-on-the-floor drive", "synth-led hooks", "sidechain pumping"},
		KeyInstruments:  []string{"synthesizer", "drum machine", "sampler"},
	},
	{
		Name:   "Pop",
		BPMMin: 95, BPMMax: 130,
		EnergyMin: 0.4, EnergyMax: 0.7,
		CentroidMin: 1800, CentroidMax: 3200,
		Characteristics: []string{"hook-forward writing", "polished production", "tight arrangements"},
		KeyInstruments:  []string{"piano", "synthesizer", "drums"},
	},
	{
		Name:   "Rock",
		BPMMin: 100, BPMMax: 150,
		EnergyMin: 0.5, EnergyMax: 0.9,
		CentroidMin: 1500, CentroidMax: 2800,
		Characteristics: []string{"guitar-driven riffs", "live drum feel", "raw dynamics"},
		KeyInstruments:  []string{"electric guitar", "bass", "drums"},
	},
	{
		Name:   "Hip-Hop",
		BPMMin: 70, BPMMax: 100,
		EnergyMin: 0.45, EnergyMax: 0.85,
		CentroidMin: 800, CentroidMax: 2500,
		Characteristics: []string{"heavy low end", "sampled textures", "rhythmic vocal delivery"},
		KeyInstruments:  []string{"drum machine", "sampler", "sub bass"},
	},
	{
		Name:   "R&B",
		BPMMin: 60, BPMMax: 95,
		EnergyMin: 0.3, EnergyMax: 0.7,
		CentroidMin: 900, CentroidMax: 2400,
		Characteristics: []string{"smooth chord voicings", "laid-back groove", "expressive vocals"},
		KeyInstruments:  []string{"electric piano", "bass", "drums"},
	},
	{
		Name:   "Ballad",
		BPMMin: 55, BPMMax: 85,
		EnergyMin: 0.1, EnergyMax: 0.5,
		CentroidMin: 500, CentroidMax: 2000,
		Characteristics: []string{"emotional build", "sparse verses", "soaring choruses"},
		KeyInstruments:  []string{"piano", "strings", "acoustic guitar"},
	},
	{
		Name:   "Jazz",
		BPMMin: 90, BPMMax: 150,
		EnergyMin: 0.2, EnergyMax: 0.6,
		CentroidMin: 1000, CentroidMax: 2800,
		Characteristics: []string{"swing feel", "extended harmony", "improvised solos"},
		KeyInstruments:  []string{"saxophone", "double bass", "piano"},
	},
	{
		Name:   "Classical",
		BPMMin: 50, BPMMax: 120,
		EnergyMin: 0.05, EnergyMax: 0.5,
		CentroidMin: 800, CentroidMax: 2200,
		Characteristics: []string{"orchestral dynamics", "long-form phrasing", "acoustic timbres"},
		KeyInstruments:  []string{"strings", "woodwinds", "piano"},
	},
	{
		Name:   "Ambient",
		BPMMin: 40, BPMMax: 90,
		EnergyMin: 0.02, EnergyMax: 0.4,
		CentroidMin: 200, CentroidMax: 1500,
		Characteristics: []string{"slow-evolving pads", "minimal percussion", "wide reverb space"},
		KeyInstruments:  []string{"synthesizer", "pads", "field recordings"},
	},
}

// Profiles returns the static genre table in declaration order.
func Profiles() []Profile {
	return profiles
}

// Match is the outcome of scoring a feature vector against the profile table.
type Match struct {
	Profile    Profile
	Score      int
	Confidence float64
}

// Score awards points for each range the feature vector falls into. Ranges
// are inclusive on both ends.
func (p Profile) ScoreFeatures(bpm, rmsEnergy, centroidHz float64) int {
	score := 0
	if bpm >= p.BPMMin && bpm <= p.BPMMax {
		score += bpmPoints
	}
	if rmsEnergy >= p.EnergyMin && rmsEnergy <= p.EnergyMax {
		score += energyPoints
	}
	if centroidHz >= p.CentroidMin && centroidHz <= p.CentroidMax {
		score += centroidPoints
	}
	return score
}

// BestMatch scores every profile and returns the highest scorer. A strictly
// greater score is required to displace an earlier profile, so ties resolve
// to the first declaration and the result is deterministic.
func BestMatch(bpm, rmsEnergy, centroidHz float64) Match {
	best := Match{Profile: profiles[0], Score: profiles[0].ScoreFeatures(bpm, rmsEnergy, centroidHz)}
	for _, p := range profiles[1:] {
		if s := p.ScoreFeatures(bpm, rmsEnergy, centroidHz); s > best.Score {
			best = Match{Profile: p, Score: s}
		}
	}
	best.Confidence = float64(best.Score) / float64(maxScore)
	return best
}
