package cochlea

import "time"

// JobStatus is the lifecycle state of an analysis job.
// Jobs move pending -> analyzing -> done|error; done and error are terminal.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusAnalyzing JobStatus = "analyzing"
	StatusDone      JobStatus = "done"
	StatusError     JobStatus = "error"
)

// Terminal reports whether no further transition can leave the status.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// AnalysisJob is one unit of end-to-end analysis work. The job row is created
// before any background work starts and is mutated only by the background task
// that owns its id.
type AnalysisJob struct {
	ID       string    `json:"id" firestore:"id"`
	Filename string    `json:"filename" firestore:"filename"`
	Status   JobStatus `json:"status" firestore:"status"`

	// StorageKey and StorageURL are written as soon as the upload to blob
	// storage succeeds, before feature extraction runs, so a crash mid-pipeline
	// still shows where storage landed.
	StorageKey string `json:"storage_key,omitempty" firestore:"storageKey"`
	StorageURL string `json:"storage_url,omitempty" firestore:"storageURL"`

	Features *FeatureSet `json:"features,omitempty" firestore:"features"`
	Prompts  *PromptSet  `json:"prompts,omitempty" firestore:"prompts"`

	// ErrorMessage holds the stringified cause when Status is error.
	ErrorMessage string `json:"error_message,omitempty" firestore:"errorMessage"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// FeatureSet is the flat record of musical/acoustic descriptors extracted from
// one upload. Immutable once produced. Every ratio-valued field (the presence
// fields, RhythmRegularity, DrumIntensity, RMSEnergy, PeakLevel, VocalPresence)
// lies in [0,1], and BassPresence+MidPresence+TreblePresence sums to 1 within
// floating tolerance.
type FeatureSet struct {
	// BPM is the estimated tempo in beats per minute.
	// Example: 128
	BPM float64 `json:"bpm"`
	// Key is the approximate tonal center. Key detection is a stub: the value
	// is a heuristic default, not a chroma-based estimate.
	// Example: "C"
	Key string `json:"key"`
	// KeyFull combines key and mode.
	// Example: "C Major"
	KeyFull string `json:"key_full"`
	// TimeSignature is "4/4" when beat energy is regular, otherwise
	// "3/4 or irregular".
	TimeSignature string `json:"time_signature"`

	// Duration is the track length formatted m:ss.
	// Example: "3:42"
	Duration string `json:"duration"`
	// DurationSec is the track length in seconds.
	DurationSec float64 `json:"duration_sec"`
	SampleRate  int     `json:"sample_rate"`
	Channels    int     `json:"channels"`
	// Bitrate is in bits per second, estimated from the payload size when the
	// container does not report one.
	Bitrate int    `json:"bitrate"`
	Codec   string `json:"codec"`

	// EnergyLevel is one of Low, Medium-Low, Medium, Medium-High, High.
	EnergyLevel string `json:"energy_level"`
	// DynamicRange is Wide when the peak level exceeds 0.8.
	DynamicRange string  `json:"dynamic_range"`
	RMSEnergy    float64 `json:"rms_energy"`
	PeakLevel    float64 `json:"peak_level"`

	// Brightness is the centroid-tier label for the overall spectrum.
	Brightness         string  `json:"brightness"`
	SpectralCentroidHz float64 `json:"spectral_centroid_hz"`
	SpectralSpread     float64 `json:"spectral_spread"`
	BassPresence       float64 `json:"bass_presence"`
	MidPresence        float64 `json:"mid_presence"`
	TreblePresence     float64 `json:"treble_presence"`

	// Texture is Melodic-dominant, Balanced, or Rhythmic-dominant depending on
	// the harmonic/percussive ratio.
	Texture                   string  `json:"texture"`
	RhythmDensity             string  `json:"rhythm_density"`
	RhythmRegularity          float64 `json:"rhythm_regularity"`
	DrumIntensity             float64 `json:"drum_intensity"`
	PercussionCharacteristics string  `json:"percussion_characteristics"`

	// HPRatio is the harmonic-to-percussive content ratio, a coarse
	// melodic-vs-rhythmic dominance indicator.
	HPRatio           float64 `json:"hp_ratio"`
	HarmonicContent   float64 `json:"harmonic_content"`
	PercussiveContent float64 `json:"percussive_content"`

	VocalPresence float64 `json:"vocal_presence"`
	VocalTone     string  `json:"vocal_tone"`
	VocalRange    string  `json:"vocal_range"`

	MoodTags              []string `json:"mood_tags"`
	GenreHints            []string `json:"genre_hints"`
	UniqueCharacteristics []string `json:"unique_characteristics"`

	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

// PromptSet is the structured output of the external prompt generator: exactly
// five text-generation prompts keyed by target model. All fields are required.
type PromptSet struct {
	Universal string `json:"universal"`
	Suno      string `json:"suno"`
	Udio      string `json:"udio"`
	Musicgen  string `json:"musicgen"`
	Beatoven  string `json:"beatoven"`
}
