package genre

import "testing"

func TestEstimateBPMTaggedWins(t *testing.T) {
	if got := EstimateBPM(150, "slow_ballad.mp3", "", 0); got != 150 {
		t.Errorf("tagged bpm: got %f want 150", got)
	}
}

func TestEstimateBPMTaggedPlausibilityBounds(t *testing.T) {
	// 40 and 300 are exclusive bounds; implausible tags fall through to the
	// keyword table.
	cases := []float64{0, 40, 300, 1200, -10}
	for _, tagged := range cases {
		if got := EstimateBPM(tagged, "edm_track.wav", "", 0); got != 128 {
			t.Errorf("tagged %f: got %f want keyword fallback 128", tagged, got)
		}
	}
}

func TestEstimateBPMKeywordTable(t *testing.T) {
	cases := []struct {
		filename string
		genre    string
		want     float64
	}{
		{"wiz-khalifa-type-beat.mp3", "", 85},
		{"hiphop_instrumental.wav", "", 85},
		{"rap_demo.wav", "", 85},
		{"sad_ballad.wav", "", 72},
		{"slow jam.mp3", "", 72},
		{"edm_banger.wav", "", 128},
		{"dancefloor.mp3", "", 128},
		{"rock_anthem.wav", "", 130},
		{"jazz_trio.flac", "", 110},
		{"track01.wav", "Jazz", 110},
	}
	for _, c := range cases {
		if got := EstimateBPM(0, c.filename, c.genre, 0); got != c.want {
			t.Errorf("EstimateBPM(%q, %q): got %f want %f", c.filename, c.genre, got, c.want)
		}
	}
}

func TestEstimateBPMKeywordOrder(t *testing.T) {
	// "slowdance" matches both the ballad and dance rows; the earlier row wins.
	if got := EstimateBPM(0, "slowdance.wav", "", 0); got != 72 {
		t.Errorf("keyword priority: got %f want 72", got)
	}
}

func TestEstimateBPMBitrateDefault(t *testing.T) {
	if got := EstimateBPM(0, "track01.wav", "", 320000); got != 120 {
		t.Errorf("high bitrate default: got %f want 120", got)
	}
	if got := EstimateBPM(0, "track01.wav", "", 128000); got != 90 {
		t.Errorf("low bitrate default: got %f want 90", got)
	}
	if got := EstimateBPM(0, "track01.wav", "", 0); got != 90 {
		t.Errorf("unknown bitrate default: got %f want 90", got)
	}
}
