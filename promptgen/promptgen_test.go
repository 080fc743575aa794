package promptgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/config"
	"github.com/mager/cochlea/logger"
)

const validPayload = `{"universal":"u","suno":"s","udio":"d","musicgen":"m","beatoven":"b"}`

func TestParsePromptSetPlainJSON(t *testing.T) {
	ps, err := ParsePromptSet(validPayload)
	if err != nil {
		t.Fatal(err)
	}
	if ps.Universal != "u" || ps.Beatoven != "b" {
		t.Errorf("parsed: %+v", ps)
	}
}

func TestParsePromptSetStripsCodeFences(t *testing.T) {
	cases := []string{
		"```json\n" + validPayload + "\n```",
		"```\n" + validPayload + "\n```",
		"  ```JSON\n" + validPayload + "\n```  ",
	}
	for _, in := range cases {
		ps, err := ParsePromptSet(in)
		if err != nil {
			t.Errorf("fenced input %q: %v", in[:10], err)
			continue
		}
		if ps.Suno != "s" {
			t.Errorf("fenced input parsed wrong: %+v", ps)
		}
	}
}

func TestParsePromptSetMissingKeyFails(t *testing.T) {
	_, err := ParsePromptSet(`{"universal":"u","suno":"s","udio":"d","musicgen":"m"}`)
	if err == nil {
		t.Fatal("expected error for missing beatoven key")
	}
	if !strings.Contains(err.Error(), "beatoven") {
		t.Errorf("error should name the missing key: %v", err)
	}
}

func TestParsePromptSetEmptyValueFails(t *testing.T) {
	_, err := ParsePromptSet(`{"universal":"u","suno":" ","udio":"d","musicgen":"m","beatoven":"b"}`)
	if err == nil {
		t.Fatal("expected error for blank suno value")
	}
}

func TestParsePromptSetMalformedFails(t *testing.T) {
	for _, in := range []string{"", "not json", "```json\nnope\n```", "[1,2,3]"} {
		if _, err := ParsePromptSet(in); err == nil {
			t.Errorf("input %q: expected error", in)
		}
	}
}

func chatBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func testFeatures() *cochlea.FeatureSet {
	return &cochlea.FeatureSet{
		BPM: 128, KeyFull: "C Major", TimeSignature: "4/4",
		EnergyLevel: "High", RMSEnergy: 0.6, DynamicRange: "Wide",
		Brightness: "Bright", SpectralCentroidHz: 3000,
		BassPresence: 0.3, MidPresence: 0.5, TreblePresence: 0.2,
		RhythmDensity: "Dense", RhythmRegularity: 0.9, PercussionCharacteristics: "punchy",
		Texture: "Balanced", VocalTone: "bright", VocalRange: "mid", VocalPresence: 0.6,
		GenreHints: []string{"EDM"}, MoodTags: []string{"Energetic"},
		UniqueCharacteristics: []string{"Driving high-tempo momentum throughout"},
	}
}

func newTestClient(endpoint string) *Client {
	log, _ := logger.NewTestLogger()
	return NewClient(config.Config{
		PromptEndpoint: endpoint,
		PromptKey:      "test-key",
		PromptModel:    "test-model",
	}, log)
}

func TestGenerateParsesFencedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header: got %q", got)
		}
		w.Write([]byte(chatBody("```json\n" + validPayload + "\n```")))
	}))
	defer srv.Close()

	ps, err := newTestClient(srv.URL).Generate(context.Background(), testFeatures())
	if err != nil {
		t.Fatal(err)
	}
	if ps.Musicgen != "m" {
		t.Errorf("generated: %+v", ps)
	}
}

func TestGenerateRejectsMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatBody("here are your prompts: universal ...")))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Generate(context.Background(), testFeatures()); err == nil {
		t.Fatal("expected error for prose response")
	}
}

func TestGenerateSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Generate(context.Background(), testFeatures()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestBuildPromptMentionsCoreFeatures(t *testing.T) {
	prompt := BuildPrompt(testFeatures())

	for _, want := range []string{"128.0 BPM", "C Major", "High", "EDM", "Energetic", "punchy"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
