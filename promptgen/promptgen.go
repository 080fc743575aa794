package promptgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mager/cochlea/cochlea"
	"github.com/mager/cochlea/config"
	"go.uber.org/zap"
)

// Generator turns an extracted feature set into text-generation prompts for
// five downstream models. Any failure here is fatal to the job.
type Generator interface {
	Generate(ctx context.Context, fs *cochlea.FeatureSet) (*cochlea.PromptSet, error)
}

const defaultTimeout = 120 * time.Second

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewClient builds a prompt-generation client. The timeout bounds the whole
// external call; it is the only time bound in the pipeline.
func NewClient(cfg config.Config, log *zap.SugaredLogger) *Client {
	timeout := defaultTimeout
	if cfg.PromptTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.PromptTimeoutSeconds) * time.Second
	}
	return &Client{
		endpoint:   cfg.PromptEndpoint,
		apiKey:     cfg.PromptKey,
		model:      cfg.PromptModel,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Generate(ctx context.Context, fs *cochlea.FeatureSet) (*cochlea.PromptSet, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(fs)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal prompt request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build prompt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prompt generation call: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read prompt response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prompt generation status %d: %s", resp.StatusCode, truncate(string(payload), 200))
	}

	var chat chatResponse
	if err := json.Unmarshal(payload, &chat); err != nil {
		return nil, fmt.Errorf("decode prompt response: %w", err)
	}
	if chat.Error != nil {
		return nil, fmt.Errorf("prompt generation error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("prompt generation returned no choices")
	}

	return ParsePromptSet(chat.Choices[0].Message.Content)
}

const systemPrompt = "You are a music prompt engineer. Respond with a single JSON object containing " +
	`exactly the string keys "universal", "suno", "udio", "musicgen", and "beatoven". No other text.`

// BuildPrompt renders the feature set as the structured text prompt sent to
// the generator.
func BuildPrompt(fs *cochlea.FeatureSet) string {
	var b strings.Builder
	b.WriteString("Write one music-generation prompt per target model for a track with these traits:\n")
	fmt.Fprintf(&b, "- tempo: %.1f BPM, %s time\n", fs.BPM, fs.TimeSignature)
	fmt.Fprintf(&b, "- key: %s\n", fs.KeyFull)
	fmt.Fprintf(&b, "- energy: %s (rms %.3f), dynamic range %s\n", fs.EnergyLevel, fs.RMSEnergy, fs.DynamicRange)
	fmt.Fprintf(&b, "- spectrum: %s, centroid %.0f Hz, bass/mid/treble %.2f/%.2f/%.2f\n",
		fs.Brightness, fs.SpectralCentroidHz, fs.BassPresence, fs.MidPresence, fs.TreblePresence)
	fmt.Fprintf(&b, "- rhythm: %s density, regularity %.2f, %s percussion\n",
		fs.RhythmDensity, fs.RhythmRegularity, fs.PercussionCharacteristics)
	fmt.Fprintf(&b, "- texture: %s, vocals %s/%s (presence %.2f)\n",
		fs.Texture, fs.VocalTone, fs.VocalRange, fs.VocalPresence)
	if len(fs.GenreHints) > 0 {
		fmt.Fprintf(&b, "- genre hints: %s\n", strings.Join(fs.GenreHints, ", "))
	}
	if len(fs.MoodTags) > 0 {
		fmt.Fprintf(&b, "- mood: %s\n", strings.Join(fs.MoodTags, ", "))
	}
	for _, c := range fs.UniqueCharacteristics {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	return b.String()
}

// ParsePromptSet parses the generator's reply into the strict five-field
// structure. Markdown code fences are stripped first; a missing or empty key
// is an error, never a partial result.
func ParsePromptSet(content string) (*cochlea.PromptSet, error) {
	stripped := stripCodeFence(content)
	if stripped == "" {
		return nil, errors.New("empty prompt payload")
	}

	var ps cochlea.PromptSet
	if err := json.Unmarshal([]byte(stripped), &ps); err != nil {
		return nil, fmt.Errorf("parse prompt payload: %w", err)
	}

	for key, val := range map[string]string{
		"universal": ps.Universal,
		"suno":      ps.Suno,
		"udio":      ps.Udio,
		"musicgen":  ps.Musicgen,
		"beatoven":  ps.Beatoven,
	} {
		if strings.TrimSpace(val) == "" {
			return nil, fmt.Errorf("prompt payload missing %q", key)
		}
	}
	return &ps, nil
}

// stripCodeFence removes a surrounding ``` / ```json block if present.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := strings.TrimLeft(trimmed[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ProvideGenerator provides the prompt-generation client.
func ProvideGenerator(cfg config.Config, log *zap.SugaredLogger) Generator {
	return NewClient(cfg, log)
}

var Options = ProvideGenerator
