package voice

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/dropforge/dropforge/internal/config"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// ElevenLabs synthesizes speech through the ElevenLabs API and is the only
// backend that returns real word timings, extracted from the character
// alignment of the with-timestamps endpoint.
type ElevenLabs struct {
	apiKey     string
	voiceID    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewElevenLabs(cfg config.VoiceConfig) *ElevenLabs {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	return &ElevenLabs{
		apiKey:  cfg.ElevenLabsKey,
		voiceID: cfg.ElevenLabsVoice,
		model:   cfg.ElevenLabsModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60), 1),
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	Speed           float64 `json:"speed"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsResponse struct {
	AudioBase64 string    `json:"audio_base64"`
	Alignment   Alignment `json:"alignment"`
}

// Synthesize converts text to MP3 with word timestamps. Tempo is applied
// later in the pipeline, so speed here stays at 1.0.
func (e *ElevenLabs) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	voiceID := req.Voice
	if voiceID == "" {
		voiceID = e.voiceID
	}
	if voiceID == "" {
		return nil, fmt.Errorf("elevenlabs voice id is required (set ELEVENLABS_VOICE_ID)")
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    req.Text,
		ModelID: e.model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0.0,
			Speed:           1.0,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/with-timestamps?output_format=mp3_44100_128",
		elevenLabsBaseURL, voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var elResp elevenLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&elResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(elResp.AudioBase64)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}

	words, err := elResp.Alignment.Words()
	if err != nil {
		return nil, fmt.Errorf("word alignment: %w", err)
	}

	return &Result{
		Audio:       audio,
		ContentType: "audio/mpeg",
		Words:       words,
	}, nil
}
