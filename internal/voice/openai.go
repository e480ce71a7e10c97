package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dropforge/dropforge/internal/config"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAITTS synthesizes speech using OpenAI's TTS API. The API returns no
// timing data, so word timestamps are estimated from the text.
type OpenAITTS struct {
	apiKey     string
	model      string
	voice      string
	httpClient *http.Client
}

func NewOpenAITTS(cfg config.VoiceConfig) *OpenAITTS {
	model := cfg.OpenAIModel
	if model == "" {
		model = "tts-1"
	}
	voice := cfg.OpenAIVoice
	if voice == "" {
		voice = "onyx"
	}
	return &OpenAITTS{
		apiKey: cfg.OpenAIKey,
		model:  model,
		voice:  voice,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (o *OpenAITTS) Name() string { return "openai-tts" }

func (o *OpenAITTS) Synthesize(ctx context.Context, req Request) (*Result, error) {
	voice := req.Voice
	if voice == "" {
		voice = o.voice
	}

	body := map[string]any{
		"model": o.model,
		"input": req.Text,
		"voice": voice,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", openAIBaseURL+"/audio/speech", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return &Result{
		Audio:       audio,
		ContentType: "audio/mpeg",
		Words:       EstimateTimings(req.Text, 0),
		Estimated:   true,
	}, nil
}
