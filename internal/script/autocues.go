package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dropforge/dropforge/internal/pitch"
)

const autoCuePrompt = `Below is the transcript of a short narrated video. Pick 3-5 phrases that deserve a comedic deep-voice pitch drop. Rules:
- Each phrase must be 1-3 words, quoted verbatim from the transcript.
- Assign each a pitch shift between -3 and -6 semitones (more negative = deeper = bigger punchline).
- Prefer absurd claims, punchlines, and escalations. Spread picks across the video, at least 2 seconds apart.
- Respond with ONLY a JSON array, no commentary: [{"phrase": "...", "semitones": -4}]

Transcript:
%s`

var ErrNoCueJSON = errors.New("no JSON array in auto-cue response")

// AutoCueSuggester asks a small model to pick pitch-drop phrases from a
// finished transcript. Lowest-priority cue source, used when a script has
// no embedded markers and the editor has saved nothing.
type AutoCueSuggester struct {
	client anthropic.Client
	model  string
}

func NewAutoCueSuggester(apiKey, model string) *AutoCueSuggester {
	return &AutoCueSuggester{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (s *AutoCueSuggester) SuggestCues(ctx context.Context, transcriptText string) ([]pitch.Marker, error) {
	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(autoCuePrompt, transcriptText))),
		},
		Temperature: anthropic.Float(0.3),
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic auto-cue request: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content = block.Text
			break
		}
	}

	markers, err := ParseAutoCueResponse(content)
	if err != nil {
		return nil, err
	}
	return markers, nil
}

// ParseAutoCueResponse extracts the JSON marker array from a model reply.
// Models wrap JSON in markdown fences or preface it with chatter often
// enough that we slice from the first '[' to the last ']' before decoding.
func ParseAutoCueResponse(content string) ([]pitch.Marker, error) {
	text := strings.TrimSpace(content)
	if after, ok := strings.CutPrefix(text, "```json"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, ErrNoCueJSON
	}

	var markers []pitch.Marker
	if err := json.Unmarshal([]byte(text[start:end+1]), &markers); err != nil {
		return nil, fmt.Errorf("decoding auto-cue markers: %w", err)
	}

	kept := markers[:0]
	for _, m := range markers {
		if strings.TrimSpace(m.Phrase) == "" {
			continue
		}
		kept = append(kept, m)
	}
	return kept, nil
}
