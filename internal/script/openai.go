package script

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator produces scripts through the chat completions API with a
// strict JSON schema response format.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

func (g *OpenAIGenerator) GenerateScript(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return nil, err
	}

	oReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "short_form_script",
				Schema: scriptSchema,
				Strict: true,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, oReq)
	if err != nil {
		return nil, fmt.Errorf("openai script generation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai script generation: %w", ErrEmptyScript)
	}

	s := &Script{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), s); err != nil {
		return nil, fmt.Errorf("decoding script response: %w", err)
	}

	return &Result{
		Script:       s,
		Provider:     g.Name(),
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		CostUSD:      CalculateCost(g.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
		LatencyMs:    time.Since(start).Milliseconds(),
	}, nil
}
