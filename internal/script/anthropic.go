package script

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const scriptToolName = "record_script"

// AnthropicGenerator produces scripts through Claude using forced tool
// use, so output always arrives as schema-shaped JSON rather than prose.
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
}

func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (g *AnthropicGenerator) Name() string { return "claude" }

func (g *AnthropicGenerator) GenerateScript(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return nil, err
	}
	props, required, err := schemaParts()
	if err != nil {
		return nil, err
	}

	tool := anthropic.ToolParam{
		Name:        scriptToolName,
		Description: anthropic.String("Record the finished short-form script with all its fields."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: props,
			Required:   required,
		},
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &tool},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: scriptToolName},
		},
		Temperature: anthropic.Float(1.0),
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic script generation: %w", err)
	}

	var s *Script
	for _, block := range resp.Content {
		if block.Type != "tool_use" || block.Name != scriptToolName {
			continue
		}
		s = &Script{}
		if err := json.Unmarshal([]byte(block.Input), s); err != nil {
			return nil, fmt.Errorf("decoding script tool input: %w", err)
		}
		break
	}
	if s == nil {
		return nil, fmt.Errorf("anthropic script generation: %w", ErrEmptyScript)
	}

	inputTokens := int(resp.Usage.InputTokens)
	outputTokens := int(resp.Usage.OutputTokens)
	return &Result{
		Script:       s,
		Provider:     g.Name(),
		Model:        string(resp.Model),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostUSD:      CalculateCost(g.model, inputTokens, outputTokens),
		LatencyMs:    time.Since(start).Milliseconds(),
	}, nil
}
