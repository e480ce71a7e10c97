package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dropforge/dropforge/internal/config"
)

// ErrEmptyScript is returned when a provider responds without usable
// narration text.
var ErrEmptyScript = errors.New("provider returned an empty script")

// Generator abstracts one script provider (Anthropic, OpenAI, Ollama).
type Generator interface {
	GenerateScript(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// Gateway routes script generation across providers with retry and a
// single-level fallback.
type Gateway interface {
	Generate(ctx context.Context, req Request) (*Result, error)
	Provider(name string) (Generator, error)
	Providers() []string
}

type gateway struct {
	generators      map[string]Generator
	defaultProvider string
	fallback        string
	maxRetries      int
}

// NewGateway wires up every provider that has credentials configured.
func NewGateway(cfg config.ScriptConfig) Gateway {
	g := &gateway{
		generators:      make(map[string]Generator),
		defaultProvider: cfg.DefaultProvider,
		fallback:        cfg.FallbackProvider,
		maxRetries:      cfg.MaxRetries,
	}

	if cfg.AnthropicKey != "" {
		g.generators["claude"] = NewAnthropicGenerator(cfg.AnthropicKey, cfg.ClaudeModel)
	}
	if cfg.OpenAIKey != "" {
		g.generators["openai"] = NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIModel)
	}
	if cfg.OllamaURL != "" {
		g.generators["ollama"] = NewOllamaGenerator(cfg.OllamaURL, cfg.OllamaModel)
	}

	return g
}

func (g *gateway) Provider(name string) (Generator, error) {
	p, ok := g.generators[name]
	if !ok {
		return nil, fmt.Errorf("script provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Providers() []string {
	names := make([]string, 0, len(g.generators))
	for name := range g.generators {
		names = append(names, name)
	}
	return names
}

func (g *gateway) Generate(ctx context.Context, req Request) (*Result, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}

	res, err := g.generateWithRetry(ctx, providerName, req)
	if err != nil && g.fallback != "" && g.fallback != providerName {
		slog.Warn("primary script provider failed, trying fallback",
			"primary", providerName,
			"fallback", g.fallback,
			"error", err,
		)
		res, err = g.generateWithRetry(ctx, g.fallback, req)
	}
	if err != nil {
		return nil, err
	}
	if err := finalizeScript(res.Script, req); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *gateway) generateWithRetry(ctx context.Context, providerName string, req Request) (*Result, error) {
	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			slog.Debug("retrying script generation", "provider", providerName, "attempt", attempt)
		}

		res, err := p.GenerateScript(ctx, req)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all retries exhausted for %s: %w", providerName, lastErr)
}

// finalizeScript fills derived fields providers tend to leave inconsistent
// and rejects scripts with no narration at all.
func finalizeScript(s *Script, req Request) error {
	if s == nil {
		return ErrEmptyScript
	}
	if s.FullScript == "" {
		var lines []string
		for _, b := range s.Beats {
			if b.Line != "" {
				lines = append(lines, b.Line)
			}
		}
		s.FullScript = strings.Join(lines, " ")
	}
	if strings.TrimSpace(s.FullScript) == "" {
		return ErrEmptyScript
	}
	if s.Topic == "" {
		s.Topic = req.Topic
	}
	s.WordCount = len(strings.Fields(s.FullScript))
	if s.EstimatedDurationSeconds <= 0 {
		s.EstimatedDurationSeconds = EstimateReadTime(s.FullScript)
	}
	return nil
}
