package pipeline

import (
	"context"

	"github.com/dropforge/dropforge/internal/pitch"
	"github.com/dropforge/dropforge/internal/transcript"
)

// CueSuggester asks a model to pick pitch-drop phrases from transcript
// text. The script package's auto-cue client satisfies this.
type CueSuggester interface {
	SuggestCues(ctx context.Context, transcriptText string) ([]pitch.Marker, error)
}

// AutoSource is the lowest tier of the cue fallback chain: phrase picks
// from a model, resolved through the aligner like any other markers. It is
// present whenever a suggester is configured, so it only runs when both
// higher tiers are absent.
type AutoSource struct {
	Suggester CueSuggester
}

func (a *AutoSource) Name() string  { return "auto" }
func (a *AutoSource) Present() bool { return a.Suggester != nil }

func (a *AutoSource) Resolve(ctx context.Context, words []transcript.Word) ([]pitch.Cue, *pitch.Report, error) {
	markers, err := a.Suggester.SuggestCues(ctx, transcript.Text(words))
	if err != nil {
		return nil, nil, err
	}
	cues, report := pitch.ResolveCues(markers, words)
	return cues, report, nil
}

// cueSources builds the fallback chain in priority order: manual cues from
// the editor, then script markers, then the auto suggester when one is
// configured.
func (p *Pipeline) cueSources(manual []pitch.Cue, markers []pitch.Marker) []pitch.CueSource {
	sources := []pitch.CueSource{
		pitch.StaticSource{SourceName: "manual", Cues: manual},
		pitch.MarkerSource{SourceName: "markers", Markers: markers},
	}
	if p.suggester != nil {
		sources = append(sources, &AutoSource{Suggester: p.suggester})
	}
	return sources
}
