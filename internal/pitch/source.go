package pitch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dropforge/dropforge/internal/transcript"
)

// ErrNoSource is returned when every candidate cue source is absent.
var ErrNoSource = errors.New("no pitch cue source available")

// CueSource is one optional provider of pitch-drop intent. Present must be
// cheap and side-effect free; Resolve runs only on the source that
// selection picks.
type CueSource interface {
	Name() string
	Present() bool
	Resolve(ctx context.Context, words []transcript.Word) ([]Cue, *Report, error)
}

// SourceResult carries the cues resolved by the single selected source.
type SourceResult struct {
	Source string
	Cues   []Cue
	Report *Report
}

// ResolveFromSources selects the first present source in priority order
// and returns its resolution. Sources never merge, and an empty result
// from the selected source is final: selection is by presence, not by
// yield, so lower-priority sources are not consulted once a higher one
// exists.
func ResolveFromSources(ctx context.Context, words []transcript.Word, sources ...CueSource) (*SourceResult, error) {
	for _, s := range sources {
		if s == nil || !s.Present() {
			continue
		}
		cues, report, err := s.Resolve(ctx, words)
		if err != nil {
			return nil, fmt.Errorf("resolving pitch cues from %s: %w", s.Name(), err)
		}
		if report == nil {
			report = &Report{}
		}
		return &SourceResult{Source: s.Name(), Cues: cues, Report: report}, nil
	}
	return nil, ErrNoSource
}

// StaticSource serves already-resolved cues verbatim. This is the shape of
// manual overrides saved by the timeline editor. A non-nil empty list
// counts as present: an author clearing every cue is a valid override.
type StaticSource struct {
	SourceName string
	Cues       []Cue
}

func (s StaticSource) Name() string  { return s.SourceName }
func (s StaticSource) Present() bool { return s.Cues != nil }

func (s StaticSource) Resolve(_ context.Context, _ []transcript.Word) ([]Cue, *Report, error) {
	out := append([]Cue(nil), s.Cues...)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, &Report{}, nil
}

// MarkerSource resolves an unresolved marker list through the aligner.
// This is the shape of structured markers saved alongside a generated
// script.
type MarkerSource struct {
	SourceName string
	Markers    []Marker
}

func (s MarkerSource) Name() string  { return s.SourceName }
func (s MarkerSource) Present() bool { return s.Markers != nil }

func (s MarkerSource) Resolve(_ context.Context, words []transcript.Word) ([]Cue, *Report, error) {
	cues, report := ResolveCues(s.Markers, words)
	return cues, report, nil
}
