// Package pipeline orchestrates one render: script, voice, tempo, cue
// resolution, pitch shaping, and the final mix, with every intermediate
// persisted as a project artifact so the editor and reruns can pick up
// where a previous run left off.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dropforge/dropforge/internal/audio"
	"github.com/dropforge/dropforge/internal/config"
	"github.com/dropforge/dropforge/internal/pitch"
	"github.com/dropforge/dropforge/internal/project"
	"github.com/dropforge/dropforge/internal/resynth"
	"github.com/dropforge/dropforge/internal/script"
	"github.com/dropforge/dropforge/internal/sfx"
	"github.com/dropforge/dropforge/internal/transcript"
	"github.com/dropforge/dropforge/internal/voice"
)

// Notifier receives lifecycle events. Dispatch must not block the run.
type Notifier interface {
	Dispatch(ctx context.Context, event string, payload any)
}

// Deps carries the pipeline's collaborators. Gateway, Suggester and
// Notifier may be nil; the steps needing them degrade or skip.
type Deps struct {
	Store     *project.Store
	Gateway   script.Gateway
	Synth     voice.Synthesizer
	Shaper    resynth.Shaper
	Audio     *audio.Runner
	Suggester CueSuggester
	Notifier  Notifier
}

// Pipeline renders narrated audio for one project directory.
type Pipeline struct {
	cfg       *config.Config
	store     *project.Store
	gateway   script.Gateway
	synth     voice.Synthesizer
	shaper    resynth.Shaper
	audio     *audio.Runner
	suggester CueSuggester
	notifier  Notifier
}

func New(cfg *config.Config, deps Deps) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     deps.Store,
		gateway:   deps.Gateway,
		synth:     deps.Synth,
		shaper:    deps.Shaper,
		audio:     deps.Audio,
		suggester: deps.Suggester,
		notifier:  deps.Notifier,
	}
}

// Options selects what one run does. Exactly one of Topic, ManualScript
// or Reuse drives the script step.
type Options struct {
	Topic        string
	ManualScript string // may carry *phrase*(-N) pitch markup
	Reuse        bool
	Speed        float64     // 0 means the configured default
	Provider     string      // script provider override
	Voice        string      // synthesis voice override
	PastContext  string      // notes from the archive, folded into the prompt
	ManualCues   []pitch.Cue // editor override, wins over every other source
	Placements   []sfx.Placement
	Music        string // optional background music file
}

// Result summarizes a finished run.
type Result struct {
	RunID      string          `json:"run_id"`
	ScriptText string          `json:"script_text"`
	Provider   string          `json:"provider,omitempty"`
	Model      string          `json:"model,omitempty"`
	CostUSD    float64         `json:"cost_usd,omitempty"`
	CueSource  string          `json:"cue_source"`
	Cues       []pitch.Cue     `json:"cues"`
	Placements []sfx.Placement `json:"placements"`
	Report     *pitch.Report   `json:"report"`
	Duration   float64         `json:"duration"`
	MixPath    string          `json:"mix_path"`
}

// Run executes the full pipeline under the project lock.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	release, err := p.store.Lock()
	if err != nil {
		return nil, err
	}
	defer release()

	speed := opts.Speed
	if speed <= 0 {
		speed = p.cfg.Pipeline.Speed
	}
	if speed <= 0 {
		return nil, fmt.Errorf("tempo must be positive, got %v", speed)
	}

	runID := uuid.NewString()
	p.notify(ctx, "run.started", map[string]any{"run_id": runID, "topic": opts.Topic, "reuse": opts.Reuse})

	res, err := p.run(ctx, runID, speed, opts)
	if err != nil {
		p.notify(ctx, "run.failed", map[string]any{"run_id": runID, "error": err.Error()})
		return nil, err
	}
	p.notify(ctx, "run.completed", map[string]any{
		"run_id":   runID,
		"duration": res.Duration,
		"cues":     len(res.Cues),
		"source":   res.CueSource,
		"warnings": len(res.Report.Warnings),
		"mix_path": res.MixPath,
	})
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, runID string, speed float64, opts Options) (*Result, error) {
	res := &Result{RunID: runID, Report: &pitch.Report{}}

	text, markers, err := p.resolveScript(ctx, opts, res)
	if err != nil {
		return nil, err
	}
	res.ScriptText = text

	words, err := p.ensureVoice(ctx, opts, text)
	if err != nil {
		return nil, err
	}

	slog.Info("applying tempo", "speed", speed)
	fastVoice := p.store.Path(project.FastVoiceFile)
	if err := p.audio.ApplyTempo(ctx, p.store.Path(project.VoiceFile), fastVoice, speed); err != nil {
		return nil, fmt.Errorf("tempo step: %w", err)
	}
	fastWords, err := transcript.Rescale(words, speed)
	if err != nil {
		return nil, err
	}
	if err := p.store.SaveFastWords(fastWords); err != nil {
		return nil, err
	}
	res.Duration = transcript.Duration(fastWords)

	cues, source, err := p.resolveCues(ctx, opts, markers, fastWords, res.Report)
	if err != nil {
		return nil, err
	}
	res.Cues = cues
	res.CueSource = source
	if budget := p.cfg.Pipeline.DurationBudget; budget > 0 && res.Duration > budget {
		res.Report.Add(pitch.WarnBudget, "",
			fmt.Sprintf("final duration %.1fs exceeds the %.0fs target", res.Duration, budget))
	}
	if err := p.store.SaveCues(cues); err != nil {
		return nil, err
	}

	slog.Info("shaping pitch", "cues", len(cues), "shaper", p.shaper.Name())
	shaped := p.store.Path(project.ShapedVoiceFile)
	env := pitch.NewEnvelope(cues, res.Duration)
	if err := p.shaper.Shape(ctx, fastVoice, shaped, env); err != nil {
		return nil, fmt.Errorf("pitch shaping: %w", err)
	}

	placements := p.placeSFX(opts, cues)
	res.Placements = placements
	if err := p.store.SavePlacements(placements); err != nil {
		return nil, err
	}

	overlays := make([]audio.Overlay, 0, len(placements))
	for _, pl := range placements {
		overlays = append(overlays, audio.Overlay{Path: pl.SFXPath, At: pl.Time, Volume: pl.Volume})
	}
	mix := p.store.Path(project.MixFile)
	slog.Info("mixing", "overlays", len(overlays))
	if err := p.audio.Mix(ctx, audio.MixRequest{
		Voice:    shaped,
		Overlays: overlays,
		Music:    opts.Music,
		Output:   mix,
	}); err != nil {
		return nil, fmt.Errorf("mixdown: %w", err)
	}
	res.MixPath = mix

	for _, w := range res.Report.Warnings {
		slog.Warn("run warning", "kind", w.Kind, "phrase", w.Phrase, "detail", w.Detail)
	}
	slog.Info("run complete",
		"run_id", runID,
		"duration", res.Duration,
		"cues", len(cues),
		"cue_source", source,
		"warnings", len(res.Report.Warnings),
	)
	return res, nil
}

// resolveScript produces the narration text and unresolved markers from
// whichever script source the options select.
func (p *Pipeline) resolveScript(ctx context.Context, opts Options, res *Result) (string, []pitch.Marker, error) {
	switch {
	case opts.Reuse:
		slog.Info("reusing existing project artifacts")
		markers, err := p.store.LoadMarkers()
		if err != nil {
			return "", nil, fmt.Errorf("loading saved markers: %w", err)
		}
		text, err := p.store.LoadScriptText()
		if err != nil {
			text = "" // reuse runs can live off voice + timestamps alone
		}
		return text, markers, nil

	case opts.ManualScript != "":
		slog.Info("using manual script")
		text, markers, err := pitch.ParseMarkedScript(opts.ManualScript)
		if err != nil {
			return "", nil, err
		}
		if err := p.store.SaveMarkers(markers); err != nil {
			return "", nil, err
		}
		if err := p.store.SaveScriptText(text); err != nil {
			return "", nil, err
		}
		return text, markers, nil

	default:
		if p.gateway == nil {
			return "", nil, errors.New("no script provider configured and no manual script given")
		}
		slog.Info("generating script", "topic", opts.Topic, "provider", opts.Provider)
		out, err := p.gateway.Generate(ctx, script.Request{
			Topic:       opts.Topic,
			Provider:    opts.Provider,
			PastContext: opts.PastContext,
		})
		if err != nil {
			return "", nil, fmt.Errorf("script generation: %w", err)
		}
		res.Provider = out.Provider
		res.Model = out.Model
		res.CostUSD = out.CostUSD

		if err := p.store.SaveScript(out.Script); err != nil {
			return "", nil, err
		}
		if err := p.store.SaveMarkers(out.Script.PitchDrops); err != nil {
			return "", nil, err
		}
		if err := p.store.SaveScriptText(out.Script.FullScript); err != nil {
			return "", nil, err
		}
		return out.Script.FullScript, out.Script.PitchDrops, nil
	}
}

// ensureVoice synthesizes narration or, in reuse mode, loads the previous
// run's audio and timestamps.
func (p *Pipeline) ensureVoice(ctx context.Context, opts Options, text string) ([]transcript.Word, error) {
	if opts.Reuse {
		if !p.store.Exists(project.VoiceFile) {
			return nil, fmt.Errorf("%s not found; run a full generation first", p.store.Path(project.VoiceFile))
		}
		words, err := p.store.LoadWords()
		if err != nil {
			return nil, fmt.Errorf("loading saved timestamps: %w", err)
		}
		slog.Info("reusing voice", "words", len(words))
		return words, nil
	}

	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty narration text")
	}
	slog.Info("synthesizing voice", "backend", p.synth.Name(), "chars", len(text))
	out, err := p.synth.Synthesize(ctx, voice.Request{Text: text, Voice: opts.Voice})
	if err != nil {
		return nil, fmt.Errorf("voice synthesis: %w", err)
	}
	if out.Estimated {
		slog.Warn("voice backend returned no timings, using estimates", "backend", p.synth.Name())
	}
	if err := p.store.SaveAudio(project.VoiceFile, out.Audio); err != nil {
		return nil, err
	}
	if err := p.store.SaveWords(out.Words); err != nil {
		return nil, err
	}
	return out.Words, nil
}

// resolveCues walks the fallback chain. No source at all is not fatal:
// the run proceeds unshaped and says so.
func (p *Pipeline) resolveCues(ctx context.Context, opts Options, markers []pitch.Marker, words []transcript.Word, report *pitch.Report) ([]pitch.Cue, string, error) {
	srcRes, err := pitch.ResolveFromSources(ctx, words, p.cueSources(opts.ManualCues, markers)...)
	if errors.Is(err, pitch.ErrNoSource) {
		slog.Warn("no pitch cue source present, rendering without pitch drops")
		return nil, "none", nil
	}
	if err != nil {
		return nil, "", err
	}
	report.Merge(srcRes.Report)
	slog.Info("resolved pitch cues", "source", srcRes.Source, "cues", len(srcRes.Cues))
	for _, c := range srcRes.Cues {
		slog.Debug("cue", "start", c.Start, "end", c.End, "semitones", c.Semitones)
	}
	return srcRes.Cues, srcRes.Source, nil
}

// placeSFX honors editor-made placements when present, otherwise drops the
// configured boom at every cue end.
func (p *Pipeline) placeSFX(opts Options, cues []pitch.Cue) []sfx.Placement {
	if opts.Placements != nil {
		return opts.Placements
	}

	sounds, err := sfx.ScanLibrary(p.cfg.Project.SFXDir)
	if err != nil {
		slog.Warn("scanning sfx library", "error", err)
		return nil
	}
	sound, ok := sfx.Find(sounds, p.cfg.Pipeline.BoomSFX)
	if !ok {
		slog.Warn("configured sfx not in library, skipping placements", "name", p.cfg.Pipeline.BoomSFX)
		return nil
	}
	return sfx.PlaceAtCues(cues, sound.Path, p.cfg.Pipeline.BoomVolume)
}

func (p *Pipeline) notify(ctx context.Context, event string, payload any) {
	if p.notifier != nil {
		p.notifier.Dispatch(ctx, event, payload)
	}
}
