package script

import "github.com/dropforge/dropforge/internal/pitch"

// Beat is one narration line with pacing hints used by the editor timeline.
type Beat struct {
	Line             string  `json:"line" jsonschema_description:"One spoken sentence or clause of narration."`
	Type             string  `json:"type" jsonschema:"enum=hook,enum=setup,enum=fact,enum=escalation,enum=punchline" jsonschema_description:"Role of this line in the script arc."`
	EstimatedSeconds float64 `json:"estimated_seconds" jsonschema_description:"Rough spoken length of this line in seconds at normal cadence."`
	Energy           string  `json:"energy" jsonschema:"enum=calm,enum=building,enum=peak" jsonschema_description:"Delivery energy for the voice performance."`
}

// Script is the structured narration a generator produces for one topic.
// PitchDrops carries the phrases that get a dramatic pitch drop; they are
// unresolved intent until the aligner maps them onto word timestamps.
type Script struct {
	Title                    string         `json:"title" jsonschema_description:"Short internal title for the run."`
	Topic                    string         `json:"topic" jsonschema_description:"The topic the script covers."`
	Hook                     string         `json:"hook" jsonschema_description:"The opening line. Must grab attention in one sentence."`
	Beats                    []Beat         `json:"beats" jsonschema_description:"The narration beats in spoken order, hook first, punchline last."`
	FinalPunchline           string         `json:"final_punchline" jsonschema_description:"The closing line that lands the video."`
	FullScript               string         `json:"full_script" jsonschema_description:"The complete narration as one block of plain text, exactly as it should be spoken."`
	WordCount                int            `json:"word_count" jsonschema_description:"Word count of full_script."`
	EstimatedDurationSeconds float64        `json:"estimated_duration_seconds" jsonschema_description:"Estimated spoken duration of full_script in seconds at normal cadence."`
	Tone                     string         `json:"tone" jsonschema_description:"Overall tone, e.g. deadpan, unhinged, conspiratorial."`
	TargetAudience           string         `json:"target_audience" jsonschema_description:"Who this video is for."`
	HashtagSuggestions       []string       `json:"hashtag_suggestions" jsonschema_description:"Hashtags for the post, without the # prefix."`
	PitchDrops               []pitch.Marker `json:"pitch_drops" jsonschema_description:"Three to six short phrases quoted verbatim from full_script, each with a semitone offset between -3 and -6."`
}

// Request describes one generation call.
type Request struct {
	Topic       string
	Provider    string // override for the gateway default
	PastContext string // notes on past runs, folded into the prompt
}

// Result wraps a generated script with provider accounting.
type Result struct {
	Script       *Script
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	LatencyMs    int64
}
