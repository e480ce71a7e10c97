package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dropforge/dropforge/internal/pipeline"
	"github.com/dropforge/dropforge/internal/pitch"
)

func printRunSummary(res *pipeline.Result) {
	fmt.Printf("run %s finished: %.1fs of audio, %d pitch cues (%s), %d sfx placements\n",
		res.RunID, res.Duration, len(res.Cues), res.CueSource, len(res.Placements))
	if res.Provider != "" {
		fmt.Printf("script: %s/%s ($%.4f)\n", res.Provider, res.Model, res.CostUSD)
	}
	fmt.Printf("mix: %s\n", res.MixPath)

	if len(res.Cues) > 0 {
		printCueTable(res.Cues)
	}
	printWarnings(res.Report)
}

func printCueTable(cues []pitch.Cue) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Semitones", "Factor"})
	for i, c := range cues {
		tw.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.3f", c.Start),
			fmt.Sprintf("%.3f", c.End),
			c.Semitones,
			fmt.Sprintf("%.4f", pitch.SemitoneFactor(c.Semitones)),
		})
	}
	tw.Render()
}

func printWarnings(report *pitch.Report) {
	if report.Empty() {
		return
	}
	fmt.Printf("%d warnings:\n", len(report.Warnings))
	for _, w := range report.Warnings {
		if w.Phrase != "" {
			fmt.Printf("  [%s] %q: %s\n", w.Kind, w.Phrase, w.Detail)
		} else {
			fmt.Printf("  [%s] %s\n", w.Kind, w.Detail)
		}
	}
}
