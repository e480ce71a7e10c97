package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropforge/dropforge/internal/pitch"
	"github.com/dropforge/dropforge/internal/project"
	"github.com/dropforge/dropforge/internal/transcript"
)

var cuesCmd = &cobra.Command{
	Use:   "cues",
	Short: "Resolve and print the pitch cue table for an existing project",
	Long: `Cues resolves the saved pitch markers against the project's word
timestamps and prints the resulting cue table without touching any audio.
Useful for checking phrase alignment before a rerun.`,
	Args: cobra.NoArgs,
	RunE: runCues,
}

func init() {
	rootCmd.AddCommand(cuesCmd)
}

func runCues(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := project.NewStore(cfg.Project.Dir)

	// Cues live in post-tempo time. Prefer the saved fast transcript;
	// rescale the original one when only it exists.
	words, err := store.LoadFastWords()
	if err != nil {
		orig, loadErr := store.LoadWords()
		if loadErr != nil {
			return fmt.Errorf("no word timestamps in %s; run a generation first", cfg.Project.Dir)
		}
		words, err = transcript.Rescale(orig, cfg.Pipeline.Speed)
		if err != nil {
			return err
		}
		fmt.Printf("no post-tempo timestamps saved; rescaled at %.2fx\n", cfg.Pipeline.Speed)
	}

	markers, err := store.LoadMarkers()
	if err != nil {
		return fmt.Errorf("reading saved markers: %w", err)
	}
	if markers == nil {
		return fmt.Errorf("no pitch markers saved in %s", cfg.Project.Dir)
	}

	cues, report := pitch.ResolveCues(markers, words)
	if len(cues) == 0 {
		fmt.Println("no cues resolved")
	} else {
		printCueTable(cues)
	}
	printWarnings(report)
	return nil
}
