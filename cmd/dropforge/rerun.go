package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dropforge/dropforge/internal/pipeline"
)

var (
	rerunSpeed float64
	rerunMusic string
)

var rerunCmd = &cobra.Command{
	Use:   "rerun",
	Short: "Re-render from existing artifacts, skipping script and voice",
	Long: `Rerun feeds the saved voice audio and word timestamps back through cue
resolution, pitch shaping, and the mix. Use it after editing pitch markers
or sound effect placements in the timeline editor.`,
	Args: cobra.NoArgs,
	RunE: runRerun,
}

func init() {
	rerunCmd.Flags().Float64Var(&rerunSpeed, "speed", 0, "tempo multiplier (default from config)")
	rerunCmd.Flags().StringVar(&rerunMusic, "music", "", "background music file mixed under the narration")
	rootCmd.AddCommand(rerunCmd)
}

func runRerun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	opts := pipeline.Options{
		Reuse: true,
		Speed: rerunSpeed,
		Music: rerunMusic,
	}

	// Editor-made placements survive a rerun; without any the pipeline
	// re-places the configured boom at each cue end.
	if placements, err := rt.store.LoadPlacements(); err != nil {
		slog.Warn("reading saved placements", "error", err)
	} else if placements != nil {
		opts.Placements = placements
	}

	res, err := rt.pipeline.Run(ctx, opts)
	if err != nil {
		recordFailure(ctx, rt.history, "", "reuse", err)
		return err
	}
	recordResult(ctx, rt, "", "reuse", res)

	printRunSummary(res)
	return nil
}
