package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dropforge/dropforge/internal/archive"
	"github.com/dropforge/dropforge/internal/history"
	"github.com/dropforge/dropforge/internal/pipeline"
	"github.com/dropforge/dropforge/pkg/scripttext"
)

var (
	genSpeed      float64
	genProvider   string
	genVoice      string
	genScriptFile string
	genMusic      string
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Run the full pipeline: script, voice, tempo, pitch drops, mix",
	Long: `Generate narrated audio for a topic. The script comes from the configured
model unless --script-file supplies one; inline *phrase*(-N) markup in a
supplied script becomes pitch drops.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Float64Var(&genSpeed, "speed", 0, "tempo multiplier (default from config, normally 1.2)")
	generateCmd.Flags().StringVar(&genProvider, "provider", "", "script provider: claude or openai")
	generateCmd.Flags().StringVar(&genVoice, "voice", "", "voice id for the synthesis backend")
	generateCmd.Flags().StringVar(&genScriptFile, "script-file", "", "manual script (.txt/.md/.pdf/.docx), skips generation")
	generateCmd.Flags().StringVar(&genMusic, "music", "", "background music file mixed under the narration")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	topic := ""
	if len(args) == 1 {
		topic = args[0]
	}
	if topic == "" && genScriptFile == "" {
		return fmt.Errorf("give a topic or a --script-file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := buildRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	opts := pipeline.Options{
		Topic:    topic,
		Speed:    genSpeed,
		Provider: genProvider,
		Voice:    genVoice,
		Music:    genMusic,
	}

	if genScriptFile != "" {
		text, err := scripttext.FromFile(genScriptFile)
		if err != nil {
			return err
		}
		opts.ManualScript = text
	}

	if rt.archive != nil && topic != "" {
		past, err := rt.archive.PastContext(ctx, topic)
		if err != nil {
			slog.Warn("looking up past scripts", "error", err)
		} else if past != "" {
			opts.PastContext = past
		}
	}

	res, err := rt.pipeline.Run(ctx, opts)
	if err != nil {
		recordFailure(ctx, rt.history, topic, "fresh", err)
		return err
	}
	recordResult(ctx, rt, topic, "fresh", res)

	printRunSummary(res)
	return nil
}

func recordResult(ctx context.Context, rt *runtime, topic, mode string, res *pipeline.Result) {
	err := rt.history.Save(ctx, history.Record{
		ID:        res.RunID,
		Topic:     topic,
		Mode:      mode,
		Provider:  res.Provider,
		CueSource: res.CueSource,
		CueCount:  len(res.Cues),
		Warnings:  len(res.Report.Warnings),
		Duration:  res.Duration,
		CostUSD:   res.CostUSD,
		Status:    "completed",
	})
	if err != nil {
		slog.Warn("recording run history", "error", err)
	}

	if rt.archive != nil && res.ScriptText != "" && mode == "fresh" {
		err := rt.archive.Save(ctx, archive.Entry{
			ID:         res.RunID,
			RunID:      res.RunID,
			Topic:      topic,
			ScriptText: res.ScriptText,
		})
		if err != nil {
			slog.Warn("archiving script", "error", err)
		}
	}
}

func recordFailure(ctx context.Context, hist *history.Service, topic, mode string, runErr error) {
	err := hist.Save(ctx, history.Record{
		ID:     uuid.NewString(),
		Topic:  topic,
		Mode:   mode,
		Status: "failed",
		Error:  runErr.Error(),
	})
	if err != nil {
		slog.Warn("recording run history", "error", err)
	}
}
