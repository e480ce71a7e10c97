package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropforge/dropforge/internal/config"
)

var (
	verbose bool
	outDir  string
)

var rootCmd = &cobra.Command{
	Use:   "dropforge",
	Short: "Assemble short-form narrated audio with dramatic pitch drops",
	Long: `Dropforge turns a topic or a hand-written script into narrated audio:
the script is voiced, marked phrases get a pitch drop aligned to word
timing, and sound effects land on the drops in the final mix.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := godotenv.Load(); err == nil {
			slog.Debug("loaded .env")
		}
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig layers env config with the project's dropforge.toml and the
// --out flag: env < file < flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		cfg.Project.Dir = outDir
	}
	fc, err := config.LoadProjectFile(cfg.Project.Dir)
	if err != nil {
		return nil, err
	}
	cfg.ApplyFile(fc)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "project output directory (default: PROJECT_DIR env or ./output)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
