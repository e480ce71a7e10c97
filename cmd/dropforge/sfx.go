package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dropforge/dropforge/internal/sfx"
)

var sfxCmd = &cobra.Command{
	Use:   "sfx",
	Short: "Inspect or populate the sound effect library",
}

var sfxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every effect in the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sounds, err := sfx.ScanLibrary(cfg.Project.SFXDir)
		if err != nil {
			return err
		}
		if len(sounds) == 0 {
			fmt.Printf("no effects in %s; try `dropforge sfx synth`\n", cfg.Project.SFXDir)
			return nil
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"ID", "Name", "Category", "File"})
		for _, s := range sounds {
			tw.AppendRow(table.Row{s.ID, s.Name, s.CategoryLabel, s.Filename})
		}
		tw.Render()
		return nil
	},
}

var sfxSynthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize the built-in procedural effect set into the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := sfx.GenerateLibrary(cfg.Project.SFXDir); err != nil {
			return err
		}
		fmt.Printf("synthesized %d effects into %s\n", len(sfx.Generators), cfg.Project.SFXDir)
		return nil
	},
}

func init() {
	sfxCmd.AddCommand(sfxListCmd)
	sfxCmd.AddCommand(sfxSynthCmd)
	rootCmd.AddCommand(sfxCmd)
}
