package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the per-project overlay read from the project directory.
const FileName = "dropforge.toml"

// FileConfig is the subset of settings an author pins per project. Values
// here sit between env defaults and command-line flags: env < file < flag.
type FileConfig struct {
	Topic          string  `toml:"topic"`
	Speed          float64 `toml:"speed"`
	Provider       string  `toml:"provider"`
	Voice          string  `toml:"voice"`
	BoomSFX        string  `toml:"boom_sfx"`
	DurationBudget float64 `toml:"duration_budget"`
}

// LoadProjectFile reads dropforge.toml from dir. A missing file is not an
// error; it returns (nil, nil).
func LoadProjectFile(dir string) (*FileConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &fc, nil
}

// ApplyFile overlays non-zero file values onto the env-derived config.
func (c *Config) ApplyFile(fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.Speed > 0 {
		c.Pipeline.Speed = fc.Speed
	}
	if fc.Provider != "" {
		c.Script.DefaultProvider = fc.Provider
	}
	if fc.Voice != "" {
		c.Voice.ElevenLabsVoice = fc.Voice
	}
	if fc.BoomSFX != "" {
		c.Pipeline.BoomSFX = fc.BoomSFX
	}
	if fc.DurationBudget > 0 {
		c.Pipeline.DurationBudget = fc.DurationBudget
	}
}
