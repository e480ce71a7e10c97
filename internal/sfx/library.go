// Package sfx manages the sound effect library: scanning it for the
// editor, placing effects at pitch cue boundaries, and generating the
// built-in procedural set.
package sfx

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Category styles one group of effects in the editor timeline.
type Category struct {
	Color string
	Label string
}

// Categories maps directory names under the SFX root to their editor
// styling. Directories outside this map still scan, with fallback styling.
var Categories = map[string]Category{
	"emphasis":   {Color: "#ff4757", Label: "Emphasis"},
	"humor":      {Color: "#ffa502", Label: "Humor"},
	"shock":      {Color: "#a55eea", Label: "Shock"},
	"transition": {Color: "#2ed573", Label: "Transition"},
	"context":    {Color: "#1e90ff", Label: "Context"},
}

// Sound is one effect file with the metadata the editor needs to render it.
type Sound struct {
	ID            string `json:"id"` // "category/stem"
	Name          string `json:"name"`
	Category      string `json:"category"`
	Color         string `json:"color"`
	CategoryLabel string `json:"category_label"`
	Filename      string `json:"filename"`
	Path          string `json:"path"`
}

// ScanLibrary walks one level of category directories under dir and lists
// every playable file. A missing directory is an empty library, not an
// error, so fresh checkouts work before any effects exist.
func ScanLibrary(dir string) ([]Sound, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sounds []Sound
	for _, catEntry := range entries {
		if !catEntry.IsDir() {
			continue
		}
		category := catEntry.Name()
		cat, ok := Categories[category]
		if !ok {
			cat = Category{Color: "#888", Label: titleCase(category)}
		}

		files, err := os.ReadDir(filepath.Join(dir, category))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			ext := strings.ToLower(filepath.Ext(f.Name()))
			if ext != ".mp3" && ext != ".wav" && ext != ".ogg" {
				continue
			}
			stem := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
			sounds = append(sounds, Sound{
				ID:            category + "/" + stem,
				Name:          cleanName(stem),
				Category:      category,
				Color:         cat.Color,
				CategoryLabel: cat.Label,
				Filename:      f.Name(),
				Path:          filepath.Join(dir, category, f.Name()),
			})
		}
	}

	sort.Slice(sounds, func(i, j int) bool { return sounds[i].ID < sounds[j].ID })
	return sounds, nil
}

// cleanName turns a filename stem into a display name, dropping the noise
// words downloaded effect packs love to embed.
func cleanName(stem string) string {
	name := strings.ToLower(stem)
	for _, strip := range []string{"-sound-effect", "-meme", "sound", "-effect"} {
		name = strings.ReplaceAll(name, strip, "")
	}
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}

// Find matches a configured effect name like "vine-boom" against the
// library, tolerating hyphen/space and case differences.
func Find(sounds []Sound, query string) (Sound, bool) {
	want := normalizeQuery(query)
	for _, s := range sounds {
		stem := strings.TrimSuffix(s.Filename, filepath.Ext(s.Filename))
		if normalizeQuery(s.Name) == want || normalizeQuery(stem) == want {
			return s, true
		}
	}
	return Sound{}, false
}

func normalizeQuery(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
