package transcript

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Load reads a word-timestamp interchange file.
func Load(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading word timestamps: %w", err)
	}
	var words []Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("parsing word timestamps %s: %w", path, err)
	}
	return words, nil
}

// Save writes a word sequence as interchange JSON. Timestamps are rounded
// to three decimals, the precision the editor and downstream tools
// exchange; in-memory values stay exact.
func Save(path string, words []Word) error {
	rounded := make([]Word, len(words))
	for i, w := range words {
		rounded[i] = Word{Text: w.Text, Start: Round3(w.Start), End: Round3(w.End)}
	}
	data, err := json.MarshalIndent(rounded, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding word timestamps: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing word timestamps: %w", err)
	}
	return nil
}

// Round3 rounds a timestamp to millisecond precision for interchange.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
