package pitch

import "testing"

func TestNormalizeWord(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"crime?", "crime"},
		{"HELLO!!!", "hello"},
		{"Petabytes,", "petabytes"},
		{"don't", "don't"},
		{"state-of-the-art", "state-of-the-art"},
		{"--well--", "well"},
		{"\"quoted\"", "quoted"},
		{"(offense).", "offense"},
		{"'tis'", "tis"},
		{"42", "42"},
		{"", ""},
		{"...", ""},
		{"*", ""},
	}
	for _, c := range cases {
		if got := NormalizeWord(c.in); got != c.want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeWordIdempotent(t *testing.T) {
	words := []string{
		"crime?", "HELLO!!!", "don't", "...", "state-of-the-art",
		"O'Brien's", "federal", "(offense).", "", "42nd",
	}
	for _, w := range words {
		once := NormalizeWord(w)
		twice := NormalizeWord(once)
		if twice != once {
			t.Errorf("NormalizeWord not idempotent for %q: first %q, second %q", w, once, twice)
		}
	}
}
