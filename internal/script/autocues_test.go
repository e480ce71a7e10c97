package script

import (
	"errors"
	"testing"
)

func TestParseAutoCueResponse(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		markers, err := ParseAutoCueResponse(`[{"phrase": "war crime", "semitones": -4}, {"phrase": "federal offense", "semitones": -5}]`)
		if err != nil {
			t.Fatalf("ParseAutoCueResponse: %v", err)
		}
		if len(markers) != 2 {
			t.Fatalf("got %d markers, want 2", len(markers))
		}
		if markers[0].Phrase != "war crime" || markers[0].Semitones != -4 {
			t.Errorf("first marker = %+v", markers[0])
		}
		if markers[1].Phrase != "federal offense" || markers[1].Semitones != -5 {
			t.Errorf("second marker = %+v", markers[1])
		}
	})

	t.Run("json fence", func(t *testing.T) {
		markers, err := ParseAutoCueResponse("```json\n[{\"phrase\": \"petabytes\", \"semitones\": -4}]\n```")
		if err != nil {
			t.Fatalf("ParseAutoCueResponse: %v", err)
		}
		if len(markers) != 1 || markers[0].Phrase != "petabytes" {
			t.Errorf("markers = %+v", markers)
		}
	})

	t.Run("bare fence", func(t *testing.T) {
		markers, err := ParseAutoCueResponse("```\n[{\"phrase\": \"room\", \"semitones\": -5}]\n```")
		if err != nil {
			t.Fatalf("ParseAutoCueResponse: %v", err)
		}
		if len(markers) != 1 || markers[0].Phrase != "room" {
			t.Errorf("markers = %+v", markers)
		}
	})

	t.Run("surrounding chatter", func(t *testing.T) {
		markers, err := ParseAutoCueResponse(`Here are my picks: [{"phrase": "boom", "semitones": -6}] Hope that helps!`)
		if err != nil {
			t.Fatalf("ParseAutoCueResponse: %v", err)
		}
		if len(markers) != 1 || markers[0].Phrase != "boom" || markers[0].Semitones != -6 {
			t.Errorf("markers = %+v", markers)
		}
	})

	t.Run("drops empty phrases", func(t *testing.T) {
		markers, err := ParseAutoCueResponse(`[{"phrase": "  ", "semitones": -4}, {"phrase": "keeper", "semitones": -3}]`)
		if err != nil {
			t.Fatalf("ParseAutoCueResponse: %v", err)
		}
		if len(markers) != 1 || markers[0].Phrase != "keeper" {
			t.Errorf("markers = %+v", markers)
		}
	})

	t.Run("no array", func(t *testing.T) {
		_, err := ParseAutoCueResponse("I could not find any good pitch drop candidates.")
		if !errors.Is(err, ErrNoCueJSON) {
			t.Fatalf("err = %v, want ErrNoCueJSON", err)
		}
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := ParseAutoCueResponse(`[{"phrase": "war crime", "semitones": }]`)
		if err == nil {
			t.Fatal("expected decode error")
		}
	})
}
