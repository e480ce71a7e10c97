package archive

import (
	"context"
	"strings"
	"testing"
)

func TestExcerptTruncatesOnWordBoundary(t *testing.T) {
	long := strings.Repeat("petabytes of evidence ", 20)
	got := excerpt(long, 50)
	if len(got) > 52 { // 50 plus the ellipsis rune
		t.Errorf("excerpt too long: %d chars", len(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated excerpt should end with an ellipsis, got %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("excerpt should collapse whitespace, got %q", got)
	}
}

func TestExcerptShortTextUnchanged(t *testing.T) {
	if got := excerpt("short script", 200); got != "short script" {
		t.Errorf("excerpt = %q, want unchanged input", got)
	}
}

func TestNilServiceIsNoop(t *testing.T) {
	var s *Service
	if err := s.Save(context.Background(), Entry{}); err != nil {
		t.Errorf("nil service Save should be a no-op, got %v", err)
	}
	if ctx, err := s.PastContext(context.Background(), "topic"); err != nil || ctx != "" {
		t.Errorf("nil service PastContext = (%q, %v), want empty", ctx, err)
	}
}
