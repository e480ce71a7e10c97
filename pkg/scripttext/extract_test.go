package scripttext

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromFileTXTKeepsMarkup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.txt")
	content := "This is a *war crime*(-4) and nothing else.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != strings.TrimSpace(content) {
		t.Errorf("FromFile = %q, want the markup preserved verbatim", got)
	}
}

func TestFromFileDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	doc, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>They stole petabytes</w:t></w:r></w:p><w:p><w:r><w:t>of data</w:t></w:r></w:p></w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := FromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "They stole petabytes of data" {
		t.Errorf("FromFile = %q", got)
	}
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.rtf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromFile(path); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}
