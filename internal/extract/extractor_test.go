package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// minimalDocx returns .docx zip bytes whose word/document.xml carries the
// given text in <w:t> nodes.
func minimalDocx(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func TestExtract_plainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.txt")
	if err := os.WriteFile(path, []byte("Loan policy text"), 0600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "Loan policy text" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_invalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.md")
	if err := os.WriteFile(path, []byte("hello\x80world"), 0600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "hello�world" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_docx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.docx")
	if err := os.WriteFile(path, minimalDocx("Overdraft fee schedule"), 0600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "Overdraft fee schedule" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_docxWithRunAttributes(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document><w:body><w:p w:rsidR="00A"><w:r><w:t xml:space="preserve">First</w:t></w:r><w:r><w:t>Second</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()

	path := filepath.Join(t.TempDir(), "policy.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "First Second" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_docxNotZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	if err := os.WriteFile(path, []byte("not a zip"), 0600); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	if _, err := e.Extract(path); err == nil {
		t.Error("expected error for invalid docx")
	}
}

func TestExtract_nonexistent(t *testing.T) {
	e := NewExtractor()
	if _, err := e.Extract("/nonexistent/path/policy.txt"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestSupported(t *testing.T) {
	e := NewExtractor()
	for _, ext := range []string{".pdf", ".docx", ".odt", ".rtf", ".txt", ".md"} {
		if !e.Supported(ext) {
			t.Errorf("Supported(%q) = false", ext)
		}
	}
	for _, ext := range []string{".xlsx", ".png", ""} {
		if e.Supported(ext) {
			t.Errorf("Supported(%q) = true", ext)
		}
	}
}
