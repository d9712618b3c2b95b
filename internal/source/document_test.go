package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFile_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.txt")
	content := "According to Gartner, <Acme> leads."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	doc, err := ReadFile(path, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if doc.Origin != path {
		t.Errorf("Expected origin %s, got %s", path, doc.Origin)
	}
	if doc.Text != content {
		t.Errorf("Expected text unchanged, got %q", doc.Text)
	}
}

func TestReadFile_HTMLByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.HTML")
	content := `<html><head><title>Answer</title></head><body><p>See <a href="https://www.nature.com/articles/1">Nature</a></p></body></html>`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	doc, err := ReadFile(path, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(doc.Text, "<p>") {
		t.Errorf("Expected markup removed, got %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "https://www.nature.com/articles/1") {
		t.Errorf("Expected link target kept, got %q", doc.Text)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"), false)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestReadFrom_HTMLFlag(t *testing.T) {
	doc, err := ReadFrom("stdin", strings.NewReader("<div>Reported by <b>TechCrunch</b></div>"), true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if doc.Origin != "stdin" {
		t.Errorf("Expected origin stdin, got %s", doc.Origin)
	}
	if !strings.Contains(doc.Text, "Reported by") || !strings.Contains(doc.Text, "TechCrunch") {
		t.Errorf("Expected visible text, got %q", doc.Text)
	}
}
