// Package source acquires text for citation tracking: local files, web pages
// and feeds.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Document is a unit of text to analyze
type Document struct {
	Origin    string    `json:"origin"` // URL, file path or "stdin"
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ReadFile loads a local document. A path of "-" reads stdin.
// HTML input (by flag or by extension) is reduced to its readable text.
func ReadFile(path string, isHTML bool) (*Document, error) {
	if path == "-" {
		return ReadFrom("stdin", os.Stdin, isHTML)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		isHTML = true
	}

	return ReadFrom(path, f, isHTML)
}

// ReadFrom loads a document from any reader
func ReadFrom(origin string, r io.Reader, isHTML bool) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", origin, err)
	}

	doc := &Document{
		Origin:    origin,
		Text:      string(data),
		FetchedAt: time.Now().UTC(),
	}

	if isHTML {
		title, text := HTMLText(string(data), "")
		doc.Title = title
		doc.Text = text
	}

	return doc, nil
}
