package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_Rules(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		robotsHits.Add(1)
		_, _ = fmt.Fprint(w, "User-agent: citewatch\nDisallow: /drafts\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n")
	}))
	defer server.Close()

	checker := NewRobotsChecker("citewatch/0.1 (+https://example.com)", nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/articles/1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !allowed {
		t.Error("Expected /articles to be allowed for citewatch")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected crawl delay 2s, got %v", delay)
	}

	allowed, _, _ = checker.CanFetch(ctx, server.URL+"/drafts/secret")
	if allowed {
		t.Error("Expected /drafts to be disallowed")
	}

	if robotsHits.Load() != 1 {
		t.Errorf("Expected robots.txt fetched once per host, got %d", robotsHits.Load())
	}

	checker.Clear()
	_, _, _ = checker.CanFetch(ctx, server.URL+"/articles/2")
	if robotsHits.Load() != 2 {
		t.Errorf("Expected refetch after Clear, got %d", robotsHits.Load())
	}
}

func TestRobotsChecker_MissingFileAllowsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	allowed, _, err := NewRobotsChecker("citewatch", nil).CanFetch(context.Background(), server.URL+"/anything")
	if err != nil || !allowed {
		t.Errorf("Expected allowed with no robots.txt, got %v (%v)", allowed, err)
	}
}

func TestRobotsChecker_UnreachableAllowsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	allowed, _, err := NewRobotsChecker("citewatch", nil).CanFetch(context.Background(), url+"/page")
	if err != nil || !allowed {
		t.Errorf("Expected allowed when robots.txt is unreachable, got %v (%v)", allowed, err)
	}
}

func TestProductToken(t *testing.T) {
	tests := map[string]string{
		"citewatch/0.1 (+https://x)": "citewatch",
		"Bot":                        "Bot",
		"":                           "",
	}
	for input, expected := range tests {
		if got := productToken(input); got != expected {
			t.Errorf("Expected %q for %q, got %q", expected, input, got)
		}
	}
}
