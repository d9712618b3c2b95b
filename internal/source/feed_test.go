package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Acme News</title>
  <link>https://news.example.com</link>
  <description>Coverage of Acme</description>
  <item>
    <title>Acme raises prices</title>
    <link>https://news.example.com/acme-prices</link>
    <description><![CDATA[<p>According to <a href="https://www.reuters.com/acme">Reuters</a>, prices rise in May.</p>]]></description>
  </item>
  <item>
    <title>Acme outage</title>
    <guid>https://news.example.com/guid/42</guid>
    <description>Service was restored after two hours.</description>
  </item>
  <item>
    <guid isPermaLink="false">urn:acme:3</guid>
    <description>Analysts are divided.</description>
  </item>
  <item>
    <guid isPermaLink="false">urn:acme:empty</guid>
  </item>
</channel>
</rss>`

func TestParseFeed(t *testing.T) {
	docs, err := ParseFeed("https://news.example.com/feed", strings.NewReader(sampleRSS))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("Expected 3 documents (empty item skipped), got %d", len(docs))
	}

	first := docs[0]
	if first.Origin != "https://news.example.com/acme-prices" {
		t.Errorf("Expected link as origin, got %s", first.Origin)
	}
	if first.Title != "Acme raises prices" {
		t.Errorf("Unexpected title: %s", first.Title)
	}
	if !strings.Contains(first.Text, "According to Reuters (https://www.reuters.com/acme)") {
		t.Errorf("Expected markup stripped with link kept, got %q", first.Text)
	}
	if strings.Contains(first.Text, "<p>") {
		t.Errorf("Expected no markup in text, got %q", first.Text)
	}

	if docs[1].Origin != "https://news.example.com/guid/42" {
		t.Errorf("Expected URL GUID as origin, got %s", docs[1].Origin)
	}
	if docs[2].Origin != "https://news.example.com/feed#2" {
		t.Errorf("Expected positional origin, got %s", docs[2].Origin)
	}
	if docs[2].Text != "Analysts are divided." {
		t.Errorf("Unexpected text for untitled item: %q", docs[2].Text)
	}
}

func TestParseFeed_Invalid(t *testing.T) {
	if _, err := ParseFeed("https://x.example/feed", strings.NewReader("not a feed")); err == nil {
		t.Error("Expected error for invalid feed")
	}
}

func TestFeedReader_Read(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprint(w, sampleRSS)
	}))
	defer server.Close()

	reader := NewFeedReader(NewFetcher(testHTTPConfig()))
	docs, err := reader.Read(context.Background(), server.URL+"/feed.xml")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("Expected 3 documents, got %d", len(docs))
	}
}

func TestFeedReader_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	_, err := NewFeedReader(NewFetcher(testHTTPConfig())).Read(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "read feed") {
		t.Errorf("Expected wrapped read error, got %v", err)
	}
}
