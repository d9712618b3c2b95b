package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedReader turns RSS and Atom items into documents
type FeedReader struct {
	fetcher *Fetcher
}

// NewFeedReader creates a feed reader that downloads through fetcher
func NewFeedReader(fetcher *Fetcher) *FeedReader {
	return &FeedReader{fetcher: fetcher}
}

// Read downloads a feed; each item becomes one document. Feeds are never cached.
func (r *FeedReader) Read(ctx context.Context, feedURL string) ([]Document, error) {
	body, _, finalURL, err := r.fetcher.get(ctx, feedURL,
		"application/rss+xml,application/atom+xml,application/feed+json,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return ParseFeed(finalURL, bytes.NewReader(body))
}

// ParseFeed parses an RSS, Atom or JSON feed. Items without any text are skipped.
func ParseFeed(feedURL string, r io.Reader) ([]Document, error) {
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	now := time.Now().UTC()
	docs := make([]Document, 0, len(parsed.Items))

	for i, item := range parsed.Items {
		title := strings.TrimSpace(item.Title)
		var parts []string
		if title != "" {
			parts = append(parts, title)
		}
		for _, s := range []string{item.Description, item.Content} {
			if text := StripTags(s); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) == 0 {
			continue
		}

		docs = append(docs, Document{
			Origin:    itemOrigin(feedURL, i, item),
			Title:     title,
			Text:      strings.Join(parts, "\n"),
			FetchedAt: now,
		})
	}

	return docs, nil
}

// itemOrigin prefers the item link, then a URL-like GUID, then a feed position
func itemOrigin(feedURL string, index int, item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return fmt.Sprintf("%s#%d", feedURL, index)
}
