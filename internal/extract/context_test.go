package extract

import (
	"strings"
	"sync"
	"testing"
)

func TestExtractContext(t *testing.T) {
	tests := []struct {
		text     string
		position int
		window   int
		expected string
		desc     string
	}{
		{"0123456789", 5, 2, "...3456...", "truncated on both sides"},
		{"0123456789", 0, 3, "012...", "match at start"},
		{"0123456789", 9, 5, "...456789", "match near end"},
		{"0123456789", 4, 100, "0123456789", "window larger than text"},
		{"  padded text  ", 2, 100, "padded text", "whitespace trimmed"},
		{"", 0, 150, "", "empty text"},
		{"Café au lait", 5, 2, "...é au...", "rune offsets"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result := ExtractContext(tt.text, tt.position, tt.window)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
		desc     string
	}{
		{"Acme is the best and most trusted vendor", 0.3, "two positive keywords"},
		{"Acme faced a lawsuit and a scandal", -0.3, "two negative keywords"},
		{"best best best", 0.15, "distinct keywords count once"},
		{"The product is unreliable", -0.15, "word-start anchoring"},
		{"Great support but frequent outages", 0, "balanced"},
		{"The BEST option", 0.15, "case-insensitive"},
		{"", 0, "empty"},
		{"A neutral sentence about widgets", 0, "no keywords"},
		{"Reviewers call it an excellent product", 0.15, "excellent"},
		{"Users should avoid this vendor", -0.15, "avoid alone"},
		{"Avoid it, there is a known problem with billing", -0.3, "avoid and problem"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result := Sentiment(tt.text)
			if result != tt.expected {
				t.Errorf("Expected %v for %q, got %v", tt.expected, tt.text, result)
			}
		})
	}
}

func TestSentiment_Clamped(t *testing.T) {
	positive := Sentiment(strings.Join(positiveKeywords, " "))
	if positive != 1 {
		t.Errorf("Expected clamp to 1, got %v", positive)
	}

	negative := Sentiment(strings.Join(negativeKeywords, " "))
	if negative != -1 {
		t.Errorf("Expected clamp to -1, got %v", negative)
	}
}

func TestSentiment_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan float64, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Sentiment("the best and most trusted"); got != 0.3 {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("Expected 0.3 under concurrency, got %v", got)
	}
}
