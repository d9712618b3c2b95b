package source

import (
	"net/http"
	"testing"
)

func TestProxyFunc(t *testing.T) {
	proxy := ProxyFunc("", "http://secure-proxy:8443")

	tests := []struct {
		url      string
		expected string
		desc     string
	}{
		{"https://example.com/a", "http://secure-proxy:8443", "https uses configured proxy"},
		{"http://localhost/a", "", "http falls back to environment"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			got, err := proxy(req)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if tt.expected == "" {
				if got != nil {
					t.Errorf("Expected no proxy, got %s", got)
				}
				return
			}
			if got == nil || got.String() != tt.expected {
				t.Errorf("Expected %s, got %v", tt.expected, got)
			}
		})
	}
}
