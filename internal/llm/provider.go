// Package llm asks language models about a brand so their answers can be
// tracked for citations.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPrompt is returned when a request has neither a brand nor a prompt
var ErrEmptyPrompt = errors.New("brand or prompt is required")

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Ask sends one question and returns the model's answer
	Ask(ctx context.Context, req AskRequest) (*AskResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AskRequest contains the input for a single question
type AskRequest struct {
	// Brand is the subject of the default prompt
	Brand string

	// Question narrows the default prompt (optional)
	Question string

	// Prompt replaces the default prompt entirely (optional)
	Prompt string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AskResponse contains the model's answer
type AskResponse struct {
	// Answer is the raw answer text, the input for citation tracking
	Answer string

	// Prompt is the prompt that produced the answer
	Prompt string

	// CitedURLs are the URLs present in the answer
	CitedURLs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI; Ollama needs none
	APIKey string

	// BaseURL for custom OpenAI-compatible endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   60,
		MaxTokens: 1500,
	}
}

// BuildBrandPrompt asks for an overview of the brand with named sources,
// the way a user would ask an AI assistant
func BuildBrandPrompt(brand, question string) string {
	brand = strings.TrimSpace(brand)
	question = strings.TrimSpace(question)

	var b strings.Builder
	if question != "" {
		fmt.Fprintf(&b, "%s\n\n", question)
	} else {
		fmt.Fprintf(&b, "What can you tell me about %s? How is it regarded, and how does it compare with its alternatives?\n\n", brand)
	}

	fmt.Fprintf(&b, `When answering about %s:
- Name the sources your statements rely on (publications, studies, review sites, official pages).
- Include full URLs for sources where you know them.
- Say "according to <source>" when a claim comes from a specific source.
`, brand)

	return b.String()
}

func resolvePrompt(req AskRequest) (string, error) {
	if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
		return prompt, nil
	}
	if strings.TrimSpace(req.Brand) == "" {
		return "", ErrEmptyPrompt
	}
	return BuildBrandPrompt(req.Brand, req.Question), nil
}
