// Package genai is a minimal client for the generative text-editing and
// image-generation APIs used by autodeck.
package genai

import (
	"net/http"
	"strings"
	"time"
)

// Default values applied by NewClient when the corresponding Config
// field is zero.
const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultTextModel = "text-davinci-edit-001"
	DefaultTimeout   = 120 * time.Second

	// MaxPromptChars is the hard cap applied to image prompts.
	MaxPromptChars = 1000
)

// Config holds client configuration. The API key is the only required
// field.
type Config struct {
	APIKey    string
	BaseURL   string        // Defaults to DefaultBaseURL
	TextModel string        // Defaults to DefaultTextModel
	Timeout   time.Duration // Defaults to DefaultTimeout
	// HTTPClient overrides the HTTP client, primarily for tests.
	HTTPClient *http.Client
}

// Client talks to the generative APIs. All calls block; failures return
// wrapped errors and are never retried.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	httpClient *http.Client
}

// NewClient constructs a client from config, applying defaults.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	textModel := config.TextModel
	if textModel == "" {
		textModel = DefaultTextModel
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		textModel:  textModel,
		httpClient: httpClient,
	}
}

// truncateRunes caps s at n runes without splitting a multi-byte
// character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
