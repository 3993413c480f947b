package gemini

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// Config holds the Gemini client settings. The API key is held only here and
// must never reach logs or exports.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration

	httpClient *http.Client
}

type Option func(*Config)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.httpClient = client
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func (c *Config) newClient(ctx context.Context) (*genai.Client, error) {
	config := &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,

		HTTPClient: c.httpClient,
	}

	return genai.NewClient(ctx, config)
}
