package app

import "github.com/uiforge/uiforge/internal/ai"

// ClientConfig converts AIConfig to the ai package representation.
func (c AIConfig) ClientConfig() ai.Config {
	return ai.Config{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
		Model:   c.Model,
		Timeout: c.Timeout,
	}
}

// Enabled reports whether an upstream completion endpoint is configured.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}
