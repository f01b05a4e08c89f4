// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers. It is the single
// source of truth for model names and sampling parameters; every component
// that needs them reads from here rather than carrying its own defaults.
type Config struct {
	// APIKey authenticates against the provider API.
	APIKey string

	// BaseURL overrides the provider endpoint. Empty means the provider's
	// public API. Example: "http://localhost:11434/v1" for a local
	// OpenAI-compatible server.
	BaseURL string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-ada-002"
	EmbeddingModel string

	// EmbeddingDimensions is the output width of the embedding model.
	// The vector index dimension must match it.
	EmbeddingDimensions int

	// ChatModel is the model identifier to use for answer generation.
	// Example: "gpt-4"
	ChatModel string

	// Temperature controls answer variability. 0 is deterministic.
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets a custom provider endpoint.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier and its output width.
func WithEmbeddingModel(model string, dimensions int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
		c.EmbeddingDimensions = dimensions
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// DefaultConfig returns a Config with the models the moon index was built
// with: ada-002 embeddings (1536 dimensions) and gpt-4 chat, deterministic
// sampling.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel:      "text-embedding-ada-002",
		EmbeddingDimensions: 1536,
		ChatModel:           "gpt-4",
		Temperature:         0.0,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(key),
//	    ai.WithTemperature(0.7),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// A custom BaseURL gains the /v1 suffix expected by OpenAI-compatible APIs
// if it is missing.
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.EmbeddingDimensions <= 0 {
		return errors.New("ai config: EmbeddingDimensions must be positive")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	return nil
}
