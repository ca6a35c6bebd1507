/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// APIType selects how credentials are presented to the endpoint.
type APIType string

const (
	// OpenAI sends the key as a bearer token.
	OpenAI APIType = "openai"
	// Azure sends the key in an api-key header.
	Azure APIType = "azure"
)

// DefaultURL is the OpenAI chat-completions endpoint.
const DefaultURL = "https://api.openai.com/v1/chat/completions"

// DefaultModel is the judge model used when none is configured.
const DefaultModel = "gpt-3.5-turbo-0613"

// Config holds everything the Client needs. The env tags allow it to be
// populated with github.com/sethvargo/go-envconfig.
type Config struct {
	// URL is the full chat-completions endpoint.
	URL string `env:"API_URL,default=https://api.openai.com/v1/chat/completions"`

	// APIKey authenticates requests.
	APIKey string `env:"API_KEY"`

	// APIType controls the authentication header.
	APIType APIType `env:"API_TYPE,default=openai"`

	// Model is the judge model name sent with every request.
	Model string `env:"JUDGE_MODEL,default=gpt-3.5-turbo-0613"`

	// Timeout bounds each individual attempt.
	Timeout time.Duration `env:"JUDGE_TIMEOUT,default=60s"`

	// Retries is the total number of attempts per request.
	Retries int `env:"JUDGE_RETRIES,default=5"`

	// RetryDelay is slept between attempts.
	RetryDelay time.Duration `env:"JUDGE_RETRY_DELAY,default=5s"`
}

// DefaultConfig returns a Config with the same defaults as the env tags.
func DefaultConfig() Config {
	return Config{
		URL:        DefaultURL,
		APIType:    OpenAI,
		Model:      DefaultModel,
		Timeout:    60 * time.Second,
		Retries:    5,
		RetryDelay: 5 * time.Second,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("parsing API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API URL %q must be http or https", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("API URL %q has no host", c.URL)
	}
	switch c.APIType {
	case OpenAI, Azure:
	default:
		return fmt.Errorf("unsupported API type: %q", c.APIType)
	}
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Retries < 1 {
		return errors.New("retries must be at least 1")
	}
	if c.RetryDelay < 0 {
		return errors.New("retry delay cannot be negative")
	}
	return nil
}
