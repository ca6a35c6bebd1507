/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chainguard.dev/vqaeval/agents/agenttrace"
	"chainguard.dev/vqaeval/agents/metrics"
	"chainguard.dev/vqaeval/agents/retry"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// errEmptyContent is returned for a well-formed reply whose message is blank.
var errEmptyContent = errors.New("judge returned empty content")

// errNoChoices is returned for a well-formed reply without any choices.
var errNoChoices = errors.New("judge response has no choices")

// errNoModel is returned for a reply that does not name the model that produced it.
var errNoModel = errors.New("judge response has no model")

// Client implements Interface against an OpenAI-compatible endpoint.
type Client struct {
	client   openai.Client
	model    string
	apiType  APIType
	timeout  time.Duration
	retry    retry.Config
	genai    *metrics.GenAI
	endpoint *url.URL
	http     *http.Client
}

var _ Interface = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		c.http = hc
		return nil
	}
}

// WithGenAIMetrics overrides the token usage recorder.
func WithGenAIMetrics(m *metrics.GenAI) Option {
	return func(c *Client) error {
		if m == nil {
			return errors.New("genai metrics cannot be nil")
		}
		c.genai = m
		return nil
	}
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid judge config: %w", err)
	}
	endpoint, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing API URL: %w", err)
	}

	c := &Client{
		model:    cfg.Model,
		apiType:  cfg.APIType,
		timeout:  cfg.Timeout,
		endpoint: endpoint,
		http:     http.DefaultClient,
		genai:    metrics.NewGenAI("chainguard.ai.vqaeval"),
		retry: retry.Config{
			Attempts: cfg.Retries,
			Delay:    cfg.RetryDelay,
		},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// The SDK appends its own path to the base URL; the middleware pins every
	// request to the configured endpoint so non-standard URLs keep working.
	base := &url.URL{Scheme: endpoint.Scheme, Host: endpoint.Host, Path: "/"}
	c.client = openai.NewClient(
		option.WithBaseURL(base.String()),
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(c.http),
		option.WithMaxRetries(0),
		option.WithMiddleware(c.rewrite(cfg.APIKey)),
	)
	return c, nil
}

// rewrite points the outgoing request at the configured endpoint and applies
// the credential header for the API type.
func (c *Client) rewrite(apiKey string) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		u := *c.endpoint
		req.URL = &u
		req.Host = u.Host
		if c.apiType == Azure {
			req.Header.Del("Authorization")
			req.Header.Set("api-key", apiKey)
		}
		return next(req)
	}
}

// Judge implements Interface.
func (c *Client) Judge(ctx context.Context, request *Request) Response {
	prompt := userPrompt(request)
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(int64(request.MaxTokens)),
	}

	trace := agenttrace.StartTrace(ctx, c.model, prompt)
	resp, err := retry.Do(trace.Context(), c.retry, "judge", func(ctx context.Context, n int) (Response, error) {
		a := trace.StartAttempt(n)
		resp, label, err := c.attempt(ctx, trace, params)
		attemptCounter.WithLabelValues(c.model, label).Inc()
		a.Complete(label, err)
		return resp, err
	})
	trace.Complete(resp.Content, err)
	if err != nil {
		exhaustedCounter.WithLabelValues(c.model).Inc()
		clog.FromContext(ctx).With("model", c.model).
			With("error", err.Error()).
			Warn("Judging unavailable for request")
		return Response{}
	}
	return resp
}

// attempt makes one call and returns the reply with its outcome label.
func (c *Client) attempt(ctx context.Context, trace *agenttrace.Trace, params openai.ChatCompletionNewParams) (Response, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Response{}, outcome(err), err
	}
	if len(completion.Choices) == 0 {
		return Response{}, "malformed", errNoChoices
	}
	if completion.Model == "" {
		return Response{}, "malformed", errNoModel
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return Response{}, "empty", errEmptyContent
	}

	trace.RecordTokenUsage(completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	c.genai.RecordTokens(ctx, completion.Model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens,
		agenttrace.GetRecordContext(ctx).EnrichAttributes(nil)...)

	return Response{Content: content, Model: completion.Model}, "success", nil
}

// outcome labels a failed attempt for metrics.
func outcome(err error) string {
	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("http_%d", apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
