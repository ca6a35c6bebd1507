/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/vqaeval/agents/agenttrace"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const testModel = "gpt-judge-test"

// completion renders a minimal chat-completions response body.
func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   testModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
			},
		}},
		"usage": map[string]any{
			"prompt_tokens":     42,
			"completion_tokens": 9,
			"total_tokens":      51,
		},
	})
	return string(body)
}

// newTestClient returns a Client pointed at srv with fast retries.
func newTestClient(t *testing.T, srv *httptest.Server, mutate ...func(*Config)) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.URL = srv.URL + "/v1/chat/completions"
	cfg.APIKey = "test-key"
	cfg.Model = testModel
	cfg.Retries = 3
	cfg.RetryDelay = time.Millisecond
	cfg.Timeout = 5 * time.Second
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return c
}

func testRequest() *Request {
	return &Request{
		Question:        "What color is the ball",
		ReferenceAnswer: "red",
		Prediction:      "The ball is red",
		MaxTokens:       64,
	}
}

func TestJudge_Success(t *testing.T) {
	var hits atomic.Int32
	var gotBody map[string]any
	var gotAuth, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completion("  {'pred': 'yes', 'score': 5}\n"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got := c.Judge(t.Context(), testRequest())

	want := Response{Content: "{'pred': 'yes', 'score': 5}", Model: testModel}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Judge() mismatch (-want +got):\n%s", diff)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("hits: got = %d, wanted = 1", n)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization: got = %q, wanted = %q", gotAuth, "Bearer test-key")
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path: got = %q, wanted = %q", gotPath, "/v1/chat/completions")
	}

	if gotBody["model"] != testModel {
		t.Errorf("model: got = %v, wanted = %v", gotBody["model"], testModel)
	}
	if gotBody["temperature"] != float64(0) {
		t.Errorf("temperature: got = %v, wanted = 0", gotBody["temperature"])
	}
	if gotBody["max_tokens"] != float64(64) {
		t.Errorf("max_tokens: got = %v, wanted = 64", gotBody["max_tokens"])
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages: got = %v, wanted 2 messages", gotBody["messages"])
	}
	sys, _ := msgs[0].(map[string]any)
	user, _ := msgs[1].(map[string]any)
	if sys["role"] != "system" || user["role"] != "user" {
		t.Errorf("roles: got = %v/%v, wanted = system/user", sys["role"], user["role"])
	}
	content, _ := user["content"].(string)
	for _, part := range []string{"Question: What color is the ball", "Correct Answer: red", "Predicted Answer: The ball is red"} {
		if !strings.Contains(content, part) {
			t.Errorf("user message missing %q:\n%s", part, content)
		}
	}
}

func TestJudge_RetriesThenGivesUp(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{{
		name: "server error",
		handler: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusInternalServerError)
		},
	}, {
		name: "rate limited",
		handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": {"message": "slow down"}}`)
		},
	}, {
		name: "non-JSON body",
		handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, "<html>bad gateway</html>")
		},
	}, {
		name: "empty content",
		handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, completion("   "))
		},
	}, {
		name: "no choices",
		handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id": "x", "object": "chat.completion", "model": %q, "choices": []}`, testModel)
		},
	}, {
		name: "no model",
		handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": "x", "object": "chat.completion", "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{'pred': 'yes', 'score': 5}"}}]}`)
		},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				tt.handler(w, r)
			}))
			defer srv.Close()

			c := newTestClient(t, srv, func(cfg *Config) { cfg.Retries = 4 })
			got := c.Judge(t.Context(), testRequest())

			if !got.Empty() {
				t.Errorf("Judge() = %+v, want empty sentinel", got)
			}
			if n := hits.Load(); n != 4 {
				t.Errorf("hits: got = %d, wanted = 4", n)
			}
		})
	}
}

func TestJudge_RecoversAfterTransientFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completion("{'pred': 'no', 'score': 1}"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got := c.Judge(t.Context(), testRequest())

	if got.Content != "{'pred': 'no', 'score': 1}" {
		t.Errorf("Content: got = %q", got.Content)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("hits: got = %d, wanted = 2", n)
	}
}

func TestJudge_RecordsTrace(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completion("{'pred': 'yes', 'score': 4}"))
	}))
	defer srv.Close()

	var traces []*agenttrace.Trace
	ctx := agenttrace.WithTracer(t.Context(), agenttrace.ByCode(func(tr *agenttrace.Trace) {
		traces = append(traces, tr)
	}))
	ctx = agenttrace.WithRecordContext(ctx, agenttrace.RecordContext{Task: "vqa", QuestionID: "q-9"})

	c := newTestClient(t, srv)
	c.Judge(ctx, testRequest())

	if len(traces) != 1 {
		t.Fatalf("traces: got = %d, wanted = 1", len(traces))
	}
	tr := traces[0]
	if tr.QuestionID != "q-9" {
		t.Errorf("QuestionID: got = %s, wanted = q-9", tr.QuestionID)
	}
	var outcomes []string
	for _, a := range tr.Attempts {
		outcomes = append(outcomes, a.Outcome)
	}
	if diff := cmp.Diff([]string{"http_429", "success"}, outcomes); diff != "" {
		t.Errorf("attempt outcomes mismatch (-want +got):\n%s", diff)
	}
	if tr.Reply != "{'pred': 'yes', 'score': 4}" {
		t.Errorf("Reply: got = %q", tr.Reply)
	}
	if tr.InputTokens != 42 || tr.OutputTokens != 9 {
		t.Errorf("tokens: got = %d/%d, wanted = 42/9", tr.InputTokens, tr.OutputTokens)
	}
}

func TestJudge_AttemptTimeout(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *Config) {
		cfg.Retries = 2
		cfg.Timeout = 50 * time.Millisecond
	})
	if got := c.Judge(t.Context(), testRequest()); !got.Empty() {
		t.Errorf("Judge() = %+v, want empty sentinel", got)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("hits: got = %d, wanted = 2", n)
	}
}

func TestJudge_ExhaustedCounter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	before := testutil.ToFloat64(exhaustedCounter.WithLabelValues(testModel))
	c := newTestClient(t, srv, func(cfg *Config) { cfg.Retries = 1 })
	c.Judge(t.Context(), testRequest())

	if after := testutil.ToFloat64(exhaustedCounter.WithLabelValues(testModel)); after != before+1 {
		t.Errorf("exhausted counter: got = %v, wanted = %v", after, before+1)
	}
}

func TestJudge_AzureHeaderAndCustomEndpoint(t *testing.T) {
	var gotKey, gotAuth, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completion("{'pred': 'yes', 'score': 3}"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, func(cfg *Config) {
		cfg.APIType = Azure
		cfg.URL = srv.URL + "/openai/deployments/judge/chat/completions?api-version=2024-02-01"
	})
	if got := c.Judge(t.Context(), testRequest()); got.Empty() {
		t.Fatal("Judge() returned empty sentinel")
	}

	if gotKey != "test-key" {
		t.Errorf("api-key: got = %q, wanted = %q", gotKey, "test-key")
	}
	if gotAuth != "" {
		t.Errorf("Authorization: got = %q, wanted empty", gotAuth)
	}
	if gotPath != "/openai/deployments/judge/chat/completions" {
		t.Errorf("path: got = %q", gotPath)
	}
	if gotQuery != "api-version=2024-02-01" {
		t.Errorf("query: got = %q", gotQuery)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{{
		name:   "defaults",
		mutate: func(*Config) {},
	}, {
		name:    "bad scheme",
		mutate:  func(c *Config) { c.URL = "ftp://example.com/v1/chat/completions" },
		wantErr: true,
	}, {
		name:    "no host",
		mutate:  func(c *Config) { c.URL = "https:///v1/chat/completions" },
		wantErr: true,
	}, {
		name:    "unknown api type",
		mutate:  func(c *Config) { c.APIType = "qwen" },
		wantErr: true,
	}, {
		name:    "no model",
		mutate:  func(c *Config) { c.Model = "" },
		wantErr: true,
	}, {
		name:    "zero retries",
		mutate:  func(c *Config) { c.Retries = 0 },
		wantErr: true,
	}, {
		name:    "zero timeout",
		mutate:  func(c *Config) { c.Timeout = 0 },
		wantErr: true,
	}, {
		name:    "negative delay",
		mutate:  func(c *Config) { c.RetryDelay = -time.Second },
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserPrompt(t *testing.T) {
	got := userPrompt(testRequest())
	want := "Question: What color is the ball\nCorrect Answer: red\nPredicted Answer: The ball is red\n\n"
	if !strings.Contains(got, want) {
		t.Errorf("userPrompt() = %q, want it to contain %q", got, want)
	}
	if !strings.Contains(got, "'pred'") || !strings.Contains(got, "'score'") {
		t.Error("userPrompt() does not name the pred/score keys")
	}
}
