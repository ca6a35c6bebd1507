/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submission

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/vqaeval/agents/artifact"
	"chainguard.dev/vqaeval/agents/verdict"
	"github.com/google/go-cmp/cmp"
)

func testStore(t *testing.T) *artifact.Dir {
	t.Helper()
	d, err := artifact.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir() = %v", err)
	}
	return d
}

func TestProcessOne(t *testing.T) {
	doc := Doc{
		VideoName:  "v1",
		Question:   "What color is the ball",
		Answer:     "red",
		QuestionID: StringTag("v1_0"),
		Type:       IntTag(4),
	}
	got := ProcessOne(doc, "The ball is red")
	want := Record{
		VideoName:  "v1",
		Question:   "What color is the ball",
		Answer:     "red",
		Prediction: "The ball is red",
		QuestionID: StringTag("v1_0"),
		Type:       IntTag(4),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProcessOne() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	records := []Record{{
		VideoName: "v_abc", Question: "is the man dancing", Answer: "yes",
		Prediction: "Yes, he is.", QuestionID: StringTag("v_abc_1"), Type: IntTag(3),
	}, {
		VideoName: "v_def", Question: "what color is the car", Answer: "white",
		Prediction: "", QuestionID: IntTag(17), Type: StringTag("color"),
	}, {
		VideoName: "v_ghi", Question: "how many \"people\"", Answer: "2",
		Prediction: "two <people>", QuestionID: StringTag("v_ghi_0"),
	}}

	path, err := Collect(ctx, store, "activitynetqa", records)
	if err != nil {
		t.Fatalf("Collect() = %v", err)
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "activitynetqa_") || !strings.HasSuffix(base, ".json") {
		t.Errorf("artifact name = %q, want activitynetqa_*.json", base)
	}

	got, err := Load(ctx, store, path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_ArtifactLayout(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	path, err := Collect(ctx, store, "task", []Record{{
		VideoName: "v1", Question: "q", Answer: "a", Prediction: "p",
		QuestionID: StringTag("id1"), Type: IntTag(0),
	}})
	if err != nil {
		t.Fatalf("Collect() = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var generic []map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("artifact is not a JSON array: %v", err)
	}
	want := []map[string]any{{
		"video_name": "v1", "Q": "q", "A": "a", "pred": "p",
		"question_id": "id1", "type": float64(0),
	}}
	if diff := cmp.Diff(want, generic); diff != "" {
		t.Errorf("artifact mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_EmptyBatch(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	path, err := Collect(ctx, store, "task", nil)
	if err != nil {
		t.Fatalf("Collect() = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(raw)); got != "[]" {
		t.Errorf("empty batch artifact = %q, want []", got)
	}
}

func TestEvaluated_Layout(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	r := Record{
		VideoName: "v1", Question: "q", Answer: "a", Prediction: "p",
		QuestionID: StringTag("id1"), Type: IntTag(2),
	}
	e := Evaluate(r, verdict.Verdict{Correctness: verdict.Yes, Score: 4})

	path, err := SaveEvaluated(ctx, store, "task", []Evaluated{e})
	if err != nil {
		t.Fatalf("SaveEvaluated() = %v", err)
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "gpt_eval_result_task_") {
		t.Errorf("artifact name = %q", base)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	keys := []string{`"video_name"`, `"Correctness"`, `"score"`, `"Q"`, `"A"`, `"pred"`, `"question_id"`, `"type"`}
	last := -1
	for _, k := range keys {
		i := strings.Index(string(raw), k)
		if i <= last {
			t.Fatalf("key %s out of order in:\n%s", k, raw)
		}
		last = i
	}

	got, err := LoadEvaluated(ctx, store, path)
	if err != nil {
		t.Fatalf("LoadEvaluated() = %v", err)
	}
	if diff := cmp.Diff([]Evaluated{e}, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(r, got[0].Record()); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}
	if got[0].Verdict() != (verdict.Verdict{Correctness: verdict.Yes, Score: 4}) {
		t.Errorf("Verdict() = %v", got[0].Verdict())
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantString string
		wantZero   bool
		wantErr    bool
	}{{
		name:       "string",
		json:       `"v_123_4"`,
		wantString: "v_123_4",
	}, {
		name:       "number",
		json:       `7`,
		wantString: "7",
	}, {
		name:     "null",
		json:     `null`,
		wantZero: true,
	}, {
		name:    "object",
		json:    `{"a": 1}`,
		wantErr: true,
	}, {
		name:    "array",
		json:    `[1]`,
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tag Tag
			err := json.Unmarshal([]byte(tt.json), &tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := tag.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
			if got := tag.IsZero(); got != tt.wantZero {
				t.Errorf("IsZero() = %v, want %v", got, tt.wantZero)
			}
			out, err := json.Marshal(tag)
			if err != nil {
				t.Fatalf("Marshal() = %v", err)
			}
			if string(out) != tt.json {
				t.Errorf("Marshal() = %s, want %s", out, tt.json)
			}
		})
	}

	if !IntTag(3).Equal(IntTag(3)) || IntTag(3).Equal(StringTag("3")) {
		t.Error("Equal() should compare encodings")
	}
	if !(Tag{}).Equal(Tag{raw: json.RawMessage("null")}) {
		t.Error("absent and null tags should be equal")
	}
}
