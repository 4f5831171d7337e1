package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestNewGeneratorUnknownProvider(t *testing.T) {
	_, err := NewGenerator(t.Context(), Config{Name: "mistral"})
	if err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
	if !strings.Contains(err.Error(), "mistral") {
		t.Errorf("error should name the provider, got %q", err)
	}
}

func TestToolResponse(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		wantKey string
	}{
		{"object passes through", map[string]string{"lang": "Go"}, "lang"},
		{"slice wrapped under result", []string{"a", "b"}, "result"},
		{"scalar wrapped under result", 42, "result"},
		{"string wrapped under result", "hello", "result"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toolResponse(tt.in)
			if _, ok := got[tt.wantKey]; !ok {
				t.Errorf("toolResponse(%v) = %v, want key %q", tt.in, got, tt.wantKey)
			}
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	args, err := decodeArgs([]byte(`{"username":"octocat"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args["username"] != "octocat" {
		t.Errorf("args = %v", args)
	}

	args, err = decodeArgs(nil)
	if err != nil {
		t.Fatalf("empty input should decode to an empty map, got %v", err)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}

	if _, err := decodeArgs([]byte(`not json`)); err == nil {
		t.Error("expected an error for malformed arguments")
	}
}

func TestDispatchTools(t *testing.T) {
	tools := toolIndex([]Tool{
		{
			Name: "ok",
			Handler: func(_ context.Context, args map[string]any) (any, error) {
				return map[string]any{"echo": args["v"]}, nil
			},
		},
		{
			Name: "broken",
			Handler: func(context.Context, map[string]any) (any, error) {
				return nil, errors.New("upstream down")
			},
		},
	})

	calls := []toolCall{
		{id: "1", name: "ok", args: map[string]any{"v": "x"}},
		{id: "2", name: "broken"},
		{id: "3", name: "missing"},
	}
	results := dispatchTools(t.Context(), tools, calls)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, call := range calls {
		if results[i].id != call.id {
			t.Errorf("results[%d].id = %q, want %q (order must match calls)", i, results[i].id, call.id)
		}
	}
	if results[0].failed {
		t.Error("successful handler marked failed")
	}
	if results[0].payload["echo"] != "x" {
		t.Errorf("payload = %v", results[0].payload)
	}
	if !results[1].failed || results[1].payload["error"] != "upstream down" {
		t.Errorf("handler error should become a failed result, got %+v", results[1])
	}
	if !results[2].failed {
		t.Errorf("unknown tool should become a failed result, got %+v", results[2])
	}
}

func TestMergeToolCallDelta(t *testing.T) {
	idx0, idx1 := 0, 1
	deltas := []openai.ToolCall{
		{Index: &idx0, ID: "call_a", Function: openai.FunctionCall{Name: "fetchGithubRepos", Arguments: `{"user`}},
		{Index: &idx1, ID: "call_b", Function: openai.FunctionCall{Name: "fetchLanguageStats", Arguments: "{}"}},
		{Index: &idx0, Function: openai.FunctionCall{Arguments: `name":"octocat"}`}},
	}
	var acc []openai.ToolCall
	for _, d := range deltas {
		acc = mergeToolCallDelta(acc, d)
	}
	if len(acc) != 2 {
		t.Fatalf("got %d calls, want 2", len(acc))
	}
	if acc[0].ID != "call_a" || acc[0].Function.Name != "fetchGithubRepos" {
		t.Errorf("acc[0] = %+v", acc[0])
	}
	if acc[0].Function.Arguments != `{"username":"octocat"}` {
		t.Errorf("arguments not accumulated: %q", acc[0].Function.Arguments)
	}
	if acc[1].ID != "call_b" || acc[1].Function.Arguments != "{}" {
		t.Errorf("acc[1] = %+v", acc[1])
	}
}

func TestOpenAITools(t *testing.T) {
	tools := openaiTools([]Tool{{
		Name:        "fetchGithubRepos",
		Description: "recent repos",
		Params: []ToolParam{
			{Name: "username", Type: "string", Description: "GitHub login", Required: true},
		},
	}})
	if len(tools) != 1 {
		t.Fatalf("got %d tools, want 1", len(tools))
	}
	fn := tools[0].Function
	if fn.Name != "fetchGithubRepos" {
		t.Errorf("name = %q", fn.Name)
	}
	params, ok := fn.Parameters.(map[string]any)
	if !ok {
		t.Fatalf("parameters are %T, want map", fn.Parameters)
	}
	required, _ := params["required"].([]string)
	if len(required) != 1 || required[0] != "username" {
		t.Errorf("required = %v", required)
	}
}

func TestGeminiDeclarations(t *testing.T) {
	decls := geminiDeclarations([]Tool{{
		Name: "fetchCommitMessages",
		Params: []ToolParam{
			{Name: "username", Type: "string", Required: true},
			{Name: "limit", Type: "integer"},
		},
	}})
	if len(decls) != 1 {
		t.Fatalf("got %d declarations, want 1", len(decls))
	}
	schema := decls[0].Parameters
	if len(schema.Properties) != 2 {
		t.Errorf("got %d properties, want 2", len(schema.Properties))
	}
	if len(schema.Required) != 1 || schema.Required[0] != "username" {
		t.Errorf("required = %v", schema.Required)
	}
}
