// Package llm abstracts the LLM backends behind a single Generator
// interface. GenerateStream runs a streamed, tool-calling conversation
// and forwards text chunks as they arrive; Complete is a plain one-shot
// completion for callers that do not need tools or streaming.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ProviderName identifies a supported LLM provider.
type ProviderName string

const (
	ProviderGemini    ProviderName = "gemini"
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
)

// maxToolTurns bounds the request/tool-result loop so a model that keeps
// asking for tools cannot spin forever.
const maxToolTurns = 8

// ToolHandler executes one tool call. Args carries the model-provided
// arguments decoded from JSON.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// ToolParam describes one parameter in a tool's input schema.
type ToolParam struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Tool is a function the model may call during a streamed generation.
type Tool struct {
	Name        string
	Description string
	Params      []ToolParam
	Handler     ToolHandler
}

// Request is a streamed generation request.
type Request struct {
	Prompt      string
	Tools       []Tool
	Temperature float32
}

// CompleteOptions controls per-request parameters for Complete.
// A nil value uses provider-specific defaults.
type CompleteOptions struct {
	Temperature *float32
	MaxTokens   int
}

// Generator abstracts an LLM backend.
//
// GenerateStream calls onChunk for every text fragment in arrival order
// and returns the concatenation of all fragments. A non-nil error from
// onChunk aborts the generation. Tool handler failures are reported back
// to the model as failed tool results and never abort the run.
type Generator interface {
	GenerateStream(ctx context.Context, req Request, onChunk func(string) error) (string, error)
	Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error)
}

// Config holds what is needed to construct a Generator.
type Config struct {
	Name   ProviderName
	APIKey string
	Model  string
}

// NewGenerator creates a Generator for the given configuration.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	switch cfg.Name {
	case ProviderGemini:
		return newGemini(ctx, cfg.APIKey, cfg.Model)
	case ProviderOpenAI:
		return newOpenAI(cfg.APIKey, cfg.Model), nil
	case ProviderAnthropic:
		return newAnthropic(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Name)
	}
}

// toolCall is a provider-neutral tool invocation extracted from a model turn.
type toolCall struct {
	id   string
	name string
	args map[string]any
}

// toolResult is the outcome of one tool call. failed results are still
// handed back to the model so it can roast around the gap.
type toolResult struct {
	id      string
	name    string
	payload map[string]any
	failed  bool
}

// dispatchTools runs every call concurrently and returns results in call
// order. A handler error becomes a failed result, never an abort.
func dispatchTools(ctx context.Context, tools map[string]Tool, calls []toolCall) []toolResult {
	results := make([]toolResult, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = runTool(gctx, tools, call)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runTool(ctx context.Context, tools map[string]Tool, call toolCall) toolResult {
	res := toolResult{id: call.id, name: call.name}
	tool, ok := tools[call.name]
	if !ok {
		slog.Warn("model requested unknown tool", "tool", call.name)
		res.failed = true
		res.payload = map[string]any{"error": fmt.Sprintf("unknown tool %q", call.name)}
		return res
	}
	out, err := tool.Handler(ctx, call.args)
	if err != nil {
		slog.Warn("tool call failed", "tool", call.name, "error", err)
		res.failed = true
		res.payload = map[string]any{"error": err.Error()}
		return res
	}
	res.payload = toolResponse(out)
	return res
}

// toolResponse flattens a handler result into the object shape the
// provider APIs expect. Non-object results are wrapped under "result".
func toolResponse(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("encoding tool result: %v", err)}
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj
	}
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		return map[string]any{"error": fmt.Sprintf("decoding tool result: %v", err)}
	}
	return map[string]any{"result": anyVal}
}

// toolIndex maps tool names to their definitions for dispatch.
func toolIndex(tools []Tool) map[string]Tool {
	idx := make(map[string]Tool, len(tools))
	for _, t := range tools {
		idx[t.Name] = t
	}
	return idx
}

// decodeArgs turns a raw JSON argument blob into the map handlers take.
// Empty input means a call with no arguments.
func decodeArgs(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decoding tool arguments: %w", err)
	}
	return args, nil
}
