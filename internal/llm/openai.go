package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

type openaiGenerator struct {
	client *openai.Client
	model  string
}

func newOpenAI(apiKey, model string) *openaiGenerator {
	return &openaiGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *openaiGenerator) GenerateStream(ctx context.Context, req Request, onChunk func(string) error) (string, error) {
	tools := toolIndex(req.Tools)
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
	}

	var full string
	for turn := 0; turn < maxToolTurns; turn++ {
		stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:       g.model,
			Messages:    messages,
			Temperature: req.Temperature,
			Stream:      true,
			Tools:       openaiTools(req.Tools),
		})
		if err != nil {
			return full, fmt.Errorf("openai stream: %w", err)
		}

		var (
			turnText  string
			toolCalls []openai.ToolCall
		)
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				stream.Close()
				return full, fmt.Errorf("openai stream: %w", err)
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta
			if delta.Content != "" {
				if err := onChunk(delta.Content); err != nil {
					stream.Close()
					return full, err
				}
				full += delta.Content
				turnText += delta.Content
			}
			for _, tc := range delta.ToolCalls {
				toolCalls = mergeToolCallDelta(toolCalls, tc)
			}
		}
		stream.Close()

		if len(toolCalls) == 0 {
			return full, nil
		}

		calls := make([]toolCall, 0, len(toolCalls))
		for _, tc := range toolCalls {
			args, err := decodeArgs([]byte(tc.Function.Arguments))
			if err != nil {
				args = map[string]any{}
			}
			calls = append(calls, toolCall{id: tc.ID, name: tc.Function.Name, args: args})
		}
		results := dispatchTools(ctx, tools, calls)

		messages = append(messages, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   turnText,
			ToolCalls: toolCalls,
		})
		for _, res := range results {
			payload, err := json.Marshal(res.payload)
			if err != nil {
				payload = []byte(`{"error":"encoding tool result"}`)
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: res.id,
				Content:    string(payload),
			})
		}
	}
	return full, fmt.Errorf("openai: tool loop exceeded %d turns", maxToolTurns)
}

func (g *openaiGenerator) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	temp := float32(0.3)
	if opts != nil && opts.Temperature != nil {
		temp = *opts.Temperature
	}
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temp,
	}
	if opts != nil && opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// mergeToolCallDelta folds one streamed tool-call fragment into the
// accumulated list. The first fragment for an index carries the ID and
// function name; later fragments append argument text.
func mergeToolCallDelta(acc []openai.ToolCall, delta openai.ToolCall) []openai.ToolCall {
	idx := len(acc)
	if delta.Index != nil {
		idx = *delta.Index
	}
	for len(acc) <= idx {
		acc = append(acc, openai.ToolCall{Type: openai.ToolTypeFunction})
	}
	if delta.ID != "" {
		acc[idx].ID = delta.ID
	}
	if delta.Function.Name != "" {
		acc[idx].Function.Name = delta.Function.Name
	}
	acc[idx].Function.Arguments += delta.Function.Arguments
	return acc
}

func openaiTools(tools []Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		properties := map[string]any{}
		var required []string
		for _, p := range t.Params {
			properties[p.Name] = map[string]any{
				"type":        schemaType(p.Type),
				"description": p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}
	return out
}

func schemaType(t string) string {
	switch t {
	case "integer", "number", "boolean":
		return t
	default:
		return "string"
	}
}
