package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicGenerator struct {
	client anthropic.Client
	model  string
}

func newAnthropic(apiKey, model string) *anthropicGenerator {
	return &anthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (g *anthropicGenerator) GenerateStream(ctx context.Context, req Request, onChunk func(string) error) (string, error) {
	tools := toolIndex(req.Tools)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   4096,
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Tools: anthropicTools(req.Tools),
	}

	var full string
	for turn := 0; turn < maxToolTurns; turn++ {
		stream := g.client.Messages.NewStreaming(ctx, params)
		message := anthropic.Message{}
		for stream.Next() {
			event := stream.Current()
			if err := message.Accumulate(event); err != nil {
				stream.Close()
				return full, fmt.Errorf("anthropic stream: %w", err)
			}
			if ev, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
				if ev.Delta.Type == "text_delta" && ev.Delta.Text != "" {
					if err := onChunk(ev.Delta.Text); err != nil {
						stream.Close()
						return full, err
					}
					full += ev.Delta.Text
				}
			}
		}
		if err := stream.Err(); err != nil {
			return full, fmt.Errorf("anthropic stream: %w", err)
		}
		stream.Close()

		var calls []toolCall
		for _, block := range message.Content {
			tu, ok := block.AsAny().(anthropic.ToolUseBlock)
			if !ok {
				continue
			}
			args, err := decodeArgs([]byte(tu.Input))
			if err != nil {
				args = map[string]any{}
			}
			calls = append(calls, toolCall{id: tu.ID, name: tu.Name, args: args})
		}
		if len(calls) == 0 {
			return full, nil
		}

		results := dispatchTools(ctx, tools, calls)
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(results))
		for _, res := range results {
			payload, err := json.Marshal(res.payload)
			if err != nil {
				payload = []byte(`{"error":"encoding tool result"}`)
			}
			blocks = append(blocks, anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: res.id,
					IsError:   anthropic.Bool(res.failed),
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Text: string(payload)}},
					},
				},
			})
		}
		params.Messages = append(params.Messages, message.ToParam(), anthropic.NewUserMessage(blocks...))
	}
	return full, fmt.Errorf("anthropic: tool loop exceeded %d turns", maxToolTurns)
}

func (g *anthropicGenerator) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	maxTokens := int64(4096)
	if opts != nil && opts.MaxTokens > 0 {
		maxTokens = int64(opts.MaxTokens)
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts != nil && opts.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*opts.Temperature))
	}
	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}
	// Return the first text block only; multi-block responses are not expected
	// from single-turn completions.
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic returned no text content")
}

func anthropicTools(tools []Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
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
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: properties,
					Required:   required,
				},
			},
		})
	}
	return out
}
