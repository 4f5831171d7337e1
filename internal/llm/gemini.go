package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, apiKey, model string) (*geminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) GenerateStream(ctx context.Context, req Request, onChunk func(string) error) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if decls := geminiDeclarations(req.Tools); len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	tools := toolIndex(req.Tools)

	history := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}
	var full string
	for turn := 0; turn < maxToolTurns; turn++ {
		var (
			modelParts []*genai.Part
			calls      []toolCall
		)
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, history, config) {
			if err != nil {
				return full, fmt.Errorf("gemini stream: %w", err)
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				continue
			}
			for _, part := range resp.Candidates[0].Content.Parts {
				if part.Text != "" {
					if err := onChunk(part.Text); err != nil {
						return full, err
					}
					full += part.Text
				}
				if part.FunctionCall != nil {
					calls = append(calls, toolCall{
						id:   part.FunctionCall.ID,
						name: part.FunctionCall.Name,
						args: part.FunctionCall.Args,
					})
				}
				modelParts = append(modelParts, part)
			}
		}
		if len(calls) == 0 {
			return full, nil
		}

		results := dispatchTools(ctx, tools, calls)
		responseParts := make([]*genai.Part, 0, len(results))
		for _, res := range results {
			responseParts = append(responseParts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       res.id,
					Name:     res.name,
					Response: res.payload,
				},
			})
		}
		history = append(history,
			&genai.Content{Role: genai.RoleModel, Parts: modelParts},
			&genai.Content{Role: genai.RoleUser, Parts: responseParts},
		)
	}
	return full, fmt.Errorf("gemini: tool loop exceeded %d turns", maxToolTurns)
}

func (g *geminiGenerator) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts != nil && opts.Temperature != nil {
		config.Temperature = genai.Ptr(*opts.Temperature)
	}
	if opts != nil && opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

func geminiDeclarations(tools []Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		schema := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		}
		for _, p := range t.Params {
			schema.Properties[p.Name] = &genai.Schema{
				Type:        geminiType(p.Type),
				Description: p.Description,
			}
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return decls
}

func geminiType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
