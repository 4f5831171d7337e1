package roast

import (
	"context"

	"github.com/ripperlabs/griller/internal/llm"
)

// tools binds the five data fetchers as model-callable tools. Each handler
// makes its own HTTP request and returns an independent result, so the
// model may invoke any of them concurrently. The username argument is
// optional; when the model omits it, the requested user is used.
func (o *Orchestrator) tools(fallback string) []llm.Tool {
	usernameParam := []llm.ToolParam{{
		Name:        "username",
		Type:        "string",
		Description: "GitHub login to look up",
		Required:    true,
	}}
	return []llm.Tool{
		{
			Name:        "fetchGithubRepos",
			Description: "Fetches the user's public repositories sorted by pushed date (most recently updated first).",
			Params:      usernameParam,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return o.fetcher.FetchRepositories(ctx, argUsername(args, fallback))
			},
		},
		{
			Name:        "fetchLanguageStats",
			Description: "Fetches a histogram of the programming languages across the user's repositories, with the top languages by share.",
			Params:      usernameParam,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return o.fetcher.FetchLanguageStats(ctx, argUsername(args, fallback))
			},
		},
		{
			Name:        "fetchStarredRepos",
			Description: "Fetches a summary of the repositories the user has starred recently, including the languages they admire.",
			Params:      usernameParam,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return o.fetcher.FetchStarred(ctx, argUsername(args, fallback))
			},
		},
		{
			Name:        "fetchCommitMessages",
			Description: "Fetches commit messages from the last 100 public events of the user.",
			Params:      usernameParam,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return o.fetcher.FetchCommitMessages(ctx, argUsername(args, fallback))
			},
		},
		{
			Name:        "fetchGithubProfile",
			Description: "Fetches the user's public profile: name, bio, follower counts, and account age.",
			Params:      usernameParam,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return o.fetcher.FetchProfile(ctx, argUsername(args, fallback))
			},
		},
	}
}

func argUsername(args map[string]any, fallback string) string {
	if v, ok := args["username"].(string); ok && v != "" {
		return v
	}
	return fallback
}
