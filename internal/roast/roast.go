// Package roast runs the roast flow: probe that the user exists, build a
// personality-flavored prompt, hand the model the GitHub fetch tools, and
// stream the result back to the caller.
package roast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ripperlabs/griller/internal/ghfetch"
	"github.com/ripperlabs/griller/internal/llm"
	"github.com/ripperlabs/griller/internal/normalize"
	"github.com/ripperlabs/griller/internal/personality"
)

// Fetcher is the GitHub surface the orchestrator needs. The five data
// operations are exposed to the model as tools; UserExists is the
// pre-flight probe only and is never exposed.
type Fetcher interface {
	UserExists(ctx context.Context, username string) (bool, error)
	FetchProfile(ctx context.Context, username string) (ghfetch.Profile, error)
	FetchRepositories(ctx context.Context, username string) ([]ghfetch.Repository, error)
	FetchLanguageStats(ctx context.Context, username string) (normalize.LanguageStats, error)
	FetchStarred(ctx context.Context, username string) (ghfetch.StarredSummary, error)
	FetchCommitMessages(ctx context.Context, username string) ([]string, error)
}

// Request identifies who to roast and how hard. Unknown personality keys
// and out-of-range intensities fall back to the defaults, never an error.
type Request struct {
	Username    string `json:"username"`
	Personality string `json:"personality"`
	Intensity   int    `json:"intensity"`
}

// Orchestrator drives one roast per call. It holds no per-request state,
// so a single Orchestrator serves concurrent requests.
type Orchestrator struct {
	fetcher Fetcher
	gen     llm.Generator
}

func New(fetcher Fetcher, gen llm.Generator) *Orchestrator {
	return &Orchestrator{fetcher: fetcher, gen: gen}
}

// Roast streams a roast of the given user, calling onChunk for every text
// fragment in arrival order, and returns the full text. A nonexistent user
// gets a ghost roast with no tools attached rather than an error. Tool
// failures during generation never abort the run; generation failures and
// context cancellation do.
func (o *Orchestrator) Roast(ctx context.Context, req Request, onChunk func(string) error) (string, error) {
	if req.Username == "" {
		return "", fmt.Errorf("username is required")
	}
	voice := personality.Voice(req.Personality)
	level := personality.Level(req.Intensity)

	exists, err := o.fetcher.UserExists(ctx, req.Username)
	if err != nil {
		return "", fmt.Errorf("checking user %s: %w", req.Username, err)
	}
	if !exists {
		slog.Info("user not found, roasting the ghost", "username", req.Username)
		return o.gen.GenerateStream(ctx, llm.Request{
			Prompt:      ghostPrompt(voice, level.Guideline, req.Username),
			Temperature: level.Temperature,
		}, onChunk)
	}

	slog.Debug("starting roast", "username", req.Username, "personality", req.Personality, "intensity", req.Intensity)
	return o.gen.GenerateStream(ctx, llm.Request{
		Prompt:      roastPrompt(voice, level.Guideline, req.Username),
		Tools:       o.tools(req.Username),
		Temperature: level.Temperature,
	}, onChunk)
}
