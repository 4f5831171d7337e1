package roast

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ripperlabs/griller/internal/ghfetch"
	"github.com/ripperlabs/griller/internal/llm"
	"github.com/ripperlabs/griller/internal/normalize"
)

type fakeFetcher struct {
	exists    bool
	existsErr error
	fetchErr  error

	lastUsername string
}

func (f *fakeFetcher) UserExists(_ context.Context, username string) (bool, error) {
	f.lastUsername = username
	return f.exists, f.existsErr
}

func (f *fakeFetcher) FetchProfile(context.Context, string) (ghfetch.Profile, error) {
	return ghfetch.Profile{Login: "octocat"}, f.fetchErr
}

func (f *fakeFetcher) FetchRepositories(context.Context, string) ([]ghfetch.Repository, error) {
	return []ghfetch.Repository{{Name: "hello"}}, f.fetchErr
}

func (f *fakeFetcher) FetchLanguageStats(context.Context, string) (normalize.LanguageStats, error) {
	return normalize.LanguageStats{TotalRepos: 1}, f.fetchErr
}

func (f *fakeFetcher) FetchStarred(context.Context, string) (ghfetch.StarredSummary, error) {
	return ghfetch.StarredSummary{TotalStarred: 1}, f.fetchErr
}

func (f *fakeFetcher) FetchCommitMessages(context.Context, string) ([]string, error) {
	return []string{"fix stuff"}, f.fetchErr
}

// fakeGenerator records the request, optionally invokes every bound tool,
// and streams canned chunks.
type fakeGenerator struct {
	chunks   []string
	runTools bool

	lastReq llm.Request
}

func (g *fakeGenerator) GenerateStream(ctx context.Context, req llm.Request, onChunk func(string) error) (string, error) {
	g.lastReq = req
	if g.runTools {
		for _, tool := range req.Tools {
			tool.Handler(ctx, map[string]any{"username": "octocat"})
		}
	}
	var full string
	for _, c := range g.chunks {
		if err := onChunk(c); err != nil {
			return full, err
		}
		full += c
	}
	return full, nil
}

func (g *fakeGenerator) Complete(context.Context, string, string, *llm.CompleteOptions) (string, error) {
	return "", errors.New("not used")
}

func TestRoastPirateAtFullIntensity(t *testing.T) {
	fetcher := &fakeFetcher{exists: true}
	gen := &fakeGenerator{chunks: []string{"arr ", "matey"}}
	o := New(fetcher, gen)

	var streamed []string
	got, err := o.Roast(t.Context(), Request{Username: "octocat", Personality: "pirate", Intensity: 5}, func(c string) error {
		streamed = append(streamed, c)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "arr matey" {
		t.Errorf("final text = %q, want concatenation of chunks", got)
	}
	if len(streamed) != 2 || streamed[0] != "arr " || streamed[1] != "matey" {
		t.Errorf("chunks forwarded out of order: %v", streamed)
	}

	req := gen.lastReq
	if !strings.Contains(req.Prompt, "salty pirate captain") {
		t.Error("prompt is missing the pirate voice")
	}
	if n := strings.Count(req.Prompt, "You are "); n != 1 {
		t.Errorf("prompt declares %d identities, want the voice's one", n)
	}
	if strings.Contains(req.Prompt, "Ripper") {
		t.Error("a non-default voice must not carry the default role line")
	}
	if !strings.Contains(req.Prompt, "Absolutely savage") {
		t.Error("prompt is missing the intensity-5 guideline")
	}
	if !strings.Contains(req.Prompt, `"octocat"`) {
		t.Error("prompt is missing the username")
	}
	if req.Temperature != 1.2 {
		t.Errorf("temperature = %v, want 1.2", req.Temperature)
	}
	if len(req.Tools) != 5 {
		t.Fatalf("got %d tools, want 5", len(req.Tools))
	}
	for _, tool := range req.Tools {
		if strings.Contains(strings.ToLower(tool.Name), "exist") {
			t.Errorf("existence probe must not be a tool, got %q", tool.Name)
		}
	}
}

func TestRoastUnknownPersonalityFallsBack(t *testing.T) {
	fetcher := &fakeFetcher{exists: true}
	gen := &fakeGenerator{chunks: []string{"ok"}}
	o := New(fetcher, gen)

	_, err := o.Roast(t.Context(), Request{Username: "octocat", Personality: "klingon", Intensity: 42}, func(string) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(gen.lastReq.Prompt, "Ripper - The Roast Master"); n != 1 {
		t.Errorf("default role line appears %d times, want exactly once", n)
	}
	if gen.lastReq.Temperature != 0.7 {
		t.Errorf("temperature = %v, want the default 0.7", gen.lastReq.Temperature)
	}
}

func TestRoastGhost(t *testing.T) {
	fetcher := &fakeFetcher{exists: false}
	gen := &fakeGenerator{chunks: []string{"who?"}}
	o := New(fetcher, gen)

	got, err := o.Roast(t.Context(), Request{Username: "this-user-should-not-exist-zzz123"}, func(string) error { return nil })
	if err != nil {
		t.Fatalf("a nonexistent user is a themed roast, not an error: %v", err)
	}
	if got == "" {
		t.Error("ghost roast should still produce text")
	}
	if len(gen.lastReq.Tools) != 0 {
		t.Errorf("ghost roast must not bind tools, got %d", len(gen.lastReq.Tools))
	}
	if !strings.Contains(gen.lastReq.Prompt, "this-user-should-not-exist-zzz123") {
		t.Error("ghost prompt is missing the username")
	}
}

func TestRoastExistenceProbeFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{existsErr: errors.New("github responded with 500 Internal Server Error")}
	gen := &fakeGenerator{}
	o := New(fetcher, gen)

	_, err := o.Roast(t.Context(), Request{Username: "octocat"}, func(string) error { return nil })
	if err == nil {
		t.Fatal("a non-404 probe failure must be fatal")
	}
	if gen.lastReq.Prompt != "" {
		t.Error("generation must not start when the probe fails")
	}
}

func TestRoastSurvivesAllToolFailures(t *testing.T) {
	fetcher := &fakeFetcher{exists: true, fetchErr: errors.New("github responded with 502 Bad Gateway")}
	gen := &fakeGenerator{chunks: []string{"roasting octocat on name alone"}, runTools: true}
	o := New(fetcher, gen)

	got, err := o.Roast(t.Context(), Request{Username: "octocat"}, func(string) error { return nil })
	if err != nil {
		t.Fatalf("tool failures must not abort the flow: %v", err)
	}
	if got == "" {
		t.Error("roast should complete despite failing tools")
	}
}

func TestRoastStopsWhenCallerAborts(t *testing.T) {
	fetcher := &fakeFetcher{exists: true}
	gen := &fakeGenerator{chunks: []string{"first ", "second ", "third"}}
	o := New(fetcher, gen)

	abort := errors.New("client went away")
	var forwarded []string
	_, err := o.Roast(t.Context(), Request{Username: "octocat"}, func(c string) error {
		forwarded = append(forwarded, c)
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("error = %v, want the callback's error to propagate", err)
	}
	if len(forwarded) != 1 {
		t.Errorf("forwarded %d chunks after the caller aborted, want 1", len(forwarded))
	}
}

func TestRoastRequiresUsername(t *testing.T) {
	o := New(&fakeFetcher{}, &fakeGenerator{})
	if _, err := o.Roast(t.Context(), Request{}, func(string) error { return nil }); err == nil {
		t.Fatal("expected an error for a missing username")
	}
}

func TestToolUsernameFallback(t *testing.T) {
	if got := argUsername(map[string]any{}, "octocat"); got != "octocat" {
		t.Errorf("empty args should fall back, got %q", got)
	}
	if got := argUsername(map[string]any{"username": "torvalds"}, "octocat"); got != "torvalds" {
		t.Errorf("explicit argument should win, got %q", got)
	}
	if got := argUsername(map[string]any{"username": 7}, "octocat"); got != "octocat" {
		t.Errorf("non-string argument should fall back, got %q", got)
	}
}
