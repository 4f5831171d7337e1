// Package insight turns a GitHub profile into three short recruiter-facing
// cards (strengths, trend, recommendation). It fetches its own data with
// plain HTTP calls rather than sharing the roast fetcher; the two paths
// serve different consumers and stay independent.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ripperlabs/griller/internal/llm"
	"github.com/ripperlabs/griller/internal/normalize"
)

const (
	defaultAPIBase = "https://api.github.com"
	repoPageSize   = 100
	maxCardTokens  = 350
)

// ErrUserNotFound reports that the profile endpoint returned a 404.
var ErrUserNotFound = errors.New("github user not found")

// Cards are the three insight fields the model is asked to produce.
type Cards struct {
	Strengths      string `json:"strengths"`
	Trend          string `json:"trend"`
	Recommendation string `json:"recommendation"`
}

// Profile is the structured input handed to the model and echoed back to
// the caller.
type Profile struct {
	Username                    string   `json:"username"`
	Name                        string   `json:"name"`
	Bio                         string   `json:"bio"`
	Followers                   int      `json:"followers"`
	PublicRepos                 int      `json:"public_repos"`
	TotalStars                  int      `json:"totalStars"`
	TotalForks                  int      `json:"totalForks"`
	TopLanguages                []string `json:"topLanguages"`
	ReposAnalyzed               int      `json:"reposAnalyzed"`
	RecentActiveReposLast30Days int      `json:"recentActiveReposLast30Days"`
}

// Result is the analysis outcome. When the model's reply does not parse as
// the Cards shape, the raw text is returned instead of failing.
type Result struct {
	OK       bool    `json:"ok"`
	Profile  Profile `json:"profile"`
	Insights *Cards  `json:"insights,omitempty"`
	RawAI    string  `json:"rawAI,omitempty"`
}

// Service produces insight cards. Safe for concurrent use.
type Service struct {
	httpClient *http.Client
	gen        llm.Generator
	token      string
	apiBase    string
	now        func() time.Time
}

func NewService(gen llm.Generator, token string) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		gen:        gen,
		token:      token,
		apiBase:    defaultAPIBase,
		now:        time.Now,
	}
}

type apiUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
}

type apiRepo struct {
	Language  string    `json:"language"`
	Stars     int       `json:"stargazers_count"`
	Forks     int       `json:"forks_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Analyze fetches the user's profile and first repo page, summarizes them,
// and asks the model for the three cards.
func (s *Service) Analyze(ctx context.Context, username string) (*Result, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	var user apiUser
	if err := s.getJSON(ctx, fmt.Sprintf("%s/users/%s", s.apiBase, username), &user); err != nil {
		return nil, err
	}
	var repos []apiRepo
	url := fmt.Sprintf("%s/users/%s/repos?per_page=%d", s.apiBase, username, repoPageSize)
	if err := s.getJSON(ctx, url, &repos); err != nil {
		return nil, err
	}

	infos := make([]normalize.RepoInfo, 0, len(repos))
	for _, r := range repos {
		infos = append(infos, normalize.RepoInfo{
			Language:  r.Language,
			Stars:     r.Stars,
			Forks:     r.Forks,
			UpdatedAt: r.UpdatedAt,
		})
	}
	summary := normalize.SummarizeRepoStats(infos, s.now())

	profile := Profile{
		Username:                    user.Login,
		Name:                        user.Name,
		Bio:                         user.Bio,
		Followers:                   user.Followers,
		PublicRepos:                 user.PublicRepos,
		TotalStars:                  summary.TotalStars,
		TotalForks:                  summary.TotalForks,
		TopLanguages:                summary.TopLanguages,
		ReposAnalyzed:               len(repos),
		RecentActiveReposLast30Days: summary.RecentCount,
	}

	prompt, err := cardPrompt(profile)
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.Complete(ctx, "", prompt, &llm.CompleteOptions{MaxTokens: maxCardTokens})
	if err != nil {
		return nil, fmt.Errorf("insight generation: %w", err)
	}

	result := &Result{OK: true, Profile: profile}
	if cards, ok := parseCards(raw); ok {
		result.Insights = cards
	} else {
		result.RawAI = raw
	}
	return result, nil
}

func (s *Service) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "griller-insight")
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github responded with %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

func cardPrompt(profile Profile) (string, error) {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding profile: %w", err)
	}
	return fmt.Sprintf(`You are "Ripper Pro", an AI that converts GitHub profile data into three short,
professional insight cards tailored for engineering managers and recruiters.
Produce:
1) Strengths: short (1-2 sentences), what the dev is strongest at technically.
2) Productivity Trend: short (1-2 sentences), activity and consistency comment.
3) Recommendation: short action or suggestion for manager/recruiter.

Keep output as a JSON object:
{
  "strengths": "text",
  "trend": "text",
  "recommendation": "text"
}

Here is the input data:
%s`, data), nil
}

// parseCards leniently extracts the Cards object from a model reply. It
// tolerates markdown code fences and prose around the JSON; anything that
// still does not parse is the caller's rawAI fallback.
func parseCards(raw string) (*Cards, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}
	// Only strip code fences when the response has non-JSON preamble.
	if text[0] != '{' {
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[idx+3:]
			text = strings.TrimPrefix(text, "json")
			if end := strings.LastIndex(text, "```"); end >= 0 {
				text = text[:end]
			}
			text = strings.TrimSpace(text)
		}
	}
	if len(text) == 0 || text[0] != '{' {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, false
		}
		text = text[start : end+1]
	}

	var cards Cards
	if err := json.Unmarshal([]byte(text), &cards); err != nil {
		return nil, false
	}
	if cards.Strengths == "" && cards.Trend == "" && cards.Recommendation == "" {
		return nil, false
	}
	return &cards, true
}
