package ghfetch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/go-github/v68/github"

	"github.com/ripperlabs/griller/internal/normalize"
	"github.com/ripperlabs/griller/internal/textutil"
)

const (
	recentRepoCount    = 15
	statsRepoCount     = 100
	starredPageSize    = 20
	starredSampleSize  = 10
	eventPageSize      = 100
	maxDescriptionLen  = 500
	topStarredLangSize = 5
)

// FetchRepositories lists the user's 15 most recently pushed repos,
// projected down to the Repository shape.
func (c *Client) FetchRepositories(ctx context.Context, username string) ([]Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Sort:        "pushed",
		ListOptions: github.ListOptions{PerPage: recentRepoCount},
	}
	repos, _, err := c.gh.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, classify("repos", err)
	}
	return projectRepos(repos)
}

// FetchLanguageStats lists up to 100 repos of any type and derives the
// language histogram. Repos without a detected language are excluded from
// both the mapping and the percentage denominator.
func (c *Client) FetchLanguageStats(ctx context.Context, username string) (normalize.LanguageStats, error) {
	opts := &github.RepositoryListByUserOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: statsRepoCount},
	}
	repos, _, err := c.gh.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return normalize.LanguageStats{}, classify("repos", err)
	}
	languages := make([]string, 0, len(repos))
	for _, r := range repos {
		languages = append(languages, r.GetLanguage())
	}
	return normalize.TallyLanguages(languages), nil
}

// FetchStarred summarizes the user's most recently starred repositories.
// The total counts the whole fetched page; the language tally and the
// recent list only cover the first ten entries.
func (c *Client) FetchStarred(ctx context.Context, username string) (StarredSummary, error) {
	opts := &github.ActivityListStarredOptions{
		Sort:        "created",
		ListOptions: github.ListOptions{PerPage: starredPageSize},
	}
	starred, _, err := c.gh.Activity.ListStarred(ctx, username, opts)
	if err != nil {
		return StarredSummary{}, classify("starred", err)
	}

	summary := StarredSummary{TotalStarred: len(starred)}
	sample := starred
	if len(sample) > starredSampleSize {
		sample = sample[:starredSampleSize]
	}

	counts := make(map[string]int)
	var order []string
	for _, sr := range sample {
		repo := sr.GetRepository()
		if repo.GetName() == "" {
			return StarredSummary{}, &ValidationError{Resource: "starred", Reason: "starred entry without a repository name"}
		}
		if lang := repo.GetLanguage(); lang != "" {
			if _, seen := counts[lang]; !seen {
				order = append(order, lang)
			}
			counts[lang]++
		}
		summary.RecentStars = append(summary.RecentStars, StarredRepo{
			Name:        repo.GetName(),
			Language:    repo.GetLanguage(),
			Description: textutil.Truncate(repo.GetDescription(), maxDescriptionLen, "..."),
			Stars:       repo.GetStargazersCount(),
		})
	}
	summary.TopStarredLanguages = normalize.TopN(order, counts, topStarredLangSize)
	return summary, nil
}

// FetchCommitMessages pulls the user's last 100 public events, keeps only
// push events that actually carry commits, and flattens the commit messages
// preserving event order, then commit order within each event.
func (c *Client) FetchCommitMessages(ctx context.Context, username string) ([]string, error) {
	opts := &github.ListOptions{PerPage: eventPageSize}
	events, _, err := c.gh.Activity.ListEventsPerformedByUser(ctx, username, false, opts)
	if err != nil {
		return nil, classify("events", err)
	}

	var messages []string
	for _, ev := range events {
		if ev.GetType() != "PushEvent" {
			continue
		}
		payload, err := ev.ParsePayload()
		if err != nil {
			return nil, &ValidationError{Resource: "events", Reason: err.Error()}
		}
		push, ok := payload.(*github.PushEvent)
		if !ok || len(push.Commits) == 0 {
			continue
		}
		for _, commit := range push.Commits {
			messages = append(messages, commit.GetMessage())
		}
	}
	slog.Debug("flattened push events", "username", username, "events", len(events), "messages", len(messages))
	return messages, nil
}

// FetchProfile returns the user's public profile.
func (c *Client) FetchProfile(ctx context.Context, username string) (Profile, error) {
	user, _, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		return Profile{}, classify("profile", err)
	}
	if user.GetLogin() == "" {
		return Profile{}, &ValidationError{Resource: "profile", Reason: "profile without a login"}
	}
	return Profile{
		Login:       user.GetLogin(),
		ID:          user.GetID(),
		AvatarURL:   user.GetAvatarURL(),
		HTMLURL:     user.GetHTMLURL(),
		Name:        user.GetName(),
		Company:     user.GetCompany(),
		Blog:        user.GetBlog(),
		Location:    user.GetLocation(),
		Bio:         user.GetBio(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   user.GetCreatedAt().Time,
		UpdatedAt:   user.GetUpdatedAt().Time,
	}, nil
}

// UserExists probes the profile endpoint. A 404 means the user does not
// exist; any other non-2xx status is a real error, not "not found".
func (c *Client) UserExists(ctx context.Context, username string) (bool, error) {
	_, _, err := c.gh.Users.Get(ctx, username)
	if err == nil {
		return true, nil
	}
	classified := classify("profile", err)
	var fetchErr *FetchError
	if errors.As(classified, &fetchErr) && fetchErr.NotFound() {
		return false, nil
	}
	return false, classified
}

func projectRepos(repos []*github.Repository) ([]Repository, error) {
	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		if r.GetName() == "" {
			return nil, &ValidationError{Resource: "repos", Reason: "repository without a name"}
		}
		out = append(out, Repository{
			Name:     r.GetName(),
			Language: r.GetLanguage(),
			PushedAt: r.GetPushedAt().Time,
			Stars:    r.GetStargazersCount(),
			Forks:    r.GetForksCount(),
		})
	}
	return out, nil
}
