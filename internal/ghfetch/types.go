package ghfetch

import (
	"time"

	"github.com/ripperlabs/griller/internal/normalize"
)

// Repository is the minimal repo projection handed to the model. JSON keys
// mirror the GitHub REST field names so the prompt data reads like the API
// the model already knows.
type Repository struct {
	Name     string    `json:"name"`
	Language string    `json:"language,omitempty"`
	PushedAt time.Time `json:"pushed_at"`
	Stars    int       `json:"stargazers_count"`
	Forks    int       `json:"forks"`
}

// Profile is a user's public GitHub profile.
type Profile struct {
	Login       string    `json:"login"`
	ID          int64     `json:"id"`
	AvatarURL   string    `json:"avatar_url"`
	HTMLURL     string    `json:"html_url"`
	Name        string    `json:"name,omitempty"`
	Company     string    `json:"company,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	Location    string    `json:"location,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StarredRepo is one starred repository, reduced to what a roast needs.
type StarredRepo struct {
	Name        string `json:"name"`
	Language    string `json:"language,omitempty"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stargazers_count"`
}

// StarredSummary aggregates a user's starred repositories. TotalStarred
// counts the whole fetched page; the language tally and recent list only
// look at the first ten entries.
type StarredSummary struct {
	TotalStarred        int               `json:"totalStarred"`
	TopStarredLanguages []normalize.Entry `json:"topStarredLanguages"`
	RecentStars         []StarredRepo     `json:"recentStars"`
}
