// Package ghfetch is a thin fetch-and-validate wrapper around the handful
// of GitHub REST endpoints a roast needs. Every operation makes exactly one
// request, validates the payload shape, and projects it down to the minimal
// structure the prompts consume. Results are request-scoped values; nothing
// is cached or shared between calls, so a Client is safe for concurrent use.
package ghfetch

import (
	"net/http"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const userAgent = "griller-roast-agent"

// Client wraps the GitHub REST API. The token is optional: unauthenticated
// calls are allowed at GitHub's lower rate budget, and a 403/429 surfaces
// as a FetchError rather than triggering any backoff.
type Client struct {
	gh *github.Client
}

// NewClient returns a Client, authenticated when token is non-empty.
func NewClient(token string) *Client {
	return &Client{gh: newGitHubClient(token)}
}

func newGitHubClient(token string) *github.Client {
	base := http.DefaultTransport
	if token != "" {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		}
	}
	httpClient := &http.Client{
		Transport: &headerTransport{base: base},
		Timeout:   30 * time.Second,
	}
	return github.NewClient(httpClient)
}

// headerTransport stamps every request with the identifying agent header
// GitHub requires and the v3 media type.
type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	return t.base.RoundTrip(req)
}
