package ghfetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"
)

// FetchError reports a non-2xx response from the GitHub API. Rate-limit
// rejections (403/429) surface here too; there is no backoff at this layer.
type FetchError struct {
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("github responded with %s", e.Status)
}

// NotFound reports whether the upstream said the resource does not exist.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ValidationError reports a 2xx response whose body did not match the
// expected shape for a resource.
type ValidationError struct {
	Resource string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload from github: %s", e.Resource, e.Reason)
}

// classify maps go-github errors onto the local taxonomy: HTTP failures
// become FetchError, decode failures become ValidationError, anything else
// is wrapped as-is.
func classify(resource string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &FetchError{StatusCode: ghErr.Response.StatusCode, Status: ghErr.Response.Status}
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &FetchError{StatusCode: rateErr.Response.StatusCode, Status: rateErr.Response.Status}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return &FetchError{StatusCode: abuseErr.Response.StatusCode, Status: abuseErr.Response.Status}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &ValidationError{Resource: resource, Reason: err.Error()}
	}
	return fmt.Errorf("fetching %s: %w", resource, err)
}
