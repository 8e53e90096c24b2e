// Package github posts pull request comments through the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// requestTimeout bounds one API call.
	requestTimeout = 30 * time.Second
)

type Client struct {
	gh    *github.Client
	token string
}

// NewClient creates a client. If httpClient is nil, a default client with a
// timeout is used. An empty baseURL means api.github.com; any other value
// (GHES or a test server) is used as the REST root as is.
func NewClient(baseURL, token string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	gh := github.NewClient(httpClient)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}

	if baseURL != "" && strings.TrimRight(baseURL, "/") != DefaultBaseURL {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		gh.BaseURL = u
	}
	return &Client{gh: gh, token: token}, nil
}

// PostPRComment creates an issue comment on pull request `number`.
func (c *Client) PostPRComment(ctx context.Context, repository string, number int, body string) error {
	owner, name, ok := splitRepository(repository)
	if !ok {
		return fmt.Errorf("invalid repository %q, want owner/name", repository)
	}
	if c.token == "" {
		return errors.New("GITHUB_TOKEN is not set")
	}

	_, _, err := c.gh.Issues.CreateComment(ctx, owner, name, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}

func splitRepository(r string) (owner, name string, ok bool) {
	owner, name, ok = strings.Cut(r, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return owner, name, true
}
