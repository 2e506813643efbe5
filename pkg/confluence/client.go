// Package confluence wraps the Confluence Cloud REST API: spaces, content
// listing and CQL search with an optional default space used as the implicit
// search scope.
package confluence

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"

	"atlassian-utils/pkg/atlassian"
)

const apiPrefix = "/rest/api"

// Client is a Confluence REST API client authenticated with username + API
// token.
type Client struct {
	http         *resty.Client
	baseURL      string
	defaultSpace string
	logger       arbor.ILogger
}

// NewClient creates a Confluence client. defaultSpace, when non-empty, scopes
// searches that do not name a space themselves.
func NewClient(opts atlassian.ClientOptions, defaultSpace string) *Client {
	client := atlassian.NewClient(opts)
	return &Client{
		http:         client,
		baseURL:      client.BaseURL,
		defaultSpace: defaultSpace,
		logger:       opts.Logger,
	}
}

// DefaultSpace returns the configured default space key, if any.
func (c *Client) DefaultSpace() string {
	return c.defaultSpace
}

// CurrentUser returns the authenticated user, which doubles as a connection
// test.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&user).
		Get(apiPrefix + "/user/current")
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := checkConfluence(resp); err != nil {
		return nil, err
	}
	return &user, nil
}

func checkConfluence(resp *resty.Response) error {
	return atlassian.CheckResponse("Confluence", resp)
}
