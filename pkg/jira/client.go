// Package jira wraps the Jira Cloud REST API (v2) with typed convenience
// methods for issues, projects, components, custom fields, users and groups.
package jira

import (
	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"

	"atlassian-utils/pkg/atlassian"
)

const apiPrefix = "/rest/api/2"

// Client is a Jira REST API client authenticated with username + API token.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  arbor.ILogger
}

// NewClient creates a Jira client from shared transport options.
func NewClient(opts atlassian.ClientOptions) *Client {
	return &Client{
		http:    atlassian.NewClient(opts),
		baseURL: trimBase(opts.BaseURL),
		logger:  opts.Logger,
	}
}

// BaseURL returns the normalized instance URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func trimBase(url string) string {
	for len(url) > 0 && url[len(url)-1] == '/' {
		url = url[:len(url)-1]
	}
	return url
}

func checkJira(resp *resty.Response) error {
	return atlassian.CheckResponse("Jira", resp)
}

func (c *Client) warn(msg string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn().Err(err).Msg(msg)
}
