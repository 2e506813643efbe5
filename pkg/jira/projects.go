package jira

import (
	"context"
	"fmt"
)

// GetProjects lists all projects visible to the authenticated user.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&projects).
		Get(apiPrefix + "/project")
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject retrieves a single project by key.
func (c *Client) GetProject(ctx context.Context, projectKey string) (*Project, error) {
	var project Project
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&project).
		Get(apiPrefix + "/project/" + projectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", projectKey, err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetIssueTypes lists all issue types configured on the instance.
func (c *Client) GetIssueTypes(ctx context.Context) ([]IssueType, error) {
	var issueTypes []IssueType
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&issueTypes).
		Get(apiPrefix + "/issuetype")
	if err != nil {
		return nil, fmt.Errorf("failed to get issue types: %w", err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return issueTypes, nil
}
