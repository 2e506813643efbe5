package jira

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultSearchPageSize = 50
	maxSearchPageSize     = 100
)

// SearchOptions control a single page of a JQL search.
type SearchOptions struct {
	StartAt    int
	MaxResults int
	Fields     []string
}

// GetIssue retrieves a single issue by key. fields limits the returned field
// set when non-empty, e.g. "summary,status".
func (c *Client) GetIssue(ctx context.Context, issueKey string, fields string) (*Issue, error) {
	var issue Issue

	req := c.http.R().
		SetContext(ctx).
		SetResult(&issue)
	if fields != "" {
		req.SetQueryParam("fields", fields)
	}

	resp, err := req.Get(apiPrefix + "/issue/" + issueKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", issueKey, err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return &issue, nil
}

// SearchIssues runs a JQL query and returns one page of results.
func (c *Client) SearchIssues(ctx context.Context, jql string, opts SearchOptions) (*SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultSearchPageSize
	}

	var result SearchResult

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("jql", jql).
		SetQueryParam("startAt", strconv.Itoa(opts.StartAt)).
		SetQueryParam("maxResults", strconv.Itoa(maxResults)).
		SetResult(&result)
	if len(opts.Fields) > 0 {
		req.SetQueryParam("fields", strings.Join(opts.Fields, ","))
	}

	resp, err := req.Get(apiPrefix + "/search")
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchAllIssues pages through a JQL query until every matching issue has
// been fetched.
func (c *Client) SearchAllIssues(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	var issues []Issue
	startAt := 0

	for {
		page, err := c.SearchIssues(ctx, jql, SearchOptions{
			StartAt:    startAt,
			MaxResults: maxSearchPageSize,
			Fields:     fields,
		})
		if err != nil {
			return nil, err
		}
		if len(page.Issues) == 0 {
			break
		}

		issues = append(issues, page.Issues...)
		startAt += len(page.Issues)

		if startAt >= page.Total {
			break
		}
	}

	return issues, nil
}

// CreateIssueInput describes a new issue. IssueType defaults to "Task".
// Fields carries any additional issue fields by API field ID.
type CreateIssueInput struct {
	ProjectKey  string
	Summary     string
	Description string
	IssueType   string
	Fields      map[string]interface{}
}

// CreateIssue creates an issue and returns it with its assigned key.
func (c *Client) CreateIssue(ctx context.Context, input CreateIssueInput) (*Issue, error) {
	if input.ProjectKey == "" {
		return nil, fmt.Errorf("project key is required")
	}
	if input.Summary == "" {
		return nil, fmt.Errorf("summary is required")
	}

	issueType := input.IssueType
	if issueType == "" {
		issueType = "Task"
	}

	fields := map[string]interface{}{
		"project":     map[string]string{"key": input.ProjectKey},
		"summary":     input.Summary,
		"description": input.Description,
		"issuetype":   map[string]string{"name": issueType},
	}
	for k, v := range input.Fields {
		fields[k] = v
	}

	var created Issue
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"fields": fields}).
		SetResult(&created).
		Post(apiPrefix + "/issue")
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateIssue updates fields on an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, issueKey string, fields map[string]interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"fields": fields}).
		Put(apiPrefix + "/issue/" + issueKey)
	if err != nil {
		return fmt.Errorf("failed to update issue %s: %w", issueKey, err)
	}
	return checkJira(resp)
}

// AddComment adds a comment to an issue.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) (*Comment, error) {
	var comment Comment
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"body": body}).
		SetResult(&comment).
		Post(apiPrefix + "/issue/" + issueKey + "/comment")
	if err != nil {
		return nil, fmt.Errorf("failed to add comment to %s: %w", issueKey, err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Flatten extracts the commonly used fields out of the raw field map.
func (c *Client) Flatten(issue *Issue) *IssueRecord {
	record := &IssueRecord{
		Key:          issue.Key,
		ID:           issue.ID,
		CustomFields: make(map[string]interface{}),
	}
	if c.baseURL != "" && issue.Key != "" {
		record.URL = c.baseURL + "/browse/" + issue.Key
	}

	record.Summary = stringField(issue.Fields, "summary")
	record.Description = stringField(issue.Fields, "description")
	record.Created = stringField(issue.Fields, "created")
	record.Updated = stringField(issue.Fields, "updated")
	record.IssueType = nestedName(issue.Fields, "issuetype")
	record.Status = nestedName(issue.Fields, "status")
	record.Priority = nestedName(issue.Fields, "priority")
	record.Reporter = personName(issue.Fields, "reporter")
	record.Assignee = personName(issue.Fields, "assignee")

	if project, ok := issue.Fields["project"].(map[string]interface{}); ok {
		record.ProjectKey, _ = project["key"].(string)
		record.ProjectName, _ = project["name"].(string)
	}

	if labels, ok := issue.Fields["labels"].([]interface{}); ok {
		for _, label := range labels {
			if s, ok := label.(string); ok {
				record.Labels = append(record.Labels, s)
			}
		}
	}

	if components, ok := issue.Fields["components"].([]interface{}); ok {
		for _, component := range components {
			if m, ok := component.(map[string]interface{}); ok {
				if name, ok := m["name"].(string); ok {
					record.Components = append(record.Components, name)
				}
			}
		}
	}

	for fieldID, value := range issue.Fields {
		if strings.HasPrefix(fieldID, "customfield_") && value != nil {
			record.CustomFields[fieldID] = value
		}
	}

	return record
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

func nestedName(fields map[string]interface{}, key string) string {
	if m, ok := fields[key].(map[string]interface{}); ok {
		if name, ok := m["name"].(string); ok {
			return name
		}
	}
	return ""
}

func personName(fields map[string]interface{}, key string) string {
	if m, ok := fields[key].(map[string]interface{}); ok {
		if name, ok := m["displayName"].(string); ok && name != "" {
			return name
		}
		if email, ok := m["emailAddress"].(string); ok {
			return email
		}
	}
	return ""
}
