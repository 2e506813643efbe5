package jira

import (
	"context"
	"fmt"
)

// GetProjectComponents lists the components of a project. The project is
// looked up first so a missing project surfaces as not_found rather than an
// empty list.
func (c *Client) GetProjectComponents(ctx context.Context, projectKey string) ([]Component, error) {
	if _, err := c.GetProject(ctx, projectKey); err != nil {
		return nil, err
	}

	var components []Component
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&components).
		Get(apiPrefix + "/project/" + projectKey + "/components")
	if err != nil {
		return nil, fmt.Errorf("failed to get components for project %s: %w", projectKey, err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return components, nil
}

// CreateComponentInput describes a new component. Lead takes a user query
// (name or email); when the lookup fails the component is created without a
// lead.
type CreateComponentInput struct {
	ProjectKey   string
	Name         string
	Description  string
	Lead         string
	AssigneeType string
}

// CreateComponent creates a component in a project.
func (c *Client) CreateComponent(ctx context.Context, input CreateComponentInput) (*Component, error) {
	if input.ProjectKey == "" || input.Name == "" {
		return nil, fmt.Errorf("project key and component name are required")
	}

	assigneeType := input.AssigneeType
	if assigneeType == "" {
		assigneeType = "UNASSIGNED"
	}

	body := map[string]interface{}{
		"name":         input.Name,
		"project":      input.ProjectKey,
		"assigneeType": assigneeType,
	}
	if input.Description != "" {
		body["description"] = input.Description
	}
	if input.Lead != "" {
		if accountID, err := c.resolveAccountID(ctx, input.Lead); err != nil {
			c.warn(fmt.Sprintf("could not resolve component lead %q, creating without lead", input.Lead), err)
		} else {
			body["leadAccountId"] = accountID
		}
	}

	var component Component
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&component).
		Post(apiPrefix + "/component")
	if err != nil {
		return nil, fmt.Errorf("failed to create component %s: %w", input.Name, err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return &component, nil
}

// UpdateComponentInput carries the fields to change; empty fields are left
// untouched.
type UpdateComponentInput struct {
	Name         string
	Description  string
	Lead         string
	AssigneeType string
}

// UpdateComponent updates an existing component by ID. Unlike
// CreateComponent, an unresolvable lead fails the update.
func (c *Client) UpdateComponent(ctx context.Context, componentID string, input UpdateComponentInput) error {
	body := map[string]interface{}{}
	if input.Name != "" {
		body["name"] = input.Name
	}
	if input.Description != "" {
		body["description"] = input.Description
	}
	if input.AssigneeType != "" {
		body["assigneeType"] = input.AssigneeType
	}
	if input.Lead != "" {
		accountID, err := c.resolveAccountID(ctx, input.Lead)
		if err != nil {
			return fmt.Errorf("could not resolve component lead %q: %w", input.Lead, err)
		}
		body["leadAccountId"] = accountID
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Put(apiPrefix + "/component/" + componentID)
	if err != nil {
		return fmt.Errorf("failed to update component %s: %w", componentID, err)
	}
	return checkJira(resp)
}

func (c *Client) resolveAccountID(ctx context.Context, query string) (string, error) {
	users, err := c.SearchUsers(ctx, query, 1)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", fmt.Errorf("no user matches %q", query)
	}
	return users[0].AccountID, nil
}
