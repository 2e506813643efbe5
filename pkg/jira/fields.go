package jira

import (
	"context"
	"fmt"
	"strings"
)

const customFieldPrefix = "customfield_"

// fieldSampleSize is how many issues are inspected to decide which custom
// fields a project actually uses.
const fieldSampleSize = 50

// GetFields lists every field known to the instance, system and custom.
func (c *Client) GetFields(ctx context.Context) ([]Field, error) {
	var fields []Field
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&fields).
		Get(apiPrefix + "/field")
	if err != nil {
		return nil, fmt.Errorf("failed to get fields: %w", err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return fields, nil
}

// GetProjectCustomFields discovers the custom fields in use by a project by
// sampling recent issues. When the project has no issues, or sampling fails,
// every custom field on the instance is returned instead so the caller always
// gets a usable list.
func (c *Client) GetProjectCustomFields(ctx context.Context, projectKey string) ([]CustomFieldInfo, error) {
	project, err := c.GetProject(ctx, projectKey)
	if err != nil {
		return nil, err
	}

	allFields, err := c.GetFields(ctx)
	if err != nil {
		return nil, err
	}

	var customFields []Field
	for _, field := range allFields {
		if strings.HasPrefix(field.ID, customFieldPrefix) {
			customFields = append(customFields, field)
		}
	}

	usedIDs, err := c.sampleUsedFieldIDs(ctx, projectKey)
	if err != nil {
		c.warn("could not sample issues for field discovery, returning all custom fields", err)
		return buildFieldInfos(customFields, project), nil
	}

	var used []Field
	for _, field := range customFields {
		if usedIDs[field.ID] {
			used = append(used, field)
		}
	}
	if len(used) == 0 {
		return buildFieldInfos(customFields, project), nil
	}
	return buildFieldInfos(used, project), nil
}

func (c *Client) sampleUsedFieldIDs(ctx context.Context, projectKey string) (map[string]bool, error) {
	result, err := c.SearchIssues(ctx, fmt.Sprintf("project = %s", projectKey), SearchOptions{
		MaxResults: fieldSampleSize,
		Fields:     []string{"*all"},
	})
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for _, issue := range result.Issues {
		for fieldID, value := range issue.Fields {
			if strings.HasPrefix(fieldID, customFieldPrefix) && value != nil {
				used[fieldID] = true
			}
		}
	}
	return used, nil
}

func buildFieldInfos(fields []Field, project *Project) []CustomFieldInfo {
	infos := make([]CustomFieldInfo, 0, len(fields))
	for _, field := range fields {
		info := CustomFieldInfo{
			ID:          field.ID,
			Name:        field.Name,
			FieldType:   field.Schema.Type,
			Items:       field.Schema.Items,
			ClauseNames: field.ClauseNames,
			Schema:      field.Schema,
			ProjectKey:  project.Key,
			ProjectName: project.Name,
		}
		if info.FieldType == "" {
			info.FieldType = "Unknown"
		}
		infos = append(infos, info)
	}
	return infos
}
