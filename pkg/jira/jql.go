package jira

import (
	"fmt"
	"strings"
	"time"
)

// BuildJQL constructs a JQL query for a project with optional issue-type,
// status and updated-after filters.
func BuildJQL(projectKey string, issueTypes, statuses []string, updatedAfter time.Time) string {
	parts := []string{fmt.Sprintf("project = %s", projectKey)}

	if len(issueTypes) > 0 {
		parts = append(parts, fmt.Sprintf("issuetype in (%s)", quoteList(issueTypes)))
	}

	if len(statuses) > 0 {
		parts = append(parts, fmt.Sprintf("status in (%s)", quoteList(statuses)))
	}

	if !updatedAfter.IsZero() {
		parts = append(parts, fmt.Sprintf("updated >= '%s'", updatedAfter.Format("2006-01-02 15:04")))
	}

	return strings.Join(parts, " AND ")
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("'%s'", v)
	}
	return strings.Join(quoted, ", ")
}
