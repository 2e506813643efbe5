package services

import (
	"time"

	"github.com/ternarybob/arbor"

	"atlassian-utils/internal/common"
	"atlassian-utils/pkg/atlassian"
	"atlassian-utils/pkg/confluence"
	"atlassian-utils/pkg/jira"
)

// NewJiraClient builds a Jira client from configuration, or nil when the
// Jira credentials are not set.
func NewJiraClient(cfg *common.Config, logger arbor.ILogger) *jira.Client {
	if !cfg.HasJira() {
		return nil
	}
	return jira.NewClient(atlassian.ClientOptions{
		BaseURL:           cfg.Jira.BaseURL,
		Username:          cfg.Jira.Username,
		APIToken:          cfg.Jira.APIToken,
		Timeout:           time.Duration(cfg.Jira.Timeout) * time.Second,
		RequestsPerSecond: cfg.Limits.RequestsPerSecond,
		Logger:            logger,
	})
}

// NewConfluenceClient builds a Confluence client from configuration, or nil
// when the Confluence credentials are not set.
func NewConfluenceClient(cfg *common.Config, logger arbor.ILogger) *confluence.Client {
	if !cfg.HasConfluence() {
		return nil
	}
	return confluence.NewClient(atlassian.ClientOptions{
		BaseURL:           cfg.Confluence.BaseURL,
		Username:          cfg.Confluence.Username,
		APIToken:          cfg.Confluence.APIToken,
		Timeout:           time.Duration(cfg.Confluence.Timeout) * time.Second,
		RequestsPerSecond: cfg.Limits.RequestsPerSecond,
		Logger:            logger,
	}, cfg.Confluence.DefaultSpace)
}
