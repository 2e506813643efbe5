package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"atlassian-utils/internal/common"
	"atlassian-utils/internal/interfaces"
	"atlassian-utils/pkg/confluence"
	"atlassian-utils/pkg/export"
	"atlassian-utils/pkg/jira"
)

const contentPageSize = 100

type collector struct {
	config     *common.Config
	storage    interfaces.Storage
	jira       *jira.Client
	confluence *confluence.Client
	logger     arbor.ILogger
	events     interfaces.EventSink
}

// NewCollector wires the sync service. jiraClient and confluenceClient may be
// nil when the corresponding credentials are not configured; the collector
// skips that side.
func NewCollector(cfg *common.Config, store interfaces.Storage, jiraClient *jira.Client,
	confluenceClient *confluence.Client, logger arbor.ILogger, events interfaces.EventSink) interfaces.Collector {
	return &collector{
		config:     cfg,
		storage:    store,
		jira:       jiraClient,
		confluence: confluenceClient,
		logger:     logger,
		events:     events,
	}
}

// RunOnce collects every configured Jira project and, when a default space is
// configured, the Confluence pages of that space. Per-scope failures are
// recorded in the report rather than aborting the run.
func (c *collector) RunOnce(ctx context.Context) (*interfaces.SyncReport, error) {
	report := &interfaces.SyncReport{
		StartedAt: time.Now(),
		Projects:  make(map[string]int),
		Spaces:    make(map[string]int),
	}
	c.publish("sync_started", nil)

	if c.jira != nil {
		for _, project := range c.config.Jira.Projects {
			if err := c.collectProject(ctx, project, report); err != nil {
				c.logger.Error().Err(err).Str("project", project.Key).Msg("project collection failed")
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", project.Key, err))
			}
		}
	}

	if c.confluence != nil && c.confluence.DefaultSpace() != "" {
		space := c.confluence.DefaultSpace()
		if err := c.collectSpace(ctx, space, report); err != nil {
			c.logger.Error().Err(err).Str("space", space).Msg("space collection failed")
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", space, err))
		}
	}

	if err := c.storage.Cleanup(); err != nil {
		c.logger.Warn().Err(err).Msg("cache cleanup failed")
	}

	report.FinishedAt = time.Now()
	c.publish("sync_completed", report)
	return report, nil
}

func (c *collector) collectProject(ctx context.Context, project common.ProjectConfig, report *interfaces.SyncReport) error {
	since, err := c.storage.LastSync("jira:" + project.Key)
	if err != nil {
		c.logger.Warn().Err(err).Str("project", project.Key).Msg("could not read last sync time, doing full collection")
		since = time.Time{}
	}

	jql := jira.BuildJQL(project.Key, project.IssueTypes, project.Statuses, since)
	c.logger.Info().Str("project", project.Key).Str("jql", jql).Msg("collecting issues")

	issues, err := c.jira.SearchAllIssues(ctx, jql, []string{"*all"})
	if err != nil {
		return err
	}
	if project.MaxResults > 0 && len(issues) > project.MaxResults {
		issues = issues[:project.MaxResults]
	}

	records := make([]*jira.IssueRecord, 0, len(issues))
	for i := range issues {
		records = append(records, c.jira.Flatten(&issues[i]))
	}

	if err := c.storage.SaveIssues(project.Key, records); err != nil {
		return err
	}
	report.Projects[project.Key] = len(records)
	c.publish("project_collected", map[string]interface{}{
		"project": project.Key,
		"count":   len(records),
	})

	if c.config.Output.Dir != "" && len(records) > 0 {
		path := filepath.Join(c.config.Output.Dir, fmt.Sprintf("issues_%s.csv", strings.ToLower(project.Key)))
		if err := export.WriteCSV(issueRows(records), path); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("issue export failed")
		} else {
			report.Exported = append(report.Exported, path)
		}
	}

	return nil
}

func (c *collector) collectSpace(ctx context.Context, spaceKey string, report *interfaces.SyncReport) error {
	c.logger.Info().Str("space", spaceKey).Msg("collecting pages")

	var pages []*confluence.Result
	start := 0
	for {
		batch, err := c.confluence.GetSpaceContent(ctx, spaceKey, "page", contentPageSize, start)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			pages = append(pages, &batch[i])
		}
		if len(batch) < contentPageSize {
			break
		}
		start += len(batch)
	}

	if err := c.storage.SavePages(spaceKey, pages); err != nil {
		return err
	}
	report.Spaces[spaceKey] = len(pages)
	c.publish("space_collected", map[string]interface{}{
		"space": spaceKey,
		"count": len(pages),
	})

	if c.config.Output.Dir != "" && len(pages) > 0 {
		path := filepath.Join(c.config.Output.Dir, fmt.Sprintf("pages_%s.csv", strings.ToLower(spaceKey)))
		if err := export.WriteCSV(pageRows(pages), path); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("page export failed")
		} else {
			report.Exported = append(report.Exported, path)
		}
	}

	return nil
}

func (c *collector) publish(eventType string, data interface{}) {
	if c.events != nil {
		c.events.Publish(eventType, data)
	}
}

func issueRows(records []*jira.IssueRecord) [][]string {
	rows := [][]string{{
		"Key", "Summary", "Type", "Status", "Priority",
		"Assignee", "Reporter", "Created", "Updated",
		"Labels", "Components", "URL",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.Key, r.Summary, r.IssueType, r.Status, r.Priority,
			r.Assignee, r.Reporter, r.Created, r.Updated,
			strings.Join(r.Labels, ";"), strings.Join(r.Components, ";"), r.URL,
		})
	}
	return rows
}

func pageRows(pages []*confluence.Result) [][]string {
	rows := [][]string{{
		"ID", "Title", "Type", "Status", "Space",
		"Created", "Updated", "Creator", "Labels", "URL",
	}}
	for _, p := range pages {
		rows = append(rows, []string{
			p.ID, p.Title, p.Type, p.Status, p.SpaceKey,
			p.Created, p.Updated, p.CreatorName,
			strings.Join(p.Labels, ";"), p.URL,
		})
	}
	return rows
}
