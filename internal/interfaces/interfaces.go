package interfaces

import (
	"context"
	"time"

	"atlassian-utils/pkg/confluence"
	"atlassian-utils/pkg/jira"
)

// Storage is the local cache of collected issues and pages.
type Storage interface {
	SaveIssues(projectKey string, issues []*jira.IssueRecord) error
	LoadIssues(projectKey string) (map[string]*CachedIssue, error)
	IssueKeys(projectKey string) ([]string, error)

	SavePages(spaceKey string, pages []*confluence.Result) error
	LoadPages(spaceKey string) (map[string]*CachedPage, error)

	// LastSync returns the time of the last successful save for a scope
	// ("jira:<project>" or "confluence:<space>"), zero when never synced.
	LastSync(scope string) (time.Time, error)

	Counts() (issues int, pages int, err error)
	Cleanup() error
	Backup() error
	Close() error
}

// CachedIssue wraps a flattened issue with cache bookkeeping.
type CachedIssue struct {
	Issue     *jira.IssueRecord `json:"issue"`
	Collected time.Time         `json:"collected"`
	Updated   time.Time         `json:"updated"`
	Version   int               `json:"version"`
}

// CachedPage wraps a formatted content item with cache bookkeeping.
type CachedPage struct {
	Page      *confluence.Result `json:"page"`
	Collected time.Time          `json:"collected"`
	Updated   time.Time          `json:"updated"`
	Version   int                `json:"version"`
}

// Collector pulls configured Jira projects and the default Confluence space
// into storage.
type Collector interface {
	RunOnce(ctx context.Context) (*SyncReport, error)
}

// SyncReport summarizes one collection run.
type SyncReport struct {
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Projects   map[string]int         `json:"projects"`
	Spaces     map[string]int         `json:"spaces"`
	Exported   []string               `json:"exported,omitempty"`
	Errors     []string               `json:"errors,omitempty"`
}

// EventSink receives sync events for live monitoring.
type EventSink interface {
	Publish(eventType string, data interface{})
}

// WebService is the monitoring HTTP server.
type WebService interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
}
