package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ternarybob/arbor"

	"atlassian-utils/internal/common"
	"atlassian-utils/pkg/atlassian"
	"atlassian-utils/pkg/confluence"
	"atlassian-utils/pkg/jira"
)

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSink) Publish(eventType string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recordingSink) has(eventType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == eventType {
			return true
		}
	}
	return false
}

func jiraTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" {
			t.Errorf("unexpected jira path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(jira.SearchResult{
			Total: 2,
			Issues: []jira.Issue{
				{ID: "1", Key: "PROJ-1", Fields: map[string]interface{}{
					"summary": "First",
					"status":  map[string]interface{}{"name": "Done"},
				}},
				{ID: "2", Key: "PROJ-2", Fields: map[string]interface{}{
					"summary": "Second",
					"status":  map[string]interface{}{"name": "Open"},
				}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func confluenceTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/content" {
			t.Errorf("unexpected confluence path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":"100","title":"Home","type":"page","status":"current"}],"start":0,"limit":100,"size":1}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCollectorRunOnce(t *testing.T) {
	jiraServer := jiraTestServer(t)
	confluenceServer := confluenceTestServer(t)
	outputDir := t.TempDir()

	cfg := &common.Config{
		Jira: common.JiraConfig{
			Projects: []common.ProjectConfig{{Key: "PROJ"}},
		},
		Output:  common.OutputConfig{Dir: outputDir},
		Storage: common.StorageConfig{},
	}

	store := newTestStorage(t)
	sink := &recordingSink{}
	logger := arbor.NewLogger()

	jiraClient := jira.NewClient(atlassian.ClientOptions{
		BaseURL:    jiraServer.URL,
		Username:   "user@example.com",
		APIToken:   "token-123",
		MaxRetries: -1,
	})
	confluenceClient := confluence.NewClient(atlassian.ClientOptions{
		BaseURL:    confluenceServer.URL,
		Username:   "user@example.com",
		APIToken:   "token-123",
		MaxRetries: -1,
	}, "TEAM")

	c := NewCollector(cfg, store, jiraClient, confluenceClient, logger, sink)

	report, err := c.RunOnce(t.Context())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if report.Projects["PROJ"] != 2 {
		t.Fatalf("unexpected project count: %+v", report.Projects)
	}
	if report.Spaces["TEAM"] != 1 {
		t.Fatalf("unexpected space count: %+v", report.Spaces)
	}

	issues, err := store.LoadIssues("PROJ")
	if err != nil {
		t.Fatalf("LoadIssues: %v", err)
	}
	if len(issues) != 2 || issues["PROJ-1"].Issue.Status != "Done" {
		t.Fatalf("issues not cached: %+v", issues)
	}

	pages, err := store.LoadPages("TEAM")
	if err != nil {
		t.Fatalf("LoadPages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages not cached: %+v", pages)
	}

	for _, name := range []string{"issues_proj.csv", "pages_team.csv"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Fatalf("export %s missing: %v", name, err)
		}
	}
	if len(report.Exported) != 2 {
		t.Fatalf("unexpected export list: %v", report.Exported)
	}

	for _, event := range []string{"sync_started", "project_collected", "space_collected", "sync_completed"} {
		if !sink.has(event) {
			t.Fatalf("event %s not published", event)
		}
	}
}

func TestCollectorRecordsPerProjectErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	cfg := &common.Config{
		Jira: common.JiraConfig{
			Projects: []common.ProjectConfig{{Key: "PROJ"}},
		},
	}

	store := newTestStorage(t)
	jiraClient := jira.NewClient(atlassian.ClientOptions{
		BaseURL:    server.URL,
		Username:   "user@example.com",
		APIToken:   "token-123",
		MaxRetries: -1,
	})

	c := NewCollector(cfg, store, jiraClient, nil, arbor.NewLogger(), nil)

	report, err := c.RunOnce(t.Context())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected one recorded error, got %v", report.Errors)
	}
	if _, ok := report.Projects["PROJ"]; ok {
		t.Fatal("failed project should not report a count")
	}
}

func TestCollectorHonorsMaxResults(t *testing.T) {
	jiraServer := jiraTestServer(t)

	cfg := &common.Config{
		Jira: common.JiraConfig{
			Projects: []common.ProjectConfig{{Key: "PROJ", MaxResults: 1}},
		},
	}

	store := newTestStorage(t)
	jiraClient := jira.NewClient(atlassian.ClientOptions{
		BaseURL:    jiraServer.URL,
		Username:   "user@example.com",
		APIToken:   "token-123",
		MaxRetries: -1,
	})

	c := NewCollector(cfg, store, jiraClient, nil, arbor.NewLogger(), nil)

	report, err := c.RunOnce(t.Context())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if report.Projects["PROJ"] != 1 {
		t.Fatalf("max results not applied: %+v", report.Projects)
	}
}
