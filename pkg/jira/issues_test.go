package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"atlassian-utils/internal/common"
)

func TestGetIssueFieldsParam(t *testing.T) {
	var gotPath, gotFields string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"10001","key":"PROJ-7","fields":{"summary":"Fix login"}}`))
	}))

	issue, err := client.GetIssue(t.Context(), "PROJ-7", "summary,status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/rest/api/2/issue/PROJ-7" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotFields != "summary,status" {
		t.Fatalf("unexpected fields param: %s", gotFields)
	}
	if issue.Key != "PROJ-7" {
		t.Fatalf("unexpected key: %s", issue.Key)
	}
	if issue.Fields["summary"] != "Fix login" {
		t.Fatalf("unexpected summary: %v", issue.Fields["summary"])
	}
}

func TestGetIssueNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
	}))

	_, err := client.GetIssue(t.Context(), "PROJ-404", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var sdkErr *common.SDKError
	if !errors.As(err, &sdkErr) {
		t.Fatalf("expected SDKError, got %T", err)
	}
	if sdkErr.Type != common.ErrorTypeNotFound {
		t.Fatalf("unexpected error type: %s", sdkErr.Type)
	}
}

func TestSearchAllIssuesPaginates(t *testing.T) {
	total := 130
	var requests []int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		requests = append(requests, startAt)

		count := maxResults
		if startAt+count > total {
			count = total - startAt
		}
		issues := make([]Issue, count)
		for i := range issues {
			issues[i] = Issue{Key: fmt.Sprintf("PROJ-%d", startAt+i+1)}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SearchResult{
			StartAt:    startAt,
			MaxResults: maxResults,
			Total:      total,
			Issues:     issues,
		})
	}))

	issues, err := client.SearchAllIssues(t.Context(), "project = PROJ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != total {
		t.Fatalf("expected %d issues, got %d", total, len(issues))
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 pages, got %d: %v", len(requests), requests)
	}
	if requests[1] != 100 {
		t.Fatalf("expected second page at startAt=100, got %d", requests[1])
	}
	if issues[129].Key != "PROJ-130" {
		t.Fatalf("unexpected last key: %s", issues[129].Key)
	}
}

func TestCreateIssueDefaultsToTask(t *testing.T) {
	var body map[string]interface{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"10002","key":"PROJ-8"}`))
	}))

	created, err := client.CreateIssue(t.Context(), CreateIssueInput{
		ProjectKey:  "PROJ",
		Summary:     "New task",
		Description: "Details",
		Fields:      map[string]interface{}{"labels": []string{"sdk"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Key != "PROJ-8" {
		t.Fatalf("unexpected key: %s", created.Key)
	}

	fields := body["fields"].(map[string]interface{})
	issueType := fields["issuetype"].(map[string]interface{})
	if issueType["name"] != "Task" {
		t.Fatalf("expected default issue type Task, got %v", issueType["name"])
	}
	if _, ok := fields["labels"]; !ok {
		t.Fatal("expected extra fields to be merged")
	}
}

func TestCreateIssueRequiresProjectAndSummary(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	if _, err := client.CreateIssue(t.Context(), CreateIssueInput{Summary: "x"}); err == nil {
		t.Fatal("expected error for missing project key")
	}
	if _, err := client.CreateIssue(t.Context(), CreateIssueInput{ProjectKey: "PROJ"}); err == nil {
		t.Fatal("expected error for missing summary")
	}
}

func TestAddComment(t *testing.T) {
	var gotPath string
	var body map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"42","body":"looks good"}`))
	}))

	comment, err := client.AddComment(t.Context(), "PROJ-7", "looks good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/rest/api/2/issue/PROJ-7/comment" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if body["body"] != "looks good" {
		t.Fatalf("unexpected body: %v", body)
	}
	if comment.ID != "42" {
		t.Fatalf("unexpected comment id: %s", comment.ID)
	}
}

func TestFlattenExtractsCommonFields(t *testing.T) {
	client := &Client{baseURL: "https://example.atlassian.net"}
	issue := &Issue{
		ID:  "10001",
		Key: "PROJ-9",
		Fields: map[string]interface{}{
			"summary":     "Broken search",
			"description": "Steps to reproduce",
			"created":     "2026-01-02T10:00:00.000+0000",
			"updated":     "2026-01-03T10:00:00.000+0000",
			"issuetype":   map[string]interface{}{"name": "Bug"},
			"status":      map[string]interface{}{"name": "In Progress"},
			"priority":    map[string]interface{}{"name": "High"},
			"assignee":    map[string]interface{}{"displayName": "Dana"},
			"reporter":    map[string]interface{}{"emailAddress": "rep@example.com"},
			"project":     map[string]interface{}{"key": "PROJ", "name": "Project"},
			"labels":      []interface{}{"backend", "search"},
			"components": []interface{}{
				map[string]interface{}{"name": "api"},
			},
			"customfield_10001": "Team A",
			"customfield_10002": nil,
		},
	}

	record := client.Flatten(issue)
	if record.URL != "https://example.atlassian.net/browse/PROJ-9" {
		t.Fatalf("unexpected URL: %s", record.URL)
	}
	if record.IssueType != "Bug" || record.Status != "In Progress" || record.Priority != "High" {
		t.Fatalf("unexpected typed fields: %+v", record)
	}
	if record.Assignee != "Dana" {
		t.Fatalf("unexpected assignee: %s", record.Assignee)
	}
	if record.Reporter != "rep@example.com" {
		t.Fatalf("expected email fallback for reporter, got %s", record.Reporter)
	}
	if len(record.Labels) != 2 || len(record.Components) != 1 {
		t.Fatalf("unexpected labels/components: %+v", record)
	}
	if _, ok := record.CustomFields["customfield_10001"]; !ok {
		t.Fatal("expected custom field to be captured")
	}
	if _, ok := record.CustomFields["customfield_10002"]; ok {
		t.Fatal("null custom fields should be dropped")
	}
}
