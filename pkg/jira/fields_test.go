package jira

import (
	"encoding/json"
	"net/http"
	"testing"
)

func fieldDiscoveryHandler(t *testing.T, searchStatus int, sampled []Issue) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/rest/api/2/project/PROJ":
			w.Write([]byte(`{"id":"10000","key":"PROJ","name":"Project"}`))
		case "/rest/api/2/field":
			json.NewEncoder(w).Encode([]Field{
				{ID: "summary", Name: "Summary"},
				{ID: "customfield_10001", Name: "Team", Schema: FieldSchema{Type: "string"}},
				{ID: "customfield_10002", Name: "Sprint", Schema: FieldSchema{Type: "array", Items: "string"}},
				{ID: "customfield_10003", Name: "Unused"},
			})
		case "/rest/api/2/search":
			if searchStatus != http.StatusOK {
				w.WriteHeader(searchStatus)
				w.Write([]byte(`{}`))
				return
			}
			json.NewEncoder(w).Encode(SearchResult{
				Total:  len(sampled),
				Issues: sampled,
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestGetProjectCustomFieldsSamplesUsage(t *testing.T) {
	sampled := []Issue{
		{Key: "PROJ-1", Fields: map[string]interface{}{
			"summary":           "one",
			"customfield_10001": "Team A",
			"customfield_10003": nil,
		}},
		{Key: "PROJ-2", Fields: map[string]interface{}{
			"customfield_10002": []interface{}{"Sprint 4"},
		}},
	}
	client, _ := newTestClient(t, fieldDiscoveryHandler(t, http.StatusOK, sampled))

	infos, err := client.GetProjectCustomFields(t.Context(), "PROJ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 used fields, got %d: %+v", len(infos), infos)
	}
	if infos[0].ID != "customfield_10001" || infos[1].ID != "customfield_10002" {
		t.Fatalf("unexpected field IDs: %+v", infos)
	}
	if infos[0].ProjectKey != "PROJ" || infos[0].ProjectName != "Project" {
		t.Fatalf("project context missing: %+v", infos[0])
	}
	if infos[1].FieldType != "array" || infos[1].Items != "string" {
		t.Fatalf("schema not carried: %+v", infos[1])
	}
}

func TestGetProjectCustomFieldsFallsBackWhenSamplingFails(t *testing.T) {
	client, _ := newTestClient(t, fieldDiscoveryHandler(t, http.StatusForbidden, nil))

	infos, err := client.GetProjectCustomFields(t.Context(), "PROJ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected all custom fields on fallback, got %d", len(infos))
	}
	if infos[2].FieldType != "Unknown" {
		t.Fatalf("expected Unknown type for schema-less field, got %q", infos[2].FieldType)
	}
}

func TestGetProjectCustomFieldsFallsBackWhenNoneUsed(t *testing.T) {
	sampled := []Issue{
		{Key: "PROJ-1", Fields: map[string]interface{}{"summary": "bare"}},
	}
	client, _ := newTestClient(t, fieldDiscoveryHandler(t, http.StatusOK, sampled))

	infos, err := client.GetProjectCustomFields(t.Context(), "PROJ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected all custom fields when none sampled, got %d", len(infos))
	}
}
