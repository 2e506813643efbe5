package jira

import (
	"encoding/json"
	"net/http"
	"testing"
)

func componentMux(t *testing.T, users []User) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/project/PROJ", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"10000","key":"PROJ","name":"Project"}`))
	})
	mux.HandleFunc("/rest/api/2/user/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	})
	return mux
}

func TestCreateComponentResolvesLead(t *testing.T) {
	mux := componentMux(t, []User{{AccountID: "acc-1", DisplayName: "Dana"}})
	client, _ := newTestClient(t, mux)

	var body map[string]interface{}
	mux.HandleFunc("/rest/api/2/component", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"10100","name":"api"}`))
	})

	component, err := client.CreateComponent(t.Context(), CreateComponentInput{
		ProjectKey: "PROJ",
		Name:       "api",
		Lead:       "dana@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if component.ID != "10100" {
		t.Fatalf("unexpected component: %+v", component)
	}
	if body["leadAccountId"] != "acc-1" {
		t.Fatalf("lead not resolved: %+v", body)
	}
	if body["assigneeType"] != "UNASSIGNED" {
		t.Fatalf("assignee type default missing: %+v", body)
	}
}

func TestCreateComponentFallsBackWithoutLead(t *testing.T) {
	mux := componentMux(t, nil)
	client, _ := newTestClient(t, mux)

	var body map[string]interface{}
	mux.HandleFunc("/rest/api/2/component", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"10101","name":"api"}`))
	})

	_, err := client.CreateComponent(t.Context(), CreateComponentInput{
		ProjectKey: "PROJ",
		Name:       "api",
		Lead:       "nobody@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := body["leadAccountId"]; ok {
		t.Fatalf("unresolvable lead should be dropped: %+v", body)
	}
}

func TestUpdateComponentFailsOnUnresolvableLead(t *testing.T) {
	mux := componentMux(t, nil)
	client, _ := newTestClient(t, mux)

	err := client.UpdateComponent(t.Context(), "10100", UpdateComponentInput{
		Lead: "nobody@example.com",
	})
	if err == nil {
		t.Fatal("expected error for unresolvable lead")
	}
}
