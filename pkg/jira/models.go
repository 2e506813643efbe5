package jira

// Issue represents a Jira issue. Fields stays a raw map because the set of
// returned fields depends on the request and on instance-specific custom
// fields.
type Issue struct {
	ID     string                 `json:"id"`
	Key    string                 `json:"key"`
	Self   string                 `json:"self"`
	Fields map[string]interface{} `json:"fields"`
}

// SearchResult represents one page of a JQL search.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// IssueRecord is a flattened view of an issue with the commonly used fields
// extracted from the raw field map.
type IssueRecord struct {
	Key          string                 `json:"key"`
	ID           string                 `json:"id"`
	URL          string                 `json:"url"`
	ProjectKey   string                 `json:"project_key"`
	ProjectName  string                 `json:"project_name"`
	Summary      string                 `json:"summary"`
	Description  string                 `json:"description"`
	IssueType    string                 `json:"issue_type"`
	Status       string                 `json:"status"`
	Priority     string                 `json:"priority"`
	Created      string                 `json:"created"`
	Updated      string                 `json:"updated"`
	Reporter     string                 `json:"reporter"`
	Assignee     string                 `json:"assignee"`
	Labels       []string               `json:"labels"`
	Components   []string               `json:"components"`
	CustomFields map[string]interface{} `json:"custom_fields"`
}

type Project struct {
	ID             string `json:"id"`
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	ProjectTypeKey string `json:"projectTypeKey,omitempty"`
	Self           string `json:"self,omitempty"`
	Lead           *User  `json:"lead,omitempty"`
}

type User struct {
	AccountID    string `json:"accountId"`
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active"`
	Self         string `json:"self,omitempty"`
}

type Group struct {
	Name    string `json:"name"`
	GroupID string `json:"groupId,omitempty"`
}

type IssueType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Subtask     bool   `json:"subtask"`
}

type Comment struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	Author  *User  `json:"author,omitempty"`
	Created string `json:"created,omitempty"`
	Updated string `json:"updated,omitempty"`
}

type Component struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	Project             string `json:"project,omitempty"`
	AssigneeType        string `json:"assigneeType,omitempty"`
	IsAssigneeTypeValid bool   `json:"isAssigneeTypeValid"`
	Lead                *User  `json:"lead,omitempty"`
}

type Field struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Custom      bool        `json:"custom"`
	Orderable   bool        `json:"orderable"`
	Navigable   bool        `json:"navigable"`
	Searchable  bool        `json:"searchable"`
	ClauseNames []string    `json:"clauseNames"`
	Schema      FieldSchema `json:"schema"`
}

type FieldSchema struct {
	Type     string `json:"type,omitempty"`
	System   string `json:"system,omitempty"`
	Items    string `json:"items,omitempty"`
	Custom   string `json:"custom,omitempty"`
	CustomID int    `json:"customId,omitempty"`
}

// CustomFieldInfo describes a custom field in the context of a project, as
// produced by field discovery.
type CustomFieldInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	FieldType   string      `json:"field_type"`
	Items       string      `json:"items,omitempty"`
	ClauseNames []string    `json:"clause_names"`
	Schema      FieldSchema `json:"schema"`
	ProjectKey  string      `json:"project_key"`
	ProjectName string      `json:"project_name"`
}

// ProjectRole is a role with its assigned actors.
type ProjectRole struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Actors []RoleActor `json:"actors"`
}

type RoleActor struct {
	ID          int             `json:"id"`
	DisplayName string          `json:"displayName"`
	Type        string          `json:"type"`
	ActorUser   *RoleActorUser  `json:"actorUser,omitempty"`
	ActorGroup  *RoleActorGroup `json:"actorGroup,omitempty"`
}

type RoleActorUser struct {
	AccountID string `json:"accountId"`
}

type RoleActorGroup struct {
	Name    string `json:"name"`
	GroupID string `json:"groupId,omitempty"`
}

// UserRole is a user together with how they relate to a project or group.
// Source is one of "project_role", "user_search" or "group_member".
type UserRole struct {
	AccountID   string   `json:"account_id"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email,omitempty"`
	Active      bool     `json:"active"`
	ProjectKey  string   `json:"project_key,omitempty"`
	Role        string   `json:"role,omitempty"`
	RoleID      string   `json:"role_id,omitempty"`
	Groups      []string `json:"groups,omitempty"`
	Source      string   `json:"source"`
}
