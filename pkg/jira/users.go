package jira

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	groupMemberPageSize = 50
	// groupListMaxResults overrides the picker's small default page so the
	// full group list comes back in one response.
	groupListMaxResults = 9999
)

// SearchUsers finds users matching a query against display name and email.
// An empty query returns every user the credentials may see.
func (c *Client) SearchUsers(ctx context.Context, query string, maxResults int) ([]User, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	var users []User
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("maxResults", strconv.Itoa(maxResults)).
		SetResult(&users).
		Get(apiPrefix + "/user/search")
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserGroups lists the groups a user belongs to.
func (c *Client) GetUserGroups(ctx context.Context, accountID string) ([]Group, error) {
	var groups []Group
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("accountId", accountID).
		SetResult(&groups).
		Get(apiPrefix + "/user/groups")
	if err != nil {
		return nil, fmt.Errorf("failed to get groups for user %s: %w", accountID, err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return groups, nil
}

type groupsPickerResponse struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
}

// GetGroups lists the groups on the instance.
func (c *Client) GetGroups(ctx context.Context) ([]Group, error) {
	var picker groupsPickerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("maxResults", strconv.Itoa(groupListMaxResults)).
		SetResult(&picker).
		Get(apiPrefix + "/groups/picker")
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	if picker.Total > len(picker.Groups) && c.logger != nil {
		c.logger.Warn().Int("returned", len(picker.Groups)).Int("total", picker.Total).Msg("group list truncated")
	}
	return picker.Groups, nil
}

type groupMembersPage struct {
	Values []User `json:"values"`
	IsLast bool   `json:"isLast"`
	Total  int    `json:"total"`
}

// GetGroupMembers pages through the full membership of a group.
func (c *Client) GetGroupMembers(ctx context.Context, groupName string) ([]User, error) {
	var members []User
	startAt := 0

	for {
		var page groupMembersPage
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("groupname", groupName).
			SetQueryParam("startAt", strconv.Itoa(startAt)).
			SetQueryParam("maxResults", strconv.Itoa(groupMemberPageSize)).
			SetResult(&page).
			Get(apiPrefix + "/group/member")
		if err != nil {
			return nil, fmt.Errorf("failed to get members of group %s: %w", groupName, err)
		}
		if err := checkJira(resp); err != nil {
			return nil, err
		}

		members = append(members, page.Values...)
		if page.IsLast || len(page.Values) == 0 {
			break
		}
		startAt += len(page.Values)
	}

	return members, nil
}

// GetProjectRoles returns the role names of a project mapped to the role
// resource URLs.
func (c *Client) GetProjectRoles(ctx context.Context, projectKey string) (map[string]string, error) {
	var roles map[string]string
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&roles).
		Get(apiPrefix + "/project/" + projectKey + "/role")
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for project %s: %w", projectKey, err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetProjectRole retrieves one role of a project with its actors.
func (c *Client) GetProjectRole(ctx context.Context, projectKey, roleID string) (*ProjectRole, error) {
	var role ProjectRole
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&role).
		Get(apiPrefix + "/project/" + projectKey + "/role/" + roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role %s for project %s: %w", roleID, projectKey, err)
	}
	if err := checkJira(resp); err != nil {
		return nil, err
	}
	return &role, nil
}

// GetUsersWithRoles collects users together with role or group context.
//
// With a project key, the project's roles are expanded into their user
// actors. Without one, a global user search is attempted (with group
// membership when includeGroups is set); if the search is not permitted the
// instance's groups are walked instead and members deduplicated.
func (c *Client) GetUsersWithRoles(ctx context.Context, projectKey string, includeGroups bool) ([]UserRole, error) {
	if projectKey != "" {
		return c.projectRoleUsers(ctx, projectKey)
	}

	users, err := c.SearchUsers(ctx, "", 1000)
	if err == nil && len(users) == 0 {
		// Some instances refuse the empty query; a dot matches most email
		// addresses.
		users, err = c.SearchUsers(ctx, ".", 1000)
	}
	if err != nil {
		c.warn("user search failed, falling back to group membership walk", err)
		return c.groupMemberUsers(ctx)
	}

	results := make([]UserRole, 0, len(users))
	for _, user := range users {
		entry := UserRole{
			AccountID:   user.AccountID,
			DisplayName: user.DisplayName,
			Email:       user.EmailAddress,
			Active:      user.Active,
			Source:      "user_search",
		}
		if includeGroups {
			if groups, err := c.GetUserGroups(ctx, user.AccountID); err == nil {
				for _, group := range groups {
					entry.Groups = append(entry.Groups, group.Name)
				}
			} else {
				c.warn(fmt.Sprintf("could not get groups for user %s", user.AccountID), err)
			}
		}
		results = append(results, entry)
	}
	return results, nil
}

func (c *Client) projectRoleUsers(ctx context.Context, projectKey string) ([]UserRole, error) {
	roles, err := c.GetProjectRoles(ctx, projectKey)
	if err != nil {
		return nil, err
	}

	var results []UserRole
	for roleName, roleURL := range roles {
		roleID := roleIDFromURL(roleURL)
		if roleID == "" {
			c.warn(fmt.Sprintf("could not extract role ID for %s", roleName), nil)
			continue
		}

		role, err := c.GetProjectRole(ctx, projectKey, roleID)
		if err != nil {
			c.warn(fmt.Sprintf("could not get actors for role %s", roleName), err)
			continue
		}

		for _, actor := range role.Actors {
			if actor.Type != "atlassian-user-role-actor" {
				continue
			}
			entry := UserRole{
				DisplayName: actor.DisplayName,
				ProjectKey:  projectKey,
				Role:        roleName,
				RoleID:      roleID,
				Active:      true,
				Source:      "project_role",
			}
			if actor.ActorUser != nil {
				entry.AccountID = actor.ActorUser.AccountID
			}
			results = append(results, entry)
		}
	}
	return results, nil
}

func (c *Client) groupMemberUsers(ctx context.Context) ([]UserRole, error) {
	groups, err := c.GetGroups(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	var results []UserRole

	for _, group := range groups {
		members, err := c.GetGroupMembers(ctx, group.Name)
		if err != nil {
			c.warn(fmt.Sprintf("could not get members for group %s", group.Name), err)
			continue
		}

		for _, member := range members {
			if idx, ok := seen[member.AccountID]; ok {
				results[idx].Groups = append(results[idx].Groups, group.Name)
				continue
			}
			results = append(results, UserRole{
				AccountID:   member.AccountID,
				DisplayName: member.DisplayName,
				Email:       member.EmailAddress,
				Active:      member.Active,
				Groups:      []string{group.Name},
				Source:      "group_member",
			})
			seen[member.AccountID] = len(results) - 1
		}
	}
	return results, nil
}

func roleIDFromURL(roleURL string) string {
	idx := strings.LastIndex(roleURL, "/")
	if idx < 0 || idx == len(roleURL)-1 {
		return ""
	}
	return roleURL[idx+1:]
}
