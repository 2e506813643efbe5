package confluence

import (
	"context"
	"fmt"
	"strconv"

	"atlassian-utils/pkg/atlassian"
)

const (
	defaultSearchLimit = 25
	// maxSearchLimit is the vendor-side cap on page size.
	maxSearchLimit = 200

	defaultExpand = "space,history,body.view,metadata.labels"
	excerptLength = 200
)

// SearchOptions refine a content search. The zero value searches the default
// space (when one is configured) across all content types.
type SearchOptions struct {
	// SpaceKey limits the search to one space and overrides the default
	// space.
	SpaceKey string
	// ContentType filters by type: page, blogpost, attachment, ...
	ContentType string
	Limit       int
	Start       int
	// Expand overrides the default expansion list.
	Expand string
	// NoDefaultSpace disables the default-space fallback for this search.
	NoDefaultSpace bool
}

// SearchContent searches content with a CQL fragment. Space and content-type
// clauses from opts are appended to the query; when no space is given and a
// default space is configured it scopes the search unless opts.NoDefaultSpace
// is set.
func (c *Client) SearchContent(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	expand := opts.Expand
	if expand == "" {
		expand = defaultExpand
	}

	cql := c.buildCQL(query, opts)
	if c.logger != nil {
		c.logger.Debug().Str("cql", cql).Msg("searching confluence content")
	}

	var page contentPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("cql", cql).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("start", strconv.Itoa(opts.Start)).
		SetQueryParam("expand", expand).
		SetResult(&page).
		Get(apiPrefix + "/content/search")
	if err != nil {
		return nil, fmt.Errorf("failed to search content: %w", err)
	}
	if err := checkConfluence(resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(page.Results))
	for _, item := range page.Results {
		results = append(results, c.formatContent(item))
	}

	return &SearchResult{
		Results: results,
		Size:    page.Size,
		Limit:   page.Limit,
		Start:   page.Start,
		CQL:     cql,
	}, nil
}

// SearchInSpace searches content within one space.
func (c *Client) SearchInSpace(ctx context.Context, spaceKey, query string, contentType string, limit int) ([]Result, error) {
	result, err := c.SearchContent(ctx, query, SearchOptions{
		SpaceKey:    spaceKey,
		ContentType: contentType,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) buildCQL(query string, opts SearchOptions) string {
	cql := query

	effectiveSpace := opts.SpaceKey
	if effectiveSpace == "" && !opts.NoDefaultSpace && c.defaultSpace != "" {
		effectiveSpace = c.defaultSpace
		if c.logger != nil {
			c.logger.Debug().Str("space", c.defaultSpace).Msg("using default space")
		}
	}

	if effectiveSpace != "" {
		cql += fmt.Sprintf(` AND space = "%s"`, effectiveSpace)
	}
	if opts.ContentType != "" {
		cql += fmt.Sprintf(` AND type = "%s"`, opts.ContentType)
	}
	return cql
}

func (c *Client) formatContent(item content) Result {
	result := Result{
		ID:     item.ID,
		Title:  item.Title,
		Type:   item.Type,
		Status: item.Status,
	}

	if item.Space != nil {
		result.SpaceKey = item.Space.Key
		result.SpaceName = item.Space.Name
	}

	if webui := item.Links["webui"]; webui != "" {
		result.URL = c.baseURL + webui
	}

	if item.History != nil {
		result.Created = item.History.CreatedDate
		if item.History.LastUpdated != nil {
			result.Updated = item.History.LastUpdated.When
		}
		if item.History.CreatedBy != nil {
			result.CreatorName = item.History.CreatedBy.DisplayName
			result.CreatorUsername = item.History.CreatedBy.Username
		}
	}

	if item.Body != nil && item.Body.View != nil && item.Body.View.Value != "" {
		result.Excerpt = atlassian.Excerpt(item.Body.View.Value, excerptLength)
	}

	if item.Metadata != nil && item.Metadata.Labels != nil {
		for _, label := range item.Metadata.Labels.Results {
			result.Labels = append(result.Labels, label.Name)
		}
	}

	return result
}
