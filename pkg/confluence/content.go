package confluence

import (
	"context"
	"fmt"
	"strconv"
)

const spacesPageSize = 50

// GetSpaces returns one page of the spaces visible to the authenticated user.
func (c *Client) GetSpaces(ctx context.Context, limit, start int) ([]Space, error) {
	if limit <= 0 {
		limit = spacesPageSize
	}

	var page spacesPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("start", strconv.Itoa(start)).
		SetResult(&page).
		Get(apiPrefix + "/space")
	if err != nil {
		return nil, fmt.Errorf("failed to get spaces: %w", err)
	}
	if err := checkConfluence(resp); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// GetAllSpaces pages through every visible space.
func (c *Client) GetAllSpaces(ctx context.Context) ([]Space, error) {
	var spaces []Space
	start := 0

	for {
		page, err := c.GetSpaces(ctx, spacesPageSize, start)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		spaces = append(spaces, page...)
		if len(page) < spacesPageSize {
			break
		}
		start += len(page)
	}

	return spaces, nil
}

// GetSpaceContent lists content of one type from a space. contentType
// defaults to "page".
func (c *Client) GetSpaceContent(ctx context.Context, spaceKey, contentType string, limit, start int) ([]Result, error) {
	if contentType == "" {
		contentType = "page"
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	var page contentPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("spaceKey", spaceKey).
		SetQueryParam("type", contentType).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("start", strconv.Itoa(start)).
		SetQueryParam("expand", defaultExpand).
		SetResult(&page).
		Get(apiPrefix + "/content")
	if err != nil {
		return nil, fmt.Errorf("failed to get content for space %s: %w", spaceKey, err)
	}
	if err := checkConfluence(resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(page.Results))
	for _, item := range page.Results {
		results = append(results, c.formatContent(item))
	}
	return results, nil
}
