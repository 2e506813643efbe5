package confluence

// User is a Confluence user as returned by /user/current.
type User struct {
	Type        string `json:"type"`
	AccountID   string `json:"accountId,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

// Space is a Confluence space.
type Space struct {
	ID     int64  `json:"id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
}

type spacesPage struct {
	Results []Space `json:"results"`
	Start   int     `json:"start"`
	Limit   int     `json:"limit"`
	Size    int     `json:"size"`
}

// content mirrors the raw API shape; callers get the formatted Result.
type content struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Space  *struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"space,omitempty"`
	History *struct {
		CreatedDate string `json:"createdDate,omitempty"`
		CreatedBy   *struct {
			DisplayName string `json:"displayName"`
			Username    string `json:"username,omitempty"`
		} `json:"createdBy,omitempty"`
		LastUpdated *struct {
			When string `json:"when"`
		} `json:"lastUpdated,omitempty"`
	} `json:"history,omitempty"`
	Body *struct {
		View *struct {
			Value string `json:"value"`
		} `json:"view,omitempty"`
	} `json:"body,omitempty"`
	Metadata *struct {
		Labels *struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		} `json:"labels,omitempty"`
	} `json:"metadata,omitempty"`
	Links map[string]string `json:"_links,omitempty"`
}

type contentPage struct {
	Results []content `json:"results"`
	Start   int       `json:"start"`
	Limit   int       `json:"limit"`
	Size    int       `json:"size"`
}

// Result is a content item reduced to the fields callers actually read:
// identity, location, authorship, labels and a plain-text excerpt.
type Result struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	Status          string   `json:"status"`
	SpaceKey        string   `json:"space_key,omitempty"`
	SpaceName       string   `json:"space_name,omitempty"`
	URL             string   `json:"url,omitempty"`
	Created         string   `json:"created,omitempty"`
	Updated         string   `json:"updated,omitempty"`
	CreatorName     string   `json:"creator_name,omitempty"`
	CreatorUsername string   `json:"creator_username,omitempty"`
	Excerpt         string   `json:"excerpt,omitempty"`
	Labels          []string `json:"labels,omitempty"`
}

// SearchResult is one page of a CQL search together with the query that
// produced it.
type SearchResult struct {
	Results []Result `json:"results"`
	Size    int      `json:"size"`
	Limit   int      `json:"limit"`
	Start   int      `json:"start"`
	CQL     string   `json:"cql"`
}
