package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Doc is one artifact version returned by the search service.
type Doc struct {
	GroupID    string `json:"g"`
	ArtifactID string `json:"a"`
	Version    string `json:"v"`
}

type searchResponse struct {
	Response struct {
		NumFound int   `json:"numFound"`
		Docs     []Doc `json:"docs"`
	} `json:"response"`
}

// Search queries the upstream artifact search service. One call returns
// every (group, artifact, version) triple matching a package-type query,
// so results are not cached here; the catalog-level snapshot cache covers
// repeat reads.
type Search struct {
	client      *Client
	urlTemplate string
}

// NewSearch creates a search client. urlTemplate must contain exactly one
// %s placeholder that receives the URL-encoded query, for example:
//
//	https://search.example.org/solrsearch/select?q=%s&rows=2000&wt=json
func NewSearch(client *Client, urlTemplate string) *Search {
	return &Search{client: client, urlTemplate: urlTemplate}
}

// Artifacts runs the given query and returns all matching version docs.
// A non-OK status or a body that does not parse as a search response is
// reported as an *UpstreamError carrying the raw body; the build cannot
// proceed without search results.
func (s *Search) Artifacts(ctx context.Context, query string) ([]Doc, error) {
	reqURL := fmt.Sprintf(s.urlTemplate, url.QueryEscape(query))

	status, body, err := s.client.GetRaw(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Status: status, Body: string(body)}
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UpstreamError{Status: status, Body: string(body)}
	}
	return resp.Response.Docs, nil
}
