package registry

import (
	"context"
	"fmt"
	"net/url"
)

// FileCounts looks up how many files one published artifact version ships.
// The search service's version documents list the published packagings
// in their "ec" field; the file count is the length of that list.
//
// Lookups go through [Client.Get], so a 5xx answer surfaces as a
// retryable error, but results are not cached here: the enricher caches
// successful counts durably and must be able to tell a fetch failure
// apart from a cached zero.
type FileCounts struct {
	client      *Client
	urlTemplate string
}

type countResponse struct {
	Response struct {
		NumFound int `json:"numFound"`
		Docs     []struct {
			Files []string `json:"ec"`
		} `json:"docs"`
	} `json:"response"`
}

// NewFileCounts creates a file-count client over the same search endpoint
// shape as [NewSearch] (one %s placeholder for the encoded query).
func NewFileCounts(client *Client, urlTemplate string) *FileCounts {
	return &FileCounts{client: client, urlTemplate: urlTemplate}
}

// Count returns the number of files published for one artifact version.
func (f *FileCounts) Count(ctx context.Context, groupID, artifactID, version string) (int, error) {
	query := fmt.Sprintf("g:%q AND a:%q AND v:%q", groupID, artifactID, version)
	reqURL := fmt.Sprintf(f.urlTemplate, url.QueryEscape(query))

	var resp countResponse
	if err := f.client.Get(ctx, reqURL, &resp); err != nil {
		return 0, err
	}
	if resp.Response.NumFound == 0 || len(resp.Response.Docs) == 0 {
		return 0, fmt.Errorf("%w: %s:%s:%s", ErrNotFound, groupID, artifactID, version)
	}
	return len(resp.Response.Docs[0].Files), nil
}
