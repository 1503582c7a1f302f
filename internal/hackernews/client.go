// Package hackernews is the client for the read-only Hacker News Firebase API.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/hashicorp/go-retryablehttp"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a client for the given API host and version,
// e.g. https://hacker-news.firebaseio.com and v0.
func NewClient(host, apiVersion string, timeout time.Duration) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    fmt.Sprintf("%s/%s", host, apiVersion),
	}
}

// TopStoryIDs returns the current top story ids in upstream's own ranking.
// The caller is expected to re-rank; upstream order is not trusted.
func (c *Client) TopStoryIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, c.baseURL+"/topstories.json", &ids); err != nil {
		return nil, err
	}

	return ids, nil
}

// StoryByID fetches a single item. Unknown ids come back from upstream as a
// literal null body, which is reported as apperr.ErrNotFound.
func (c *Client) StoryByID(ctx context.Context, id int64) (model.Story, error) {
	var story *model.Story
	if err := c.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", c.baseURL, id), &story); err != nil {
		return model.Story{}, err
	}

	if story == nil {
		return model.Story{}, fmt.Errorf("%w: story %d", apperr.ErrNotFound, id)
	}

	return *story, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: get %s: %v", apperr.ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, url)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", apperr.ErrNetwork, resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", apperr.ErrNetwork, url, err)
	}

	return nil
}
