// Package scraper extracts article metadata from a story's external page.
// Best-effort by contract: callers degrade a failed scrape to empty metadata.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/hashicorp/go-retryablehttp"
)

type Scraper struct {
	httpClient *http.Client
	userAgent  string
}

func New(timeout time.Duration, userAgent string) *Scraper {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	return &Scraper{
		httpClient: retryClient.StandardClient(),
		userAgent:  userAgent,
	}
}

// Scrape fetches the page and pulls the fixed set of meta tags out of it.
// Missing tags leave the corresponding field empty. The OG fields are matched
// on the name attribute, not property, with this exact casing.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (model.ArticleMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return model.ArticleMetadata{}, fmt.Errorf("%w: %v", apperr.ErrNetwork, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return model.ArticleMetadata{}, fmt.Errorf("%w: get %s: %v", apperr.ErrNetwork, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ArticleMetadata{}, fmt.Errorf("%w: unexpected status %d from %s", apperr.ErrNetwork, resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.ArticleMetadata{}, fmt.Errorf("%w: parse %s: %v", apperr.ErrNetwork, pageURL, err)
	}

	return model.ArticleMetadata{
		Title:         metaContent(doc, `meta[property="title"]`),
		Description:   metaContent(doc, `meta[name="description"]`),
		Keywords:      metaContent(doc, `meta[name="keywords"]`),
		Author:        metaContent(doc, `meta[name="author"]`),
		Viewport:      metaContent(doc, `meta[name="viewport"]`),
		OGTitle:       metaContent(doc, `meta[name="og:title"]`),
		OGURL:         metaContent(doc, `meta[name="og:URL"]`),
		OGImage:       metaContent(doc, `meta[name="og:image"]`),
		OGDescription: metaContent(doc, `meta[name="og:Description"]`),
		SiteName:      metaContent(doc, `meta[property="og:site_name"]`),
	}, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	return doc.Find(selector).AttrOr("content", "")
}
