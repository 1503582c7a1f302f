package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/samber/lo"
)

// NewsType is the cached view a stored story belongs to.
type NewsType string

const (
	NewsTypeRecent    NewsType = "recent"
	NewsTypePopular   NewsType = "popular"
	NewsTypeHighlight NewsType = "highlight"
)

// RankedNewsTypes are the views a caller may request a ranked list for.
// The highlight view has its own endpoint.
var RankedNewsTypes = []NewsType{NewsTypeRecent, NewsTypePopular}

// ParseRankedNewsType validates the type query parameter.
func ParseRankedNewsType(raw string) (NewsType, error) {
	for _, newsType := range RankedNewsTypes {
		if raw == string(newsType) {
			return newsType, nil
		}
	}

	values := lo.Map(RankedNewsTypes, func(newsType NewsType, _ int) string {
		return string(newsType)
	})

	return "", &apperr.ValidationError{
		Message: fmt.Sprintf(
			"param type should be any of the following values: %s",
			strings.Join(values, ","),
		),
	}
}

// Story is one Hacker News item, either as it comes from the upstream API or
// as its cached representation. JSON tags match the upstream field names.
type Story struct {
	ID          int64            `json:"id"`
	By          string           `json:"by,omitempty"`
	Title       string           `json:"title"`
	Score       int64            `json:"score"`
	Time        int64            `json:"time"`
	Descendants int64            `json:"descendants,omitempty"`
	Kids        []int64          `json:"kids,omitempty"`
	URL         string           `json:"url,omitempty"`
	Type        string           `json:"type,omitempty"`
	NewsType    NewsType         `json:"newsType,omitempty"`
	Metadata    *ArticleMetadata `json:"metadata,omitempty"`
}

// ArticleMetadata is what the scraper could pull out of a story's page.
// Every field is optional: the page may lack any given tag.
type ArticleMetadata struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	Author        string `json:"author,omitempty"`
	Viewport      string `json:"viewport,omitempty"`
	OGTitle       string `json:"ogTitle,omitempty"`
	OGURL         string `json:"ogURL,omitempty"`
	OGImage       string `json:"ogImage,omitempty"`
	OGDescription string `json:"ogDescription,omitempty"`
	SiteName      string `json:"siteName,omitempty"`
}

// ContentTimestamps is the single persisted freshness record: when the store
// was last known to hold a correct view of each class. A nil timestamp means
// the view was never built.
type ContentTimestamps struct {
	PopularLastUpdated   *time.Time
	RecentLastUpdated    *time.Time
	HighlightLastUpdated *time.Time
}

// ForType returns the last-updated timestamp of the given view.
func (t ContentTimestamps) ForType(newsType NewsType) *time.Time {
	switch newsType {
	case NewsTypePopular:
		return t.PopularLastUpdated
	case NewsTypeRecent:
		return t.RecentLastUpdated
	case NewsTypeHighlight:
		return t.HighlightLastUpdated
	}

	return nil
}
