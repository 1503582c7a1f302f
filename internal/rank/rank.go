// Package rank selects the top stories out of an unordered snapshot.
package rank

import (
	"sort"

	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/samber/lo"
)

// TopByScore returns the n highest-scoring stories, stamped as the popular
// view. Ties keep their original relative order.
func TopByScore(stories []model.Story, n int) []model.Story {
	return top(stories, n, model.NewsTypePopular, func(a, b model.Story) bool {
		return a.Score > b.Score
	})
}

// TopByTime returns the n most recently created stories, stamped as the
// recent view. Ties keep their original relative order.
func TopByTime(stories []model.Story, n int) []model.Story {
	return top(stories, n, model.NewsTypeRecent, func(a, b model.Story) bool {
		return a.Time > b.Time
	})
}

func top(stories []model.Story, n int, newsType model.NewsType, more func(a, b model.Story) bool) []model.Story {
	if n <= 0 {
		return []model.Story{}
	}

	// The input is shared with the caller and must not be reordered.
	sorted := make([]model.Story, len(stories))
	copy(sorted, stories)

	sort.SliceStable(sorted, func(i, j int) bool {
		return more(sorted[i], sorted[j])
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}

	return lo.Map(sorted, func(story model.Story, _ int) model.Story {
		story.NewsType = newsType
		return story
	})
}
