package freshness

import (
	"testing"
	"time"

	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestIsStaleBoundaries(t *testing.T) {
	tracker := NewTracker(nil, 5*time.Minute, 60*time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"threshold minus one", 4 * time.Minute, false},
		{"exactly threshold", 5 * time.Minute, false},
		{"threshold plus one", 6 * time.Minute, true},
		// Elapsed minutes are rounded before the comparison: 5m24s rounds
		// down to 5 and still counts as fresh.
		{"just past threshold rounds down", 5*time.Minute + 24*time.Second, false},
		{"rounds up past threshold", 5*time.Minute + 31*time.Second, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := now.Add(-tc.elapsed)
			record := model.ContentTimestamps{PopularLastUpdated: &last}

			assert.Equal(t, tc.want, tracker.IsStale(record, model.NewsTypePopular, now))
		})
	}
}

func TestIsStaleNilTimestamp(t *testing.T) {
	tracker := NewTracker(nil, 5*time.Minute, 60*time.Minute)

	assert.True(t, tracker.IsStale(model.ContentTimestamps{}, model.NewsTypePopular, time.Now()))
	assert.True(t, tracker.IsStale(model.ContentTimestamps{}, model.NewsTypeHighlight, time.Now()))
}

func TestIsStaleHighlightUsesLongerTTL(t *testing.T) {
	tracker := NewTracker(nil, 5*time.Minute, 60*time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	last := now.Add(-30 * time.Minute)
	record := model.ContentTimestamps{
		PopularLastUpdated:   &last,
		HighlightLastUpdated: &last,
	}

	assert.True(t, tracker.IsStale(record, model.NewsTypePopular, now))
	assert.False(t, tracker.IsStale(record, model.NewsTypeHighlight, now))

	old := now.Add(-61 * time.Minute)
	record.HighlightLastUpdated = &old
	assert.True(t, tracker.IsStale(record, model.NewsTypeHighlight, now))
}
