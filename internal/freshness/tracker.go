// Package freshness decides when a cached view is too old to trust.
package freshness

import (
	"context"
	"math"
	"time"

	"github.com/andrevlins/hn-news-cache/internal/model"
)

// TimestampsStorage persists the single content-freshness record.
type TimestampsStorage interface {
	Get(ctx context.Context) (model.ContentTimestamps, error)
	SetForType(ctx context.Context, newsType model.NewsType, t time.Time) error
	SetAll(ctx context.Context, t time.Time) error
	Reset(ctx context.Context) error
}

// Tracker holds the per-view TTLs. The highlight TTL is much longer than the
// stories TTL since a highlight refresh triggers an external page scrape.
type Tracker struct {
	timestamps   TimestampsStorage
	storiesTTL   time.Duration
	highlightTTL time.Duration
}

func NewTracker(timestamps TimestampsStorage, storiesTTL, highlightTTL time.Duration) *Tracker {
	return &Tracker{
		timestamps:   timestamps,
		storiesTTL:   storiesTTL,
		highlightTTL: highlightTTL,
	}
}

// Stale reads the persisted record and reports whether the view is stale.
func (t *Tracker) Stale(ctx context.Context, newsType model.NewsType, now time.Time) (bool, error) {
	record, err := t.timestamps.Get(ctx)
	if err != nil {
		return false, err
	}

	return t.IsStale(record, newsType, now), nil
}

// IsStale is the pure staleness test. A view with no timestamp is stale.
// The elapsed time is rounded to whole minutes before comparing against the
// threshold, so a diff of threshold+0.4 minutes still reads as fresh; this
// rounding is part of the observable TTL contract.
func (t *Tracker) IsStale(record model.ContentTimestamps, newsType model.NewsType, now time.Time) bool {
	lastUpdated := record.ForType(newsType)
	if lastUpdated == nil {
		return true
	}

	elapsedMinutes := math.Round(math.Abs(now.Sub(*lastUpdated).Minutes()))

	return elapsedMinutes > t.thresholdMinutes(newsType)
}

// MarkFresh persists "the view of newsType was correct as of now".
func (t *Tracker) MarkFresh(ctx context.Context, newsType model.NewsType, now time.Time) error {
	return t.timestamps.SetForType(ctx, newsType, now)
}

// MarkAllFresh stamps all three views with the same instant.
func (t *Tracker) MarkAllFresh(ctx context.Context, now time.Time) error {
	return t.timestamps.SetAll(ctx, now)
}

// Reset reseeds the persisted record so that every view is stale.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.timestamps.Reset(ctx)
}

func (t *Tracker) thresholdMinutes(newsType model.NewsType) float64 {
	if newsType == model.NewsTypeHighlight {
		return t.highlightTTL.Minutes()
	}

	return t.storiesTTL.Minutes()
}
