// Package news is the cache façade: it decides hit vs refresh per view and
// owns all writes to the story collection and the freshness record.
package news

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/andrevlins/hn-news-cache/internal/rank"
	"golang.org/x/sync/errgroup"
)

type UpstreamClient interface {
	TopStoryIDs(ctx context.Context) ([]int64, error)
	StoryByID(ctx context.Context, id int64) (model.Story, error)
}

type StoryIngestor interface {
	FetchAll(ctx context.Context, ids []int64) []model.Story
}

type MetadataScraper interface {
	Scrape(ctx context.Context, url string) (model.ArticleMetadata, error)
}

type StoryStorage interface {
	ByType(ctx context.Context, newsType model.NewsType) ([]model.Story, error)
	OneByType(ctx context.Context, newsType model.NewsType) (*model.Story, error)
	ReplaceByType(ctx context.Context, newsType model.NewsType, stories []model.Story) error
	ReplaceAll(ctx context.Context, stories []model.Story) error
	DeleteByType(ctx context.Context, newsType model.NewsType) error
	Insert(ctx context.Context, story model.Story) error
}

type FreshnessTracker interface {
	Stale(ctx context.Context, newsType model.NewsType, now time.Time) (bool, error)
	MarkFresh(ctx context.Context, newsType model.NewsType, now time.Time) error
	MarkAllFresh(ctx context.Context, now time.Time) error
}

// Service serves the three cached views. Two overlapping stale reads of the
// same view may both refresh; last write wins on rows and timestamp alike.
// TODO: single-flight per view so concurrent callers share one refresh.
type Service struct {
	client    UpstreamClient
	ingestor  StoryIngestor
	scraper   MetadataScraper
	stories   StoryStorage
	freshness FreshnessTracker
	topLimit  int
}

func NewService(
	client UpstreamClient,
	ingestor StoryIngestor,
	scraper MetadataScraper,
	stories StoryStorage,
	freshness FreshnessTracker,
	topLimit int,
) *Service {
	return &Service{
		client:    client,
		ingestor:  ingestor,
		scraper:   scraper,
		stories:   stories,
		freshness: freshness,
		topLimit:  topLimit,
	}
}

// Ranked returns the popular or recent view. A fresh view is served straight
// from the store with no upstream call; a stale one is rebuilt from the full
// top-stories list, persisted, and only then marked fresh.
func (s *Service) Ranked(ctx context.Context, newsType model.NewsType) ([]model.Story, error) {
	if newsType != model.NewsTypePopular && newsType != model.NewsTypeRecent {
		return nil, &apperr.ValidationError{
			Message: fmt.Sprintf("no ranked view for news type %q", newsType),
		}
	}

	now := time.Now().UTC()

	var (
		stale  bool
		stored []model.Story
	)

	// Freshness record and stored rows are independent reads, issued as one
	// batch.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stale, err = s.freshness.Stale(gctx, newsType, now)
		return err
	})
	g.Go(func() error {
		var err error
		stored, err = s.stories.ByType(gctx, newsType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !stale {
		return stored, nil
	}

	ids, err := s.client.TopStoryIDs(ctx)
	if err != nil {
		return nil, err
	}

	fetched := s.ingestor.FetchAll(ctx, ids)
	if len(fetched) == 0 {
		return nil, fmt.Errorf("%w: could not fetch any of %d stories", apperr.ErrNetwork, len(ids))
	}

	var ranked []model.Story
	if newsType == model.NewsTypePopular {
		ranked = rank.TopByScore(fetched, s.topLimit)
	} else {
		ranked = rank.TopByTime(fetched, s.topLimit)
	}

	if err := s.stories.ReplaceByType(ctx, newsType, ranked); err != nil {
		return nil, err
	}

	if err := s.freshness.MarkFresh(ctx, newsType, now); err != nil {
		return nil, err
	}

	return ranked, nil
}

// Highlight returns the single highlight story, rebuilding it when its (much
// longer) TTL has run out: one uniformly random story from the current top
// list, enriched with scraped page metadata.
func (s *Service) Highlight(ctx context.Context) (model.Story, error) {
	now := time.Now().UTC()

	stale, err := s.freshness.Stale(ctx, model.NewsTypeHighlight, now)
	if err != nil {
		return model.Story{}, err
	}

	if !stale {
		stored, err := s.stories.OneByType(ctx, model.NewsTypeHighlight)
		if err == nil {
			return *stored, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return model.Story{}, err
		}
		// Fresh timestamp but no row: an earlier delete/insert pair was
		// interrupted. Fall through and rebuild.
	}

	ids, err := s.client.TopStoryIDs(ctx)
	if err != nil {
		return model.Story{}, err
	}
	if len(ids) == 0 {
		return model.Story{}, fmt.Errorf("%w: empty top stories list", apperr.ErrNetwork)
	}

	story, err := s.client.StoryByID(ctx, ids[rand.Intn(len(ids))])
	if err != nil {
		return model.Story{}, err
	}

	story.NewsType = model.NewsTypeHighlight
	story.Metadata = s.scrapeMetadata(ctx, story.URL)

	// Two separate store calls. A crash in between leaves no highlight row;
	// the next read misses and rebuilds.
	if err := s.stories.DeleteByType(ctx, model.NewsTypeHighlight); err != nil {
		return model.Story{}, err
	}
	if err := s.stories.Insert(ctx, story); err != nil {
		return model.Story{}, err
	}

	if err := s.freshness.MarkFresh(ctx, model.NewsTypeHighlight, now); err != nil {
		return model.Story{}, err
	}

	return story, nil
}

// RefreshAll rebuilds all three views from a single upstream snapshot,
// ignoring freshness. This is the only operation that leaves the views
// mutually consistent.
func (s *Service) RefreshAll(ctx context.Context) error {
	now := time.Now().UTC()

	ids, err := s.client.TopStoryIDs(ctx)
	if err != nil {
		return err
	}

	fetched := s.ingestor.FetchAll(ctx, ids)
	if len(fetched) == 0 {
		return fmt.Errorf("%w: could not fetch any of %d stories", apperr.ErrNetwork, len(ids))
	}

	popular := rank.TopByScore(fetched, s.topLimit)
	recent := rank.TopByTime(fetched, s.topLimit)

	highlight := fetched[rand.Intn(len(fetched))]
	highlight.NewsType = model.NewsTypeHighlight
	highlight.Metadata = s.scrapeMetadata(ctx, highlight.URL)

	replacement := make([]model.Story, 0, len(popular)+len(recent)+1)
	replacement = append(replacement, popular...)
	replacement = append(replacement, recent...)
	replacement = append(replacement, highlight)

	if err := s.stories.ReplaceAll(ctx, replacement); err != nil {
		return err
	}

	return s.freshness.MarkAllFresh(ctx, now)
}

// scrapeMetadata never fails the caller: a story without a usable page simply
// gets empty metadata.
func (s *Service) scrapeMetadata(ctx context.Context, url string) *model.ArticleMetadata {
	if url == "" {
		return &model.ArticleMetadata{}
	}

	metadata, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		log.Printf("[ERROR] scraping article metadata from %s: %v", url, err)
		return &model.ArticleMetadata{}
	}

	return &metadata
}
