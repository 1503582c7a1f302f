package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrevlins/hn-news-cache/internal/config"
	"github.com/andrevlins/hn-news-cache/internal/freshness"
	"github.com/andrevlins/hn-news-cache/internal/hackernews"
	"github.com/andrevlins/hn-news-cache/internal/ingest"
	"github.com/andrevlins/hn-news-cache/internal/news"
	"github.com/andrevlins/hn-news-cache/internal/scraper"
	"github.com/andrevlins/hn-news-cache/internal/server"
	"github.com/andrevlins/hn-news-cache/internal/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Get()

	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		log.Printf("[ERROR] failed to connect to database: %v", err)
		return
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Printf("[ERROR] failed to migrate database: %v", err)
		return
	}

	var (
		storyStorage      = storage.NewStoryPostgresStorage(db)
		timestampsStorage = storage.NewTimestampsPostgresStorage(db)
		client            = hackernews.NewClient(cfg.HackerNewsHost, cfg.HackerNewsAPIVersion, cfg.HTTPClientTimeout)
		metadataScraper   = scraper.New(cfg.HTTPClientTimeout, cfg.ScrapeUserAgent)
		ingestor          = ingest.New(client, cfg.FetchChunkSize)
		tracker           = freshness.NewTracker(timestampsStorage, cfg.StoriesTTL, cfg.HighlightTTL)
		service           = news.NewService(client, ingestor, metadataScraper, storyStorage, tracker, cfg.TopStoriesLimit)
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Reseed the freshness record and warm the cache before serving. A failed
	// warm-up just means the first stale read rebuilds the views.
	if err := tracker.Reset(ctx); err != nil {
		log.Printf("[ERROR] failed to reset content timestamps: %v", err)
		return
	}
	if err := service.RefreshAll(ctx); err != nil {
		log.Printf("[ERROR] initial refresh failed: %v", err)
	}

	srv := server.New(service)
	if err := srv.Start(ctx, cfg.HTTPAddr); err != nil {
		log.Printf("[ERROR] server stopped: %v", err)
	}
}
