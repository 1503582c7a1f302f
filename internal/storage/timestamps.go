package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/jmoiron/sqlx"
)

// epoch is what a freshly reset record is seeded with, so every view starts
// out stale.
var epoch = time.Unix(0, 0).UTC()

type TimestampsPostgresStorage struct {
	db *sqlx.DB
}

func NewTimestampsPostgresStorage(db *sqlx.DB) *TimestampsPostgresStorage {
	return &TimestampsPostgresStorage{db: db}
}

// Get reads the single freshness record.
func (s *TimestampsPostgresStorage) Get(ctx context.Context) (model.ContentTimestamps, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return model.ContentTimestamps{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer conn.Close()

	var record dbTimestamps
	if err := conn.GetContext(
		ctx,
		&record,
		`SELECT popular_last_updated, recent_last_updated, highlight_last_updated
		 FROM content_timestamps ORDER BY id DESC LIMIT 1`,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ContentTimestamps{}, fmt.Errorf("%w: content timestamps record missing", apperr.ErrStorage)
		}

		return model.ContentTimestamps{}, fmt.Errorf("%w: select content timestamps: %v", apperr.ErrStorage, err)
	}

	return model.ContentTimestamps(record), nil
}

// Reset clears the record and reseeds it with epoch timestamps. Runs once at
// process start.
func (s *TimestampsPostgresStorage) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", apperr.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_timestamps`); err != nil {
		return fmt.Errorf("%w: delete content timestamps: %v", apperr.ErrStorage, err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO content_timestamps (popular_last_updated, recent_last_updated, highlight_last_updated)
		 VALUES ($1, $1, $1)`,
		epoch,
	); err != nil {
		return fmt.Errorf("%w: seed content timestamps: %v", apperr.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", apperr.ErrStorage, err)
	}

	return nil
}

// SetForType advances the last-updated timestamp of one view.
func (s *TimestampsPostgresStorage) SetForType(ctx context.Context, newsType model.NewsType, t time.Time) error {
	column, err := columnForType(newsType)
	if err != nil {
		return err
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer conn.Close()

	query := fmt.Sprintf(`UPDATE content_timestamps SET %s = $1`, column)
	if _, err := conn.ExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("%w: update content timestamps: %v", apperr.ErrStorage, err)
	}

	return nil
}

// SetAll advances all three timestamps to the same instant.
func (s *TimestampsPostgresStorage) SetAll(ctx context.Context, t time.Time) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(
		ctx,
		`UPDATE content_timestamps
		 SET popular_last_updated = $1, recent_last_updated = $1, highlight_last_updated = $1`,
		t,
	); err != nil {
		return fmt.Errorf("%w: update content timestamps: %v", apperr.ErrStorage, err)
	}

	return nil
}

// The column is picked from a fixed switch, never from caller input.
func columnForType(newsType model.NewsType) (string, error) {
	switch newsType {
	case model.NewsTypePopular:
		return "popular_last_updated", nil
	case model.NewsTypeRecent:
		return "recent_last_updated", nil
	case model.NewsTypeHighlight:
		return "highlight_last_updated", nil
	}

	return "", fmt.Errorf("%w: unknown news type %q", apperr.ErrStorage, newsType)
}

// dbTimestamps mirrors the content_timestamps table.
type dbTimestamps struct {
	PopularLastUpdated   *time.Time `db:"popular_last_updated"`
	RecentLastUpdated    *time.Time `db:"recent_last_updated"`
	HighlightLastUpdated *time.Time `db:"highlight_last_updated"`
}
