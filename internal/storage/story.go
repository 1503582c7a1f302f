package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

type StoryPostgresStorage struct {
	db *sqlx.DB
}

func NewStoryPostgresStorage(db *sqlx.DB) *StoryPostgresStorage {
	return &StoryPostgresStorage{db: db}
}

// ByType returns the stored rows of one view, in insertion order.
func (s *StoryPostgresStorage) ByType(ctx context.Context, newsType model.NewsType) ([]model.Story, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer conn.Close()

	var stories []dbStory
	if err := conn.SelectContext(
		ctx,
		&stories,
		`SELECT hn_id, author, title, score, "time", descendants, kids, url, story_type, news_type, metadata
		 FROM stories WHERE news_type = $1 ORDER BY id`,
		string(newsType),
	); err != nil {
		return nil, fmt.Errorf("%w: select stories: %v", apperr.ErrStorage, err)
	}

	result := make([]model.Story, 0, len(stories))
	for _, story := range stories {
		converted, err := story.toModel()
		if err != nil {
			return nil, err
		}

		result = append(result, converted)
	}

	return result, nil
}

// OneByType returns the single stored row of a view, apperr.ErrNotFound if
// there is none. Used for the highlight view, which holds at most one row.
func (s *StoryPostgresStorage) OneByType(ctx context.Context, newsType model.NewsType) (*model.Story, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer conn.Close()

	var story dbStory
	if err := conn.GetContext(
		ctx,
		&story,
		`SELECT hn_id, author, title, score, "time", descendants, kids, url, story_type, news_type, metadata
		 FROM stories WHERE news_type = $1 ORDER BY id DESC LIMIT 1`,
		string(newsType),
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no %s story stored", apperr.ErrNotFound, newsType)
		}

		return nil, fmt.Errorf("%w: select story: %v", apperr.ErrStorage, err)
	}

	converted, err := story.toModel()
	if err != nil {
		return nil, err
	}

	return &converted, nil
}

// ReplaceByType supersedes the stored rows of one view with the given ones,
// in a single transaction.
func (s *StoryPostgresStorage) ReplaceByType(ctx context.Context, newsType model.NewsType, stories []model.Story) error {
	return s.replaceWhere(ctx, `DELETE FROM stories WHERE news_type = $1`, []any{string(newsType)}, stories)
}

// ReplaceAll supersedes the entire collection.
func (s *StoryPostgresStorage) ReplaceAll(ctx context.Context, stories []model.Story) error {
	return s.replaceWhere(ctx, `DELETE FROM stories`, nil, stories)
}

func (s *StoryPostgresStorage) replaceWhere(ctx context.Context, deleteQuery string, deleteArgs []any, stories []model.Story) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", apperr.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: delete stories: %v", apperr.ErrStorage, err)
	}

	for _, story := range stories {
		if err := insertStory(ctx, tx, story); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", apperr.ErrStorage, err)
	}

	return nil
}

// DeleteByType removes the stored rows of one view.
func (s *StoryPostgresStorage) DeleteByType(ctx context.Context, newsType model.NewsType) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `DELETE FROM stories WHERE news_type = $1`, string(newsType)); err != nil {
		return fmt.Errorf("%w: delete stories: %v", apperr.ErrStorage, err)
	}

	return nil
}

// Insert stores a single row.
func (s *StoryPostgresStorage) Insert(ctx context.Context, story model.Story) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	defer conn.Close()

	return insertStory(ctx, conn, story)
}

func insertStory(ctx context.Context, e sqlx.ExecerContext, story model.Story) error {
	row, err := newDBStory(story)
	if err != nil {
		return err
	}

	if _, err := e.ExecContext(
		ctx,
		`INSERT INTO stories (hn_id, author, title, score, "time", descendants, kids, url, story_type, news_type, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		row.HNID,
		row.Author,
		row.Title,
		row.Score,
		row.Time,
		row.Descendants,
		row.Kids,
		row.URL,
		row.StoryType,
		row.NewsType,
		row.Metadata,
	); err != nil {
		return fmt.Errorf("%w: insert story %d: %v", apperr.ErrStorage, story.ID, err)
	}

	return nil
}

// dbStory mirrors the stories table.
type dbStory struct {
	HNID        int64         `db:"hn_id"`
	Author      string        `db:"author"`
	Title       string        `db:"title"`
	Score       int64         `db:"score"`
	Time        int64         `db:"time"`
	Descendants int64         `db:"descendants"`
	Kids        pq.Int64Array `db:"kids"`
	URL         string        `db:"url"`
	StoryType   string        `db:"story_type"`
	NewsType    string        `db:"news_type"`
	Metadata    []byte        `db:"metadata"`
}

func newDBStory(story model.Story) (dbStory, error) {
	row := dbStory{
		HNID:        story.ID,
		Author:      story.By,
		Title:       story.Title,
		Score:       story.Score,
		Time:        story.Time,
		Descendants: story.Descendants,
		Kids:        pq.Int64Array(story.Kids),
		URL:         story.URL,
		StoryType:   story.Type,
		NewsType:    string(story.NewsType),
	}

	if story.Metadata != nil {
		metadata, err := json.Marshal(story.Metadata)
		if err != nil {
			return dbStory{}, fmt.Errorf("%w: marshal metadata: %v", apperr.ErrStorage, err)
		}

		row.Metadata = metadata
	}

	return row, nil
}

func (s dbStory) toModel() (model.Story, error) {
	story := model.Story{
		ID:          s.HNID,
		By:          s.Author,
		Title:       s.Title,
		Score:       s.Score,
		Time:        s.Time,
		Descendants: s.Descendants,
		Kids:        lo.Ternary(len(s.Kids) > 0, []int64(s.Kids), nil),
		URL:         s.URL,
		Type:        s.StoryType,
		NewsType:    model.NewsType(s.NewsType),
	}

	if len(s.Metadata) > 0 {
		var metadata model.ArticleMetadata
		if err := json.Unmarshal(s.Metadata, &metadata); err != nil {
			return model.Story{}, fmt.Errorf("%w: unmarshal metadata: %v", apperr.ErrStorage, err)
		}

		story.Metadata = &metadata
	}

	return story, nil
}
