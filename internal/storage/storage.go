// Package storage is the Postgres persistence for stories and the single
// content-freshness record.
package storage

import "github.com/jmoiron/sqlx"

const schema = `
CREATE TABLE IF NOT EXISTS stories (
	id BIGSERIAL PRIMARY KEY,
	hn_id BIGINT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	score BIGINT NOT NULL,
	"time" BIGINT NOT NULL,
	descendants BIGINT NOT NULL DEFAULT 0,
	kids BIGINT[] NOT NULL DEFAULT '{}',
	url TEXT NOT NULL DEFAULT '',
	story_type TEXT NOT NULL DEFAULT '',
	news_type TEXT NOT NULL,
	metadata JSONB,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_stories_news_type ON stories(news_type);

CREATE TABLE IF NOT EXISTS content_timestamps (
	id BIGSERIAL PRIMARY KEY,
	popular_last_updated TIMESTAMP,
	recent_last_updated TIMESTAMP,
	highlight_last_updated TIMESTAMP
);
`

// Migrate creates the tables if they do not exist yet.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
