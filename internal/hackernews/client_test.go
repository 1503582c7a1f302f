package hackernews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v0/topstories.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[38500000, 38500001, 38500002]`))
	})
	mux.HandleFunc("/v0/item/38500000.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 38500000,
			"by": "pg",
			"title": "A story",
			"score": 312,
			"time": 1700000000,
			"descendants": 42,
			"kids": [38500010, 38500011],
			"url": "https://example.com/a-story",
			"type": "story"
		}`))
	})
	mux.HandleFunc("/v0/item/1.json", func(w http.ResponseWriter, _ *http.Request) {
		// Unknown ids come back as a literal null with HTTP 200.
		_, _ = w.Write([]byte(`null`))
	})

	return httptest.NewServer(mux)
}

func TestTopStoryIDs(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	ids, err := NewClient(srv.URL, "v0", time.Second).TopStoryIDs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{38500000, 38500001, 38500002}, ids)
}

func TestStoryByID(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	story, err := NewClient(srv.URL, "v0", time.Second).StoryByID(context.Background(), 38500000)
	require.NoError(t, err)

	assert.Equal(t, int64(38500000), story.ID)
	assert.Equal(t, "pg", story.By)
	assert.Equal(t, "A story", story.Title)
	assert.Equal(t, int64(312), story.Score)
	assert.Equal(t, int64(1700000000), story.Time)
	assert.Equal(t, int64(42), story.Descendants)
	assert.Equal(t, []int64{38500010, 38500011}, story.Kids)
	assert.Equal(t, "https://example.com/a-story", story.URL)
	assert.Equal(t, "story", story.Type)
}

func TestStoryByIDNullBody(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	_, err := NewClient(srv.URL, "v0", time.Second).StoryByID(context.Background(), 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStoryByIDHTTPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "v0", time.Second).StoryByID(context.Background(), 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
