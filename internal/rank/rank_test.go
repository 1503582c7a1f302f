package rank

import (
	"testing"

	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stories(scores ...int64) []model.Story {
	return lo.Map(scores, func(score int64, i int) model.Story {
		return model.Story{ID: int64(i + 1), Score: score, Time: score}
	})
}

func TestTopByScore(t *testing.T) {
	input := stories(30, 10, 50, 20, 40)

	got := TopByScore(input, 3)

	require.Len(t, got, 3)
	assert.Equal(t, []int64{50, 40, 30}, lo.Map(got, func(s model.Story, _ int) int64 { return s.Score }))
	for _, story := range got {
		assert.Equal(t, model.NewsTypePopular, story.NewsType)
	}
}

func TestTopByScoreNoSmallerScorePreferred(t *testing.T) {
	input := stories(5, 9, 1, 7, 3, 8, 2, 6, 4, 10)

	got := TopByScore(input, 4)
	require.Len(t, got, 4)

	returned := lo.Map(got, func(s model.Story, _ int) int64 { return s.Score })
	minReturned := lo.Min(returned)

	for _, story := range input {
		if lo.Contains(returned, story.Score) {
			continue
		}
		assert.LessOrEqual(t, story.Score, minReturned)
	}
}

func TestTopByScoreTiesKeepOriginalOrder(t *testing.T) {
	input := []model.Story{
		{ID: 1, Score: 10},
		{ID: 2, Score: 10},
		{ID: 3, Score: 10},
	}

	got := TopByScore(input, 2)

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestTopByScoreBounds(t *testing.T) {
	input := stories(1, 2, 3)

	assert.Empty(t, TopByScore(input, 0))
	assert.Empty(t, TopByScore(input, -1))
	assert.Len(t, TopByScore(input, 10), 3)
	assert.Empty(t, TopByScore(nil, 5))
}

func TestTopByScoreDoesNotMutateInput(t *testing.T) {
	input := stories(1, 3, 2)

	TopByScore(input, 2)

	assert.Equal(t, []int64{1, 3, 2}, lo.Map(input, func(s model.Story, _ int) int64 { return s.Score }))
}

func TestTopByTime(t *testing.T) {
	input := []model.Story{
		{ID: 1, Time: 100},
		{ID: 2, Time: 300},
		{ID: 3, Time: 200},
	}

	got := TopByTime(input, 2)

	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	for _, story := range got {
		assert.Equal(t, model.NewsTypeRecent, story.NewsType)
	}
}
