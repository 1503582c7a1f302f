package model

import (
	"testing"

	"github.com/andrevlins/hn-news-cache/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRankedNewsType(t *testing.T) {
	for raw, want := range map[string]NewsType{
		"popular": NewsTypePopular,
		"recent":  NewsTypeRecent,
	} {
		got, err := ParseRankedNewsType(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseRankedNewsTypeInvalid(t *testing.T) {
	for _, raw := range []string{"", "highlight", "POPULAR", "banana"} {
		_, err := ParseRankedNewsType(raw)

		var validationErr *apperr.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "param type should be any of the following values: recent,popular", validationErr.Message)
	}
}

func TestContentTimestampsForType(t *testing.T) {
	record := ContentTimestamps{}
	assert.Nil(t, record.ForType(NewsTypePopular))
	assert.Nil(t, record.ForType("nonsense"))
}
