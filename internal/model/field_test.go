package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agurato/imdb-data/internal/model"
)

func TestField(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		f := model.FoundField(model.KeyTitle, "Inception")
		assert.Equal(t, "Inception", f.String())
		out, err := json.Marshal(f)
		require.NoError(t, err)
		assert.JSONEq(t, `"Inception"`, string(out))
	})

	t.Run("Missing", func(t *testing.T) {
		f := model.Missing(model.KeyLanguage)
		assert.Equal(t, "No language found", f.String())
		out, err := json.Marshal(f)
		require.NoError(t, err)
		assert.JSONEq(t, `"No language found"`, string(out))
	})

	t.Run("Map", func(t *testing.T) {
		exclaim := func(s string) string { return s + "!" }
		assert.Equal(t, "a!", model.FoundField(model.KeyTime, "a").Map(exclaim).Value)
		assert.False(t, model.Missing(model.KeyTime).Map(exclaim).Found)
	})
}

func TestSentinels(t *testing.T) {
	expected := map[string]string{
		model.KeyTitle:    "No title found",
		model.KeyRate:     "No rate found",
		model.KeyName:     "No name found",
		model.KeyRole:     "No role found",
		model.KeyOrigin:   "No origin found",
		model.KeyLanguage: "No language found",
		model.KeyAuthor:   "No author found",
		model.KeyDate:     "No date found",
		model.KeyReview:   "No review found",
		model.KeyLink:     "No link found",
		model.KeyTime:     "No time found",
	}
	for key, sentinel := range expected {
		assert.Equal(t, sentinel, model.Sentinel(key))
	}
}

func TestParseRating(t *testing.T) {
	r := model.ParseRating("7.4")
	assert.True(t, r.Found)
	assert.Equal(t, 7.4, r.Value)

	assert.True(t, model.ParseRating("0").Found)
	assert.True(t, model.ParseRating("10").Found)

	for _, text := range []string{"", "No rate found", "abc", "7,4", "-1", "10.5", "NaN", "Inf"} {
		assert.False(t, model.ParseRating(text).Found, text)
	}
}

func TestRatingJSON(t *testing.T) {
	out, err := json.Marshal(model.ParseRating("8.8"))
	require.NoError(t, err)
	assert.JSONEq(t, `8.8`, string(out))

	out, err = json.Marshal(model.Rating{})
	require.NoError(t, err)
	assert.JSONEq(t, `"No rate found"`, string(out))

	assert.Equal(t, "8.8", model.ParseRating("8.8").String())
	assert.Equal(t, "No rate found", model.Rating{}.String())
}

func TestTitleJSON(t *testing.T) {
	title := model.Title{
		Title:  model.FoundField(model.KeyTitle, "Inception"),
		Rating: model.ParseRating("8.8"),
		Cast: []model.CastEntry{
			{Name: model.FoundField(model.KeyName, "Leonardo DiCaprio"), Role: model.Missing(model.KeyRole)},
		},
		Origin:   model.Missing(model.KeyOrigin),
		Language: model.FoundField(model.KeyLanguage, "English"),
	}
	out, err := json.Marshal(title)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "Inception",
		"rating": 8.8,
		"cast": [{"name": "Leonardo DiCaprio", "role": "No role found"}],
		"origin": "No origin found",
		"language": "English"
	}`, string(out))
}
