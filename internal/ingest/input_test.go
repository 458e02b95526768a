package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "film.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadInput_Valid(t *testing.T) {
	in, err := ReadInput(writeInput(t, `{
		"film": {
			"title": "Show X",
			"slug": "show-x",
			"type": "series",
			"extra_info": {"Country": "USA"}
		},
		"episodes": {
			"tmdb_id": "8592",
			"seasons": {"Season 1": {"1": "Pilot"}}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Show X", in.Film.Title)
	assert.Equal(t, FilmTypeSeries, in.Film.Type)
	assert.Equal(t, "USA", in.Film.Country())
	require.NotNil(t, in.Episodes)
	assert.Equal(t, "8592", in.Episodes.TMDBID)
	assert.Equal(t, "Pilot", in.Episodes.Seasons["Season 1"]["1"])
}

func TestReadInput_MissingSlug(t *testing.T) {
	_, err := ReadInput(writeInput(t, `{"film": {"title": "No Slug"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slug")
}

func TestReadInput_UnknownType(t *testing.T) {
	_, err := ReadInput(writeInput(t, `{"film": {"title": "T", "slug": "t", "type": "podcast"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "podcast")
}

func TestReadInput_BadJSON(t *testing.T) {
	_, err := ReadInput(writeInput(t, `{`))
	require.Error(t, err)
}

func TestReadInput_NoFile(t *testing.T) {
	_, err := ReadInput(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
