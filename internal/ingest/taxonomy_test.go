package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmpress/filmpress/internal/store"
)

func TestResolveAndLink_CreatesThenReuses(t *testing.T) {
	ing, st, _ := newTestIngester(t)

	ing.resolveAndLink(st, 1, "Drama", store.TaxonomyGenres, "")
	ing.resolveAndLink(st, 2, "Drama", store.TaxonomyGenres, "")

	n, err := st.CountTerms("drama", store.TaxonomyGenres)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "resolving the same label twice must reuse the term")

	for _, postID := range []int64{1, 2} {
		links, err := st.LinksForObject(postID)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "drama", links[0].Slug)
		assert.Equal(t, store.TaxonomyGenres, links[0].Taxonomy)
	}
}

func TestResolveAndLink_CommaSplit(t *testing.T) {
	ing, st, _ := newTestIngester(t)

	ing.resolveAndLink(st, 1, "Action, Drama,Sci-Fi", store.TaxonomyGenres, "")

	links, err := st.LinksForObject(1)
	require.NoError(t, err)
	require.Len(t, links, 3)

	slugs := []string{links[0].Slug, links[1].Slug, links[2].Slug}
	assert.ElementsMatch(t, []string{"action", "drama", "sci-fi"}, slugs)
}

func TestResolveAndLink_LabelsAreCapitalized(t *testing.T) {
	ing, st, _ := newTestIngester(t)

	ing.resolveAndLink(st, 1, "JAPAN", store.TaxonomyCountry, "")

	links, err := st.LinksForObject(1)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Japan", links[0].Name)
	assert.Equal(t, "japan", links[0].Slug)
}

func TestResolveAndLink_ExplicitSlugSingleLabel(t *testing.T) {
	ing, st, _ := newTestIngester(t)

	ing.resolveAndLink(st, 1, "TV Show", store.TaxonomyCategory, "tv-shows")

	links, err := st.LinksForObject(1)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "tv-shows", links[0].Slug)
}

func TestResolveAndLink_ExplicitSlugIgnoredForMultipleLabels(t *testing.T) {
	ing, st, _ := newTestIngester(t)

	// With one shared override every label would collapse onto one term;
	// the override is dropped and slugs are derived per label instead.
	ing.resolveAndLink(st, 1, "Action,Drama", store.TaxonomyGenres, "everything")

	links, err := st.LinksForObject(1)
	require.NoError(t, err)
	require.Len(t, links, 2)
	slugs := []string{links[0].Slug, links[1].Slug}
	assert.ElementsMatch(t, []string{"action", "drama"}, slugs)
}

func TestResolveAndLink_BlankLabelsSkipped(t *testing.T) {
	ing, st, _ := newTestIngester(t)

	ing.resolveAndLink(st, 1, "", store.TaxonomyCountry, "")
	ing.resolveAndLink(st, 1, " , ", store.TaxonomyCountry, "")

	links, err := st.LinksForObject(1)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestResolveAndLink_DuplicateRelationshipIsSilent(t *testing.T) {
	ing, st, logDir := newTestIngester(t)

	ing.resolveAndLink(st, 1, "Drama", store.TaxonomyGenres, "")
	ing.resolveAndLink(st, 1, "Drama", store.TaxonomyGenres, "")

	links, err := st.LinksForObject(1)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	// The duplicate branch must not reach the diagnostic sink.
	_, statErr := os.Stat(filepath.Join(logDir, "taxonomy.log"))
	assert.True(t, os.IsNotExist(statErr), "duplicate links are expected, not failures")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Drama", capitalize("drama"))
	assert.Equal(t, "Tv show", capitalize("TV Show"))
	assert.Equal(t, "", capitalize(""))
}
