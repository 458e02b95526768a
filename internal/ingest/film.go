package ingest

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FilmType distinguishes movies from series.
type FilmType string

const (
	FilmTypeMovie  FilmType = "movie"
	FilmTypeSeries FilmType = "series"
)

// Film is one scraped film record. Title and Slug always hold the values
// captured at scrape time; per-season titles and slugs are derived from
// them during expansion and never written back.
type Film struct {
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Type        FilmType          `json:"type"`
	CoverURL    string            `json:"cover_url"`
	TrailerID   string            `json:"trailer_id"`
	ExtraInfo   map[string]string `json:"extra_info"`
}

// Country returns the scraped country labels (comma-separated, may be empty).
func (f *Film) Country() string { return f.ExtraInfo["Country"] }

// Released returns the scraped release date or year (may be empty).
func (f *Film) Released() string { return f.ExtraInfo["Released"] }

// Genre returns the scraped genre labels (comma-separated, may be empty).
func (f *Film) Genre() string { return f.ExtraInfo["Genre"] }

// Episodes is the scraped season/episode structure: season label ->
// episode number -> episode title. Read-only input, never mutated.
// TMDBID is the out-of-band identifier used to build playback links.
type Episodes struct {
	TMDBID  string                       `json:"tmdb_id"`
	Seasons map[string]map[string]string `json:"seasons"`
}

// ExternalID returns the playback-link identifier, defaulting to "0".
func (e *Episodes) ExternalID() string {
	if e == nil || e.TMDBID == "" {
		return "0"
	}
	return e.TMDBID
}

var seasonOrdinalPattern = regexp.MustCompile(`(?i)season\s+(\d+)`)

// seasonNumber extracts the season ordinal from a free-text season label.
// Labels without a numbered "season N" default to "1", so two distinct
// unnumbered labels share the same ordinal.
func seasonNumber(label string) string {
	label = strings.ReplaceAll(label, "\n", " ")
	if m := seasonOrdinalPattern.FindStringSubmatch(label); m != nil {
		return m[1]
	}
	return "1"
}

// isSeasonLabel reports whether a key of the episodes structure names a
// season. Keys like "Specials" are excluded from expansion entirely.
func isSeasonLabel(key string) bool {
	return strings.Contains(strings.ToLower(key), "season")
}

// cleanText normalizes scraped free text: surrounding whitespace goes,
// and stray escape backslashes from the scrape are dropped.
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "\n")
	return strings.ReplaceAll(text, `\`, "")
}

// releaseYear parses the year out of a scraped YYYY-MM-DD release date,
// falling back to def for anything unparsable.
func releaseYear(released string, def int) int {
	dt, err := time.Parse("2006-01-02", strings.TrimSpace(released))
	if err != nil {
		return def
	}
	return dt.Year()
}

// sortedSeasonLabels returns the season keys ordered by extracted season
// ordinal, then label. Scrape maps carry no order of their own, so runs
// stay deterministic.
func sortedSeasonLabels(seasons map[string]map[string]string) []string {
	labels := make([]string, 0, len(seasons))
	for label := range seasons {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		ni, _ := strconv.Atoi(seasonNumber(labels[i]))
		nj, _ := strconv.Atoi(seasonNumber(labels[j]))
		if ni != nj {
			return ni < nj
		}
		return labels[i] < labels[j]
	})
	return labels
}

// sortedEpisodeNumbers returns episode keys ordered numerically where
// possible ("2" before "10"), lexically otherwise.
func sortedEpisodeNumbers(episodes map[string]string) []string {
	nums := make([]string, 0, len(episodes))
	for n := range episodes {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool {
		ni, errI := strconv.Atoi(nums[i])
		nj, errJ := strconv.Atoi(nums[j])
		if errI == nil && errJ == nil {
			return ni < nj
		}
		return nums[i] < nums[j]
	})
	return nums
}
