// Package ingest materializes scraped film records into the CMS content
// schema: one root post per movie or season, one child post per episode,
// metadata pairs, and taxonomy links.
//
// Ingestion is idempotent per slug: an entity whose slug is already in
// the store is skipped entirely, so re-running the same input performs no
// writes. Primary-entity failures abort the run (fail-fast); taxonomy
// link failures are logged and skipped (fail-soft).
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/filmpress/filmpress/internal/config"
	"github.com/filmpress/filmpress/internal/covers"
	"github.com/filmpress/filmpress/internal/faillog"
	"github.com/filmpress/filmpress/internal/store"
	"github.com/filmpress/filmpress/pkg/slug"
)

// Ingester runs the ingestion pipeline. One writer at a time: the
// check-then-insert sequence is not locked, so concurrent runs against
// the same store can duplicate slugs.
type Ingester struct {
	store   *store.Store
	covers  *covers.Fetcher
	faillog *faillog.Logger
	logger  *slog.Logger

	embedBase          string
	episodeDescription string
	defaultReleaseYear int
	dupThreshold       float64
}

// New creates an Ingester.
func New(st *store.Store, fetcher *covers.Fetcher, flog *faillog.Logger, cfg *config.Config, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		store:              st,
		covers:             fetcher,
		faillog:            flog,
		logger:             logger.With("component", "ingest"),
		embedBase:          cfg.Embed.BaseURL,
		episodeDescription: cfg.Ingest.EpisodeDescription,
		defaultReleaseYear: cfg.Ingest.DefaultReleaseYear,
		dupThreshold:       cfg.Ingest.DuplicateThreshold,
	}
}

// Run ingests one film record with its episode structure.
//
// A movie becomes a single root entity. A series expands into one root
// entity per season label plus one episode entity per listed episode,
// each parented to its season's root. Keys of the episodes structure
// that do not contain "season" are ignored.
func (ing *Ingester) Run(ctx context.Context, film *Film, episodes *Episodes) error {
	if film == nil {
		return errors.New("nil film")
	}

	// Work on a copy; the caller's record stays unmodified, and the
	// original title/slug remain available for every season derivation.
	f := *film
	f.Title = cleanText(f.Title)
	f.Description = cleanText(f.Description)
	if f.Slug == "" {
		return errors.New("film slug is empty")
	}
	if f.Type == "" {
		f.Type = FilmTypeMovie
	}

	if f.Type == FilmTypeMovie {
		link := ing.movieLink(episodes.ExternalID())
		_, err := ing.upsertRoot(ctx, &f, f.Title, f.Slug, link)
		return err
	}

	if episodes == nil {
		return fmt.Errorf("series %q has no episodes structure", f.Slug)
	}

	for _, label := range sortedSeasonLabels(episodes.Seasons) {
		if !isSeasonLabel(label) {
			ing.logger.Debug("skipping non-season key", "key", label)
			continue
		}

		season := seasonNumber(label)
		title := f.Title + " - " + strings.TrimSpace(label)
		seasonSlug := slug.Make(f.Slug + " - " + label)

		root, err := ing.upsertRoot(ctx, &f, title, seasonSlug, "")
		if err != nil {
			return fmt.Errorf("season %q: %w", label, err)
		}

		for _, num := range sortedEpisodeNumbers(episodes.Seasons[label]) {
			ep := episodeRef{
				Title: title + " Episode " + num + " - " + episodes.Seasons[label][num],
				Slug:  slug.Make(seasonSlug + " Episode " + num),
				Link:  ing.episodeLink(episodes.ExternalID(), season, num),
			}
			if _, err := ing.upsertEpisode(&f, ep, root.PostID, root.ThumbID); err != nil {
				return fmt.Errorf("episode %s of %q: %w", num, label, err)
			}
		}
	}
	return nil
}

func (ing *Ingester) movieLink(externalID string) string {
	return fmt.Sprintf("%s/embed/tmdb/movie?id=%s", ing.embedBase, externalID)
}

func (ing *Ingester) episodeLink(externalID, season, episode string) string {
	return fmt.Sprintf("%s/embed/tmdb/tv?id=%s&s=%s&e=%s", ing.embedBase, externalID, season, episode)
}
