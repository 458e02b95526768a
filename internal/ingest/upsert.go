package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/filmpress/filmpress/internal/covers"
	"github.com/filmpress/filmpress/internal/store"
)

// upsertResult reports what the upsert found or built.
type upsertResult struct {
	PostID  int64
	ThumbID int64
	Created bool
}

// upsertRoot creates the root entity for title/slug unless an entity with
// that slug already exists. Existing entities are returned untouched:
// re-runs never refresh already-ingested data.
//
// On creation the attachment, the post row, its metadata, and its four
// taxonomy links are written in one transaction, so a crash mid-entity
// cannot leave a post row that the slug check would later mistake for a
// fully-ingested entity.
func (ing *Ingester) upsertRoot(ctx context.Context, film *Film, title, slugStr, playbackLink string) (upsertResult, error) {
	existing, err := ing.store.FindBySlug(slugStr)
	if err != nil {
		return upsertResult{}, err
	}
	if existing != nil {
		var thumbID int64
		v, err := ing.store.MetaValue(existing.ID, metaThumbnail)
		if err != nil {
			ing.faillog.Logf("upsert", "reading thumbnail of existing %q: %v", slugStr, err)
		} else if v != "" {
			thumbID, _ = strconv.ParseInt(v, 10, 64)
		}
		ing.logger.Debug("root exists, skipping", "slug", slugStr, "id", existing.ID)
		return upsertResult{PostID: existing.ID, ThumbID: thumbID}, nil
	}

	ing.warnNearDuplicate(title)

	// The cover download happens outside the transaction; the disk cache
	// makes it safe to repeat if the entity write fails afterwards.
	thumbName := covers.Filename(slugStr, film.CoverURL)
	if thumbName != "" {
		if _, err := ing.covers.Ensure(ctx, film.CoverURL, thumbName); err != nil {
			return upsertResult{}, fmt.Errorf("cover for %q: %w", slugStr, err)
		}
	}

	ing.logger.Info("inserting root film", "title", title, "slug", slugStr)

	tx, err := ing.store.Begin()
	if err != nil {
		return upsertResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var thumbID int64
	if thumbName != "" {
		attachment := &store.Post{
			Title:    thumbName,
			Status:   store.StatusInherit,
			Slug:     thumbName,
			Type:     store.TypeAttachment,
			MimeType: "image/png",
		}
		if err := tx.AddPost(attachment); err != nil {
			return upsertResult{}, fmt.Errorf("attachment for %q: %w", slugStr, err)
		}
		if err := tx.AddMeta(store.Meta{PostID: attachment.ID, Key: metaAttachedFile, Value: "covers/" + thumbName}); err != nil {
			return upsertResult{}, fmt.Errorf("attachment meta for %q: %w", slugStr, err)
		}
		thumbID = attachment.ID
	}

	post := &store.Post{
		Content: film.Description,
		Title:   title,
		Status:  store.StatusPublish,
		Slug:    slugStr,
		Type:    store.TypeFilm,
	}
	if err := tx.AddPost(post); err != nil {
		return upsertResult{}, fmt.Errorf("root %q: %w", slugStr, err)
	}

	if err := tx.AddMetaBulk(rootMeta(post.ID, film, playbackLink, thumbID)); err != nil {
		return upsertResult{}, fmt.Errorf("metadata for %q: %w", slugStr, err)
	}

	if film.Type == FilmTypeSeries {
		ing.resolveAndLink(tx, post.ID, "TV Show", store.TaxonomyCategory, "tv-shows")
	} else {
		ing.resolveAndLink(tx, post.ID, "Movies", store.TaxonomyCategory, "")
	}
	ing.resolveAndLink(tx, post.ID, film.Country(), store.TaxonomyCountry, "")
	ing.resolveAndLink(tx, post.ID, ing.releaseLabel(film), store.TaxonomyRelease, "")
	ing.resolveAndLink(tx, post.ID, film.Genre(), store.TaxonomyGenres, "")

	if err := tx.Commit(); err != nil {
		return upsertResult{}, fmt.Errorf("commit root %q: %w", slugStr, err)
	}
	return upsertResult{PostID: post.ID, ThumbID: thumbID, Created: true}, nil
}

// episodeRef is one derived episode: title, slug, and playback link are
// computed by the expander and threaded through explicitly.
type episodeRef struct {
	Title string
	Slug  string
	Link  string
}

// upsertEpisode creates one episode entity parented to rootID unless its
// slug already exists. Country, release, and genre links are inherited
// from the parent film.
func (ing *Ingester) upsertEpisode(film *Film, ep episodeRef, rootID, thumbID int64) (bool, error) {
	existing, err := ing.store.FindBySlug(ep.Slug)
	if err != nil {
		return false, err
	}
	if existing != nil {
		ing.logger.Debug("episode exists, skipping", "slug", ep.Slug, "id", existing.ID)
		return false, nil
	}

	ing.logger.Info("inserting episode", "title", ep.Title)

	tx, err := ing.store.Begin()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	post := &store.Post{
		Content: strings.ReplaceAll(ing.episodeDescription, "%s", ep.Title),
		Title:   ep.Title,
		Status:  store.StatusPublish,
		Slug:    ep.Slug,
		Parent:  rootID,
		Type:    store.TypeEpisode,
	}
	if err := tx.AddPost(post); err != nil {
		return false, fmt.Errorf("episode %q: %w", ep.Slug, err)
	}

	if err := tx.AddMetaBulk(episodeMeta(post.ID, film, ep.Link, thumbID)); err != nil {
		return false, fmt.Errorf("metadata for %q: %w", ep.Slug, err)
	}

	ing.resolveAndLink(tx, post.ID, "TV Show", store.TaxonomyCategory, "tv-shows")
	ing.resolveAndLink(tx, post.ID, film.Country(), store.TaxonomyCountry, "")
	ing.resolveAndLink(tx, post.ID, ing.releaseLabel(film), store.TaxonomyRelease, "")
	ing.resolveAndLink(tx, post.ID, film.Genre(), store.TaxonomyGenres, "")

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit episode %q: %w", ep.Slug, err)
	}
	return true, nil
}

var yearOnlyPattern = regexp.MustCompile(`^\d{4}$`)

// releaseLabel derives the release-year taxonomy label: a bare year is
// used as-is, a full date is reduced to its year, and anything else falls
// back to the configured default year.
func (ing *Ingester) releaseLabel(film *Film) string {
	released := strings.TrimSpace(film.Released())
	if yearOnlyPattern.MatchString(released) {
		return released
	}
	return strconv.Itoa(releaseYear(released, ing.defaultReleaseYear))
}
