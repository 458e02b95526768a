package ingest

import (
	"strconv"

	"github.com/filmpress/filmpress/internal/store"
)

// Metadata keys of the target CMS theme.
const (
	metaShowPrefix   = "show_tien_to"
	metaShowStatus   = "show_trangthai"
	metaQuality      = "chat_luong_video"
	metaVideoLink    = "video_link"
	metaVideoLinkACF = "_video_link"
	metaTrailer      = "trailer"
	metaViews        = "post_views_count"
	metaReleased     = "released"
	metaMultiChap    = "tw_multi_chap"
	metaFilmType     = "film_type"
	metaParent       = "tw_parent"
	metaThumbnail    = "_thumbnail_id"
	metaAttachedFile = "_wp_attached_file"
)

// acfVideoLinkField marks video_link as an ACF field on movie entities.
const acfVideoLinkField = "field_601d685ea50eb"

const trailerEmbedBase = "https://www.youtube.com/embed/"

// trailerEmbed returns the trailer embed URL, or "" when the film has no
// trailer identifier. The empty value is still written.
func trailerEmbed(trailerID string) string {
	if trailerID == "" {
		return ""
	}
	return trailerEmbedBase + trailerID
}

// rootMeta assembles the metadata pairs for a root entity. For a series
// root the entity points at itself via tw_parent and carries no playback
// link; a movie root gets the playback link built from the embed template.
func rootMeta(postID int64, film *Film, playbackLink string, thumbID int64) []store.Meta {
	metas := []store.Meta{
		{PostID: postID, Key: metaShowPrefix, Value: "0"},
		{PostID: postID, Key: metaShowStatus, Value: "0"},
		{PostID: postID, Key: metaQuality, Value: "HD"},
		{PostID: postID, Key: metaReleased, Value: film.Released()},
		{PostID: postID, Key: metaTrailer, Value: trailerEmbed(film.TrailerID)},
		{PostID: postID, Key: metaViews, Value: "0"},
	}

	if film.Type == FilmTypeSeries {
		metas = append(metas,
			store.Meta{PostID: postID, Key: metaMultiChap, Value: "1"},
			store.Meta{PostID: postID, Key: metaFilmType, Value: "TV SHOW"},
			store.Meta{PostID: postID, Key: metaParent, Value: strconv.FormatInt(postID, 10)},
		)
	} else {
		metas = append(metas,
			store.Meta{PostID: postID, Key: metaMultiChap, Value: "0"},
			store.Meta{PostID: postID, Key: metaFilmType, Value: ""},
			store.Meta{PostID: postID, Key: metaVideoLink, Value: playbackLink},
			store.Meta{PostID: postID, Key: metaVideoLinkACF, Value: acfVideoLinkField},
		)
	}

	if thumbID != 0 {
		metas = append(metas, store.Meta{PostID: postID, Key: metaThumbnail, Value: strconv.FormatInt(thumbID, 10)})
	}
	return metas
}

// episodeMeta assembles the metadata pairs for an episode entity. Episodes
// carry their own playback link and never self-reference.
func episodeMeta(postID int64, film *Film, playbackLink string, thumbID int64) []store.Meta {
	metas := []store.Meta{
		{PostID: postID, Key: metaShowPrefix, Value: "0"},
		{PostID: postID, Key: metaShowStatus, Value: "0"},
		{PostID: postID, Key: metaQuality, Value: "HD"},
		{PostID: postID, Key: metaVideoLink, Value: playbackLink},
		{PostID: postID, Key: metaTrailer, Value: trailerEmbed(film.TrailerID)},
		{PostID: postID, Key: metaViews, Value: "0"},
	}
	if thumbID != 0 {
		metas = append(metas, store.Meta{PostID: postID, Key: metaThumbnail, Value: strconv.FormatInt(thumbID, 10)})
	}
	return metas
}
