package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Post types used by the ingest engine.
const (
	TypeFilm       = "post"       // root entity: a movie or one season of a series
	TypeEpisode    = "chap"       // child entity parented to a root
	TypeAttachment = "attachment" // cover image record
)

// Post statuses.
const (
	StatusPublish = "publish"
	StatusInherit = "inherit" // attachments
)

// Post is one row of the posts table.
type Post struct {
	ID       int64
	Date     time.Time
	Modified time.Time
	Content  string
	Title    string
	Status   string
	Slug     string
	Parent   int64
	Type     string
	MimeType string
}

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

func addPost(q querier, p *Post) error {
	now := time.Now()
	if p.Date.IsZero() {
		p.Date = now
	}
	if p.Modified.IsZero() {
		p.Modified = now
	}
	result, err := q.Exec(`
		INSERT INTO posts (post_date, post_modified, post_content, post_title, post_status, post_name, post_parent, post_type, post_mime_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Date, p.Modified, p.Content, p.Title, p.Status, p.Slug, p.Parent, p.Type, p.MimeType,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	p.ID = id
	return nil
}

// AddPost inserts a new post row. Sets ID, Date, and Modified on the struct.
func (s *Store) AddPost(p *Post) error { return addPost(s.db, p) }

// AddPost inserts a new post row within a transaction.
func (t *Tx) AddPost(p *Post) error { return addPost(t.tx, p) }

func findBySlug(q querier, slug string) (*Post, error) {
	p := &Post{}
	err := q.QueryRow(`
		SELECT id, post_date, post_modified, post_content, post_title, post_status, post_name, post_parent, post_type, post_mime_type
		FROM posts WHERE post_name = ? LIMIT 1`, slug,
	).Scan(&p.ID, &p.Date, &p.Modified, &p.Content, &p.Title, &p.Status, &p.Slug, &p.Parent, &p.Type, &p.MimeType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post %q: %w", slug, mapSQLiteError(err))
	}
	return p, nil
}

// FindBySlug returns the post with the given slug, or nil if none exists.
// The slug is the engine's idempotency key; this lookup is the sole
// duplicate-prevention mechanism for content entities.
func (s *Store) FindBySlug(slug string) (*Post, error) { return findBySlug(s.db, slug) }

// FindBySlug returns the post with the given slug within a transaction.
func (t *Tx) FindBySlug(slug string) (*Post, error) { return findBySlug(t.tx, slug) }

// PostTitles returns the titles of all posts of the given type.
func (s *Store) PostTitles(postType string) ([]string, error) {
	rows, err := s.db.Query(`SELECT post_title FROM posts WHERE post_type = ? ORDER BY id`, postType)
	if err != nil {
		return nil, fmt.Errorf("list post titles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan post title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post titles: %w", err)
	}
	return titles, nil
}

// CountPosts returns the number of posts matching the given type.
func (s *Store) CountPosts(postType string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE post_type = ?`, postType).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// ChildPosts returns the posts parented to the given post, ordered by id.
func (s *Store) ChildPosts(parentID int64) ([]*Post, error) {
	rows, err := s.db.Query(`
		SELECT id, post_date, post_modified, post_content, post_title, post_status, post_name, post_parent, post_type, post_mime_type
		FROM posts WHERE post_parent = ? ORDER BY id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Post
	for rows.Next() {
		p := &Post{}
		if err := rows.Scan(&p.ID, &p.Date, &p.Modified, &p.Content, &p.Title, &p.Status, &p.Slug, &p.Parent, &p.Type, &p.MimeType); err != nil {
			return nil, fmt.Errorf("scan child post: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate child posts: %w", err)
	}
	return results, nil
}
