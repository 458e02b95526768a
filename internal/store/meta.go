package store

import (
	"database/sql"
	"fmt"
)

// Meta is one (post, key, value) metadata triple.
type Meta struct {
	PostID int64
	Key    string
	Value  string
}

func addMeta(q querier, m Meta) error {
	_, err := q.Exec(`INSERT INTO postmeta (post_id, meta_key, meta_value) VALUES (?, ?, ?)`,
		m.PostID, m.Key, m.Value)
	if err != nil {
		return fmt.Errorf("insert postmeta %q: %w", m.Key, mapSQLiteError(err))
	}
	return nil
}

// AddMeta inserts a single metadata pair.
func (s *Store) AddMeta(m Meta) error { return addMeta(s.db, m) }

// AddMeta inserts a single metadata pair within a transaction.
func (t *Tx) AddMeta(m Meta) error { return addMeta(t.tx, m) }

// AddMetaBulk inserts all metadata pairs for an entity in one pass
// using a prepared statement.
func (t *Tx) AddMetaBulk(metas []Meta) error {
	if len(metas) == 0 {
		return nil
	}

	stmt, err := t.tx.Prepare(`INSERT INTO postmeta (post_id, meta_key, meta_value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare postmeta insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range metas {
		if _, err := stmt.Exec(m.PostID, m.Key, m.Value); err != nil {
			return fmt.Errorf("insert postmeta %q: %w", m.Key, mapSQLiteError(err))
		}
	}
	return nil
}

func metaValue(q querier, postID int64, key string) (string, error) {
	var value string
	err := q.QueryRow(`SELECT meta_value FROM postmeta WHERE post_id = ? AND meta_key = ? LIMIT 1`,
		postID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get meta %q for post %d: %w", key, postID, mapSQLiteError(err))
	}
	return value, nil
}

// MetaValue returns the value of the given key for a post, or "" if unset.
func (s *Store) MetaValue(postID int64, key string) (string, error) {
	return metaValue(s.db, postID, key)
}

// MetaValue returns the value of the given key within a transaction.
func (t *Tx) MetaValue(postID int64, key string) (string, error) {
	return metaValue(t.tx, postID, key)
}

// MetaForPost returns all metadata pairs for a post as a key->value map.
func (s *Store) MetaForPost(postID int64) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT meta_key, meta_value FROM postmeta WHERE post_id = ? ORDER BY meta_id`, postID)
	if err != nil {
		return nil, fmt.Errorf("list postmeta: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan postmeta: %w", err)
		}
		result[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate postmeta: %w", err)
	}
	return result, nil
}
