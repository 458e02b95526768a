package store

import (
	"database/sql"
	"fmt"
)

// Taxonomy kinds the engine classifies entities under.
const (
	TaxonomyCategory = "category"
	TaxonomyCountry  = "country"
	TaxonomyRelease  = "release"
	TaxonomyGenres   = "genres"
)

func findTermTaxonomy(q querier, termSlug, taxonomy string) (int64, error) {
	var id int64
	err := q.QueryRow(`
		SELECT tt.term_taxonomy_id
		FROM term_taxonomy tt, terms t
		WHERE t.slug = ? AND tt.term_id = t.term_id AND tt.taxonomy = ?
		LIMIT 1`, termSlug, taxonomy,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find term taxonomy (%s, %s): %w", termSlug, taxonomy, mapSQLiteError(err))
	}
	return id, nil
}

// FindTermTaxonomy returns the term_taxonomy id for a (term slug, taxonomy
// kind) pair, or 0 if no such pairing exists. The engine searches before
// creating; the (slug, kind) uniqueness invariant lives here, not in a
// schema constraint.
func (s *Store) FindTermTaxonomy(termSlug, taxonomy string) (int64, error) {
	return findTermTaxonomy(s.db, termSlug, taxonomy)
}

// FindTermTaxonomy looks up a term_taxonomy id within a transaction.
func (t *Tx) FindTermTaxonomy(termSlug, taxonomy string) (int64, error) {
	return findTermTaxonomy(t.tx, termSlug, taxonomy)
}

func addTerm(q querier, name, slug string) (int64, error) {
	result, err := q.Exec(`INSERT INTO terms (name, slug) VALUES (?, ?)`, name, slug)
	if err != nil {
		return 0, fmt.Errorf("insert term %q: %w", name, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// AddTerm inserts a new term and returns its id.
func (s *Store) AddTerm(name, slug string) (int64, error) { return addTerm(s.db, name, slug) }

// AddTerm inserts a new term within a transaction.
func (t *Tx) AddTerm(name, slug string) (int64, error) { return addTerm(t.tx, name, slug) }

func addTermTaxonomy(q querier, termID int64, taxonomy string) (int64, error) {
	result, err := q.Exec(`
		INSERT INTO term_taxonomy (term_id, taxonomy, description, parent, count)
		VALUES (?, ?, '', 0, 0)`, termID, taxonomy)
	if err != nil {
		return 0, fmt.Errorf("insert term taxonomy (%d, %s): %w", termID, taxonomy, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// AddTermTaxonomy binds a term to a taxonomy kind and returns the pairing id.
func (s *Store) AddTermTaxonomy(termID int64, taxonomy string) (int64, error) {
	return addTermTaxonomy(s.db, termID, taxonomy)
}

// AddTermTaxonomy binds a term to a taxonomy kind within a transaction.
func (t *Tx) AddTermTaxonomy(termID int64, taxonomy string) (int64, error) {
	return addTermTaxonomy(t.tx, termID, taxonomy)
}

func linkObject(q querier, objectID, termTaxonomyID int64) error {
	_, err := q.Exec(`
		INSERT INTO term_relationships (object_id, term_taxonomy_id, term_order)
		VALUES (?, ?, 0)`, objectID, termTaxonomyID)
	if err != nil {
		return fmt.Errorf("link object %d to term taxonomy %d: %w", objectID, termTaxonomyID, mapSQLiteError(err))
	}
	return nil
}

// LinkObject creates an entity<->term-taxonomy relationship row.
// A repeated link returns an error wrapping ErrDuplicate.
func (s *Store) LinkObject(objectID, termTaxonomyID int64) error {
	return linkObject(s.db, objectID, termTaxonomyID)
}

// LinkObject creates a relationship row within a transaction.
func (t *Tx) LinkObject(objectID, termTaxonomyID int64) error {
	return linkObject(t.tx, objectID, termTaxonomyID)
}

// TermLink describes one taxonomy link attached to an object.
type TermLink struct {
	TermTaxonomyID int64
	Taxonomy       string
	Name           string
	Slug           string
}

// LinksForObject returns all taxonomy links for an object.
func (s *Store) LinksForObject(objectID int64) ([]TermLink, error) {
	rows, err := s.db.Query(`
		SELECT tt.term_taxonomy_id, tt.taxonomy, t.name, t.slug
		FROM term_relationships tr
		JOIN term_taxonomy tt ON tt.term_taxonomy_id = tr.term_taxonomy_id
		JOIN terms t ON t.term_id = tt.term_id
		WHERE tr.object_id = ?
		ORDER BY tt.term_taxonomy_id`, objectID)
	if err != nil {
		return nil, fmt.Errorf("list object links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var links []TermLink
	for rows.Next() {
		var l TermLink
		if err := rows.Scan(&l.TermTaxonomyID, &l.Taxonomy, &l.Name, &l.Slug); err != nil {
			return nil, fmt.Errorf("scan object link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate object links: %w", err)
	}
	return links, nil
}

// CountTerms returns the number of term rows with the given slug bound to
// the given taxonomy kind.
func (s *Store) CountTerms(termSlug, taxonomy string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM term_taxonomy tt, terms t
		WHERE t.slug = ? AND tt.term_id = t.term_id AND tt.taxonomy = ?`,
		termSlug, taxonomy).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count terms: %w", err)
	}
	return n, nil
}
