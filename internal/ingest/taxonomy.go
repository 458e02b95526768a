package ingest

import (
	"errors"
	"strings"
	"unicode"

	"github.com/filmpress/filmpress/internal/store"
	"github.com/filmpress/filmpress/pkg/slug"
)

// taxonomyStore is the slice of store behavior the resolver needs.
// Both *store.Store and *store.Tx satisfy it.
type taxonomyStore interface {
	FindTermTaxonomy(termSlug, taxonomy string) (int64, error)
	AddTerm(name, slug string) (int64, error)
	AddTermTaxonomy(termID int64, taxonomy string) (int64, error)
	LinkObject(objectID, termTaxonomyID int64) error
}

// resolveAndLink splits labels on commas and links the entity to a term
// for each one, creating the term and its taxonomy pairing when the
// (term slug, taxonomy kind) pair does not yet exist.
//
// explicitSlug overrides the derived slug only when exactly one label is
// given; with multiple labels every label would otherwise collapse onto
// the same term, so the override is ignored and slugs are derived.
//
// Failures are two-tier: a duplicate relationship row is expected and
// ignored; any other per-label failure goes to the diagnostic sink and
// the remaining labels are still processed.
func (ing *Ingester) resolveAndLink(st taxonomyStore, postID int64, labels, taxonomy, explicitSlug string) {
	parts := strings.Split(labels, ",")
	if len(parts) != 1 {
		explicitSlug = ""
	}

	for _, label := range parts {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}

		termSlug := explicitSlug
		if termSlug == "" {
			termSlug = slug.Make(label)
		}

		ttID, err := st.FindTermTaxonomy(termSlug, taxonomy)
		if err != nil {
			ing.faillog.Logf("taxonomy", "resolving %q (%s): %v", label, taxonomy, err)
			continue
		}
		if ttID == 0 {
			termID, err := st.AddTerm(capitalize(label), termSlug)
			if err != nil {
				ing.faillog.Logf("taxonomy", "creating term %q (%s): %v", label, taxonomy, err)
				continue
			}
			ttID, err = st.AddTermTaxonomy(termID, taxonomy)
			if err != nil {
				ing.faillog.Logf("taxonomy", "binding term %q to %s: %v", label, taxonomy, err)
				continue
			}
		}

		switch err := st.LinkObject(postID, ttID); {
		case err == nil:
		case errors.Is(err, store.ErrDuplicate):
			ing.logger.Debug("term already linked", "post", postID, "term", termSlug, "taxonomy", taxonomy)
		default:
			ing.faillog.Logf("taxonomy", "linking %q (%s) to post %d: %v", label, taxonomy, postID, err)
		}
	}
}

// capitalize uppercases the first rune and lowercases the rest, matching
// how term names are displayed by the target theme.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
