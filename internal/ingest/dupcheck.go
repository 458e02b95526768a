package ingest

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/filmpress/filmpress/internal/store"
)

// warnNearDuplicate reports root titles that look like retitled copies of
// already-ingested entities. Slugs are the real duplicate guard; this is
// an operator diagnostic only and never blocks ingestion.
func (ing *Ingester) warnNearDuplicate(title string) {
	titles, err := ing.store.PostTitles(store.TypeFilm)
	if err != nil {
		ing.logger.Debug("duplicate check skipped", "error", err)
		return
	}

	needle := strings.ToLower(title)
	for _, existing := range titles {
		score := float64(edlib.JaroWinklerSimilarity(needle, strings.ToLower(existing)))
		if score >= ing.dupThreshold {
			ing.logger.Warn("possible duplicate title",
				"title", title,
				"existing", existing,
				"score", score,
			)
			ing.faillog.Logf("duplicate", "title %q resembles existing %q (score %.2f)", title, existing, score)
			return
		}
	}
}
