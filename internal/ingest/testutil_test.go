package ingest

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/filmpress/filmpress/internal/config"
	"github.com/filmpress/filmpress/internal/covers"
	"github.com/filmpress/filmpress/internal/faillog"
	"github.com/filmpress/filmpress/internal/migrations"
	"github.com/filmpress/filmpress/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		Embed: config.EmbedConfig{BaseURL: "https://www.2embed.to"},
		Ingest: config.IngestConfig{
			DefaultReleaseYear: 2023,
			EpisodeDescription: "Watch %s online.",
			DuplicateThreshold: 0.95,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestIngester wires an Ingester against an in-memory store, a
// throwaway covers dir, and a faillog under the test temp dir.
func newTestIngester(t *testing.T) (*Ingester, *store.Store, string) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	st := store.NewStore(db)
	logDir := filepath.Join(t.TempDir(), "log")
	ing := New(
		st,
		covers.NewFetcher(t.TempDir(), covers.WithLogger(testLogger())),
		faillog.New(logDir),
		testConfig(),
		testLogger(),
	)
	return ing, st, logDir
}
