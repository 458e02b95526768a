package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/filmpress/filmpress/internal/config"
	"github.com/filmpress/filmpress/internal/covers"
	"github.com/filmpress/filmpress/internal/faillog"
	"github.com/filmpress/filmpress/internal/ingest"
	"github.com/filmpress/filmpress/internal/migrations"
	"github.com/filmpress/filmpress/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.json>...",
	Short: "Ingest scrape output files into the content store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return err
		}
		path = discovered
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ing := ingest.New(
		store.NewStore(db),
		covers.NewFetcher(cfg.Covers.Dir, covers.WithLogger(logger.With("component", "covers"))),
		faillog.New(cfg.Log.Dir),
		cfg,
		logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, file := range args {
		in, err := ingest.ReadInput(file)
		if err != nil {
			return err
		}
		if err := ing.Run(ctx, &in.Film, in.Episodes); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		logger.Info("ingested", "file", file, "title", in.Film.Title, "type", in.Film.Type)
	}
	return nil
}
