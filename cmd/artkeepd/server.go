package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/artkeep/artkeep/internal/artwork"
	"github.com/artkeep/artkeep/internal/catalog"
	"github.com/artkeep/artkeep/internal/config"
	"github.com/artkeep/artkeep/internal/history"
	"github.com/artkeep/artkeep/internal/migrations"
	"github.com/artkeep/artkeep/internal/scheduler"
)

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

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return &config.ConfigError{Path: configPath, Errors: errs}
	}
	mode, err := cfg.Mode()
	if err != nil {
		return err
	}

	// Create logger
	level := parseLogLevel(cfg.Server.LogLevel)
	if cfg.Server.VerboseLogging {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Store.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	schedule, err := scheduler.Parse(cfg.Schedule)
	if err != nil {
		return err
	}

	client := catalog.NewClient(cfg.Plex.URL, cfg.Plex.Token, logger)
	hist := history.NewStore(db)
	orch := artwork.NewOrchestrator(cfg.Store.BaseDir, mode, client, hist, logger)

	policy := artwork.Policy{Kind: artwork.PolicyRandom}
	switch cfg.Download.Policy {
	case "specific":
		policy = artwork.Policy{
			Kind:          artwork.PolicySpecific,
			Provider:      cfg.Download.Provider,
			FallbackToAny: cfg.Download.FallbackToAny,
		}
	case "mark_only":
		// A sweep that only marks slots would hide every future gap, so
		// the daemon treats mark_only as "do not download".
		schedule.Enabled = false
		logger.Warn("download.policy is mark_only, scheduled downloads disabled")
	}

	runner := scheduler.NewRunner(client, orch, hist, schedule,
		cfg.HiddenLibraries(), policy, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("artkeepd starting",
		"version", version,
		"store", cfg.Store.BaseDir,
		"layout", mode.String(),
		"schedule_enabled", schedule.Enabled,
	)

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("artkeepd stopped")
	return nil
}
