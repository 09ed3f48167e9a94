package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/artkeep/artkeep/internal/artwork"
	"github.com/artkeep/artkeep/internal/catalog"
	"github.com/artkeep/artkeep/internal/config"
	"github.com/artkeep/artkeep/internal/history"
	"github.com/artkeep/artkeep/internal/layout"
	"github.com/artkeep/artkeep/internal/migrations"
	"github.com/artkeep/artkeep/internal/status"
)

// app bundles the wired components commands share.
type app struct {
	cfg     *config.Config
	mode    layout.Mode
	log     *slog.Logger
	db      *sql.DB
	client  *catalog.Client
	history *history.Store
	rec     *status.Reconciler
	orch    *artwork.Orchestrator
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

// newApp loads config and wires everything a command needs. Callers must
// Close.
func newApp() (*app, error) {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.Discover(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: path, Errors: errs}
	}

	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	level := parseLogLevel(cfg.Server.LogLevel)
	if cfg.Server.VerboseLogging {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := os.MkdirAll(filepath.Dir(cfg.Store.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Store.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	client := catalog.NewClient(cfg.Plex.URL, cfg.Plex.Token, logger)
	hist := history.NewStore(db)

	return &app{
		cfg:     cfg,
		mode:    mode,
		log:     logger,
		db:      db,
		client:  client,
		history: hist,
		rec:     status.NewReconciler(cfg.Store.BaseDir, mode),
		orch:    artwork.NewOrchestrator(cfg.Store.BaseDir, mode, client, hist, logger),
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}

// itemPageSize is the catalog pagination window.
const itemPageSize = 200

// libraryItems pages one library's items and attaches season lists to
// shows.
func (a *app) libraryItems(ctx context.Context, lib catalog.Library) ([]*catalog.Item, error) {
	var items []*catalog.Item
	for start := 0; ; start += itemPageSize {
		page, total, err := a.client.Items(ctx, lib, start, itemPageSize)
		if err != nil {
			return nil, err
		}
		for i := range page {
			item := page[i]
			if item.Kind == layout.Show && len(item.Seasons) == 0 {
				seasons, err := a.client.Seasons(ctx, item.RatingKey)
				if err != nil {
					return nil, err
				}
				item.Seasons = seasons
			}
			items = append(items, &item)
		}
		if start+len(page) >= total || len(page) == 0 {
			break
		}
	}
	return items, nil
}

// visibleLibraries lists libraries minus the hidden set, optionally
// filtered to one title.
func (a *app) visibleLibraries(ctx context.Context, only string) ([]catalog.Library, error) {
	libs, err := a.client.Libraries(ctx)
	if err != nil {
		return nil, err
	}
	hidden := a.cfg.HiddenLibraries()
	var out []catalog.Library
	for _, lib := range libs {
		if hidden[lib.Title] {
			continue
		}
		if only != "" && lib.Title != only {
			continue
		}
		out = append(out, lib)
	}
	if only != "" && len(out) == 0 {
		return nil, fmt.Errorf("library %q not found (or hidden)", only)
	}
	return out, nil
}

// policy maps the configured download policy, with optional command-line
// overrides for provider selection.
func (a *app) policy(providerFlag string, markOnly bool) artwork.Policy {
	if markOnly {
		return artwork.Policy{Kind: artwork.PolicyMarkOnly}
	}
	provider := a.cfg.Download.Provider
	if providerFlag != "" {
		provider = providerFlag
	}
	switch {
	case a.cfg.Download.Policy == "mark_only":
		return artwork.Policy{Kind: artwork.PolicyMarkOnly}
	case provider != "" && (a.cfg.Download.Policy == "specific" || providerFlag != ""):
		return artwork.Policy{
			Kind:          artwork.PolicySpecific,
			Provider:      provider,
			FallbackToAny: a.cfg.Download.FallbackToAny,
		}
	default:
		return artwork.Policy{Kind: artwork.PolicyRandom}
	}
}
