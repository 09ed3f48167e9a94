package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/artkeep/artkeep/internal/artwork"
	"github.com/artkeep/artkeep/internal/catalog"
	"github.com/artkeep/artkeep/internal/layout"
	"github.com/artkeep/artkeep/internal/status"
)

// itemPageSize is the catalog pagination window for a pass.
const itemPageSize = 200

// Catalog is the read-only slice of the catalog client a pass needs.
type Catalog interface {
	Libraries(ctx context.Context) ([]catalog.Library, error)
	Items(ctx context.Context, lib catalog.Library, start, size int) ([]catalog.Item, int, error)
	Seasons(ctx context.Context, ratingKey string) ([]catalog.SeasonRef, error)
}

// Downloader fills missing slots. *artwork.Orchestrator satisfies it.
type Downloader interface {
	DownloadMissing(ctx context.Context, items []*catalog.Item, asset layout.AssetKind, policy artwork.Policy, ov status.Overrides) (*artwork.BatchReport, error)
}

// OverrideSource loads the manual override flags. *history.Store satisfies
// it. A nil source means no overrides.
type OverrideSource interface {
	Overrides() (status.Overrides, error)
}

// Runner drives scheduled passes. It wakes every minute, checks the
// schedule, and runs at most one pass per eligible day.
type Runner struct {
	catalog    Catalog
	downloader Downloader
	overrides  OverrideSource
	schedule   Schedule
	hidden     map[string]bool
	policy     artwork.Policy
	log        *slog.Logger

	// tick is overridable in tests.
	tick time.Duration
	last time.Time
}

func NewRunner(cat Catalog, dl Downloader, ov OverrideSource, schedule Schedule, hidden map[string]bool, policy artwork.Policy, logger *slog.Logger) *Runner {
	return &Runner{
		catalog:    cat,
		downloader: dl,
		overrides:  ov,
		schedule:   schedule,
		hidden:     hidden,
		policy:     policy,
		log:        logger.With("component", "scheduler"),
		tick:       time.Minute,
	}
}

// Run blocks until the context is canceled, firing passes per the
// schedule. A failed pass is logged and the loop keeps going.
func (r *Runner) Run(ctx context.Context) error {
	if !r.schedule.Enabled {
		r.log.Info("schedule disabled, scheduler idle")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := time.Now()
			if !r.schedule.Due(now, r.last) {
				continue
			}
			r.last = now
			if err := r.Pass(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.Error("scheduled pass failed", "error", err)
			}
		}
	}
}

// Pass runs one full sweep: every visible library, both asset kinds,
// downloading whatever slots are absent. Per-slot failures are reported by
// the downloader and logged here; only catalog-level failures abort the
// pass.
func (r *Runner) Pass(ctx context.Context) error {
	started := time.Now()
	r.log.Info("starting scheduled pass")

	items, err := r.collect(ctx)
	if err != nil {
		return err
	}

	var ov status.Overrides
	if r.overrides != nil {
		if ov, err = r.overrides.Overrides(); err != nil {
			return err
		}
	}

	for _, asset := range []layout.AssetKind{layout.Poster, layout.Background} {
		report, err := r.downloader.DownloadMissing(ctx, items, asset, r.policy, ov)
		if err != nil {
			return err
		}
		for desc, ferr := range report.Failed {
			r.log.Warn("slot failed", "asset", asset.String(), "slot", desc, "error", ferr)
		}
		r.log.Info("pass asset sweep done", "asset", asset.String(),
			"downloaded", report.Downloaded, "skipped", report.Skipped, "failed", len(report.Failed))
	}

	r.log.Info("scheduled pass complete", "items", len(items), "duration", time.Since(started))
	return nil
}

// collect pages every visible library's items and attaches season lists to
// shows.
func (r *Runner) collect(ctx context.Context) ([]*catalog.Item, error) {
	libs, err := r.catalog.Libraries(ctx)
	if err != nil {
		return nil, err
	}

	var items []*catalog.Item
	for _, lib := range libs {
		if r.hidden[lib.Title] {
			r.log.Debug("skipping hidden library", "library", lib.Title)
			continue
		}
		for start := 0; ; start += itemPageSize {
			page, total, err := r.catalog.Items(ctx, lib, start, itemPageSize)
			if err != nil {
				return nil, err
			}
			for i := range page {
				item := page[i]
				if item.Kind == layout.Show && len(item.Seasons) == 0 {
					seasons, err := r.catalog.Seasons(ctx, item.RatingKey)
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
	}
	return items, nil
}
