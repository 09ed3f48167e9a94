package artwork

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/artkeep/artkeep/internal/catalog"
	"github.com/artkeep/artkeep/internal/layout"
	"github.com/artkeep/artkeep/internal/status"
)

// batchWorkers bounds concurrent downloads in a sweep.
const batchWorkers = 4

// BatchReport summarizes one sweep over a set of items.
type BatchReport struct {
	Downloaded int
	// Skipped counts slots that were already present or overridden.
	Skipped int
	// Failed maps a slot description to the error it hit. Failures never
	// abort the sweep.
	Failed map[string]error
}

type slot struct {
	item   *catalog.Item
	season int
	desc   string
}

// DownloadMissing fills every absent slot across items: the item-level slot
// plus one per season for shows. Slots that already have a file, or an
// override on the item slot, are skipped without a provider call. A
// mark-only policy is rejected here; it only makes sense for a single
// deliberate slot.
func (o *Orchestrator) DownloadMissing(ctx context.Context, items []*catalog.Item, asset layout.AssetKind, policy Policy, ov status.Overrides) (*BatchReport, error) {
	if policy.Kind == PolicyMarkOnly {
		return nil, errors.New("mark-only policy is not valid for a sweep")
	}

	var slots []slot
	for _, item := range items {
		if !ov.Has(item.RatingKey, asset) {
			slots = append(slots, slot{item: item, season: layout.NoSeason, desc: item.Title})
		}
		if item.Kind != layout.Show {
			continue
		}
		for _, s := range item.Seasons {
			slots = append(slots, slot{
				item:   item,
				season: s.Index,
				desc:   item.Title + " " + s.Title,
			})
		}
	}

	report := &BatchReport{Failed: make(map[string]error)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for _, s := range slots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := o.Download(ctx, s.item, asset, s.season, policy)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Downloaded++
			case errors.Is(err, ErrAlreadyPresent):
				report.Skipped++
			default:
				report.Failed[s.desc] = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}
