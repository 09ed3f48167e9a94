// Package status derives per-item download status by cross-referencing the
// catalog snapshot against the asset store on disk.
//
// Status is a pure derived view: it is recomputed from disk on every call
// and never cached, so deleting a file out-of-band is reflected by the very
// next computation. The only state that can force a status without a file
// is an explicit manual override, supplied by the caller as plain flags.
package status

import (
	"errors"
	"fmt"

	"github.com/artkeep/artkeep/internal/catalog"
	"github.com/artkeep/artkeep/internal/layout"
	"github.com/artkeep/artkeep/internal/probe"
)

// Status is the download state of one (item, assetKind) slot family.
type Status int

const (
	Missing Status = iota
	Partial
	Complete
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	default:
		return "missing"
	}
}

// OverrideKey identifies a manual override. Overrides are scoped per
// (item, assetKind), not global per item.
type OverrideKey struct {
	RatingKey string
	Asset     layout.AssetKind
}

// Overrides is the set of manual "mark complete" flags, owned by the
// persistence layer and handed in here as plain data.
type Overrides map[OverrideKey]struct{}

// Has reports whether an override is set for the item's asset slot.
func (o Overrides) Has(ratingKey string, asset layout.AssetKind) bool {
	if o == nil {
		return false
	}
	_, ok := o[OverrideKey{RatingKey: ratingKey, Asset: asset}]
	return ok
}

// Result is the computed status of one item for one asset kind.
type Result struct {
	Status         Status
	ItemPresent    bool
	SeasonsPresent int
	SeasonsTotal   int
	Overridden     bool
	// ProbeErr flags filesystem errors encountered while probing. Affected
	// paths are treated as missing rather than failing the whole view.
	ProbeErr error
}

// Stats aggregates a library's statuses.
type Stats struct {
	Complete int
	Partial  int
	Missing  int
	Errors   int
}

// Total returns the number of items counted.
func (s Stats) Total() int {
	return s.Complete + s.Partial + s.Missing
}

// Reconciler computes statuses for one store configuration.
type Reconciler struct {
	baseDir string
	mode    layout.Mode
}

// NewReconciler creates a reconciler for the given store root and layout
// mode.
func NewReconciler(baseDir string, mode layout.Mode) *Reconciler {
	return &Reconciler{baseDir: baseDir, mode: mode}
}

// Item computes the status of a single item for one asset kind. The error
// return is reserved for invalid input (an item the resolver rejects);
// absent files are a valid status, never an error.
func (r *Reconciler) Item(item *catalog.Item, asset layout.AssetKind, ov Overrides) (Result, error) {
	itemPath, err := layout.Resolve(item.Library, item.Kind, item.DiskTitle(), layout.NoSeason, asset, r.mode)
	if err != nil {
		return Result{}, fmt.Errorf("resolve %s: %w", item.RatingKey, err)
	}

	paths := []string{itemPath}
	seasonPaths := make(map[string]int, len(item.Seasons))
	if item.Kind == layout.Show {
		for _, season := range item.Seasons {
			p, err := layout.Resolve(item.Library, item.Kind, item.DiskTitle(), season.Index, asset, r.mode)
			if err != nil {
				return Result{}, fmt.Errorf("resolve %s season %d: %w", item.RatingKey, season.Index, err)
			}
			seasonPaths[p] = season.Index
			paths = append(paths, p)
		}
	}

	probed := probe.Probe(r.baseDir, paths)

	res := Result{
		SeasonsTotal: len(item.Seasons),
		Overridden:   ov.Has(item.RatingKey, asset),
	}
	var probeErrs []error
	for p, info := range probed {
		if info.Err != nil {
			probeErrs = append(probeErrs, fmt.Errorf("%s: %w", p, info.Err))
			continue
		}
		if !info.Exists {
			continue
		}
		if p == itemPath {
			res.ItemPresent = true
		} else if _, ok := seasonPaths[p]; ok {
			res.SeasonsPresent++
		}
	}
	res.ProbeErr = errors.Join(probeErrs...)

	res.Status = classify(item.Kind, res)
	return res, nil
}

// classify applies the status rules. The manual override substitutes for
// the item-level file only: a show with missing seasons stays Partial even
// when overridden.
func classify(kind layout.ItemKind, res Result) Status {
	itemSlot := res.ItemPresent || res.Overridden

	if kind == layout.Movie {
		if itemSlot {
			return Complete
		}
		return Missing
	}

	allSeasons := res.SeasonsPresent == res.SeasonsTotal
	switch {
	case itemSlot && allSeasons:
		return Complete
	case !itemSlot && res.SeasonsPresent == 0:
		return Missing
	default:
		return Partial
	}
}

// Library computes aggregate stats across a set of items. One item's
// failure never aborts the batch; it is counted as Missing with the error
// tallied.
func (r *Reconciler) Library(items []*catalog.Item, asset layout.AssetKind, ov Overrides) Stats {
	var stats Stats
	for _, item := range items {
		res, err := r.Item(item, asset, ov)
		if err != nil {
			stats.Missing++
			stats.Errors++
			continue
		}
		if res.ProbeErr != nil {
			stats.Errors++
		}
		switch res.Status {
		case Complete:
			stats.Complete++
		case Partial:
			stats.Partial++
		default:
			stats.Missing++
		}
	}
	return stats
}
