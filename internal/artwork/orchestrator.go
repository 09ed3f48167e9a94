package artwork

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/artkeep/artkeep/internal/catalog"
	"github.com/artkeep/artkeep/internal/layout"
	"github.com/artkeep/artkeep/internal/storelock"
)

// PolicyKind selects how a candidate image is chosen.
type PolicyKind int

const (
	// PolicyRandom picks any candidate at random.
	PolicyRandom PolicyKind = iota
	// PolicySpecific prefers candidates from a named provider.
	PolicySpecific
	// PolicyMarkOnly fetches nothing and records a manual override instead.
	PolicyMarkOnly
)

// Policy describes candidate selection for a download.
type Policy struct {
	Kind PolicyKind
	// Provider is the provider tag to prefer when Kind is PolicySpecific.
	Provider string
	// FallbackToAny widens a specific-provider request to all candidates
	// when the named provider has none.
	FallbackToAny bool
}

// Provider supplies candidate artwork and image bytes. *catalog.Client
// satisfies it.
type Provider interface {
	Candidates(ctx context.Context, ratingKey string, asset layout.AssetKind) ([]catalog.Candidate, error)
	FetchImage(ctx context.Context, c catalog.Candidate) ([]byte, error)
}

// Recorder persists download history and manual overrides. *history.Store
// satisfies it. A nil Recorder disables persistence.
type Recorder interface {
	RecordDownload(ratingKey string, asset layout.AssetKind, season int, provider, key string) error
	SetOverride(ratingKey string, asset layout.AssetKind) error
}

// Saved reports the outcome of a single download.
type Saved struct {
	// Path is the store-relative destination, empty for a mark-only run.
	Path string
	// Provider is the tag of the provider the image came from.
	Provider string
	// Marked is true when the slot was satisfied by a manual override
	// instead of a file.
	Marked bool
}

// Orchestrator fetches artwork into the local asset store. Existing files
// are never overwritten and writes are atomic within the destination
// directory.
type Orchestrator struct {
	baseDir  string
	mode     layout.Mode
	provider Provider
	recorder Recorder
	log      *slog.Logger
}

func NewOrchestrator(baseDir string, mode layout.Mode, provider Provider, recorder Recorder, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		baseDir:  baseDir,
		mode:     mode,
		provider: provider,
		recorder: recorder,
		log:      logger.With("component", "artwork"),
	}
}

// Download fills one asset slot for an item. Pass layout.NoSeason for the
// item-level slot or a season index for a season poster. Returns
// ErrAlreadyPresent without touching the provider when the destination
// file already exists.
func (o *Orchestrator) Download(ctx context.Context, item *catalog.Item, asset layout.AssetKind, season int, policy Policy) (*Saved, error) {
	rel, err := layout.Resolve(item.Library, item.Kind, item.DiskTitle(), season, asset, o.mode)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}
	dest := filepath.Join(o.baseDir, rel)

	if _, err := os.Stat(dest); err == nil {
		return nil, ErrAlreadyPresent
	}

	if policy.Kind == PolicyMarkOnly {
		if o.recorder != nil {
			if err := o.recorder.SetOverride(item.RatingKey, asset); err != nil {
				return nil, fmt.Errorf("record override: %w", err)
			}
		}
		o.log.Info("marked slot as manually satisfied",
			"ratingKey", item.RatingKey, "title", item.Title, "asset", asset.String())
		return &Saved{Marked: true}, nil
	}

	key := item.RatingKey
	if season != layout.NoSeason {
		ref, ok := item.Season(season)
		if !ok {
			return nil, fmt.Errorf("%w: season %d of %q", ErrUnknownSeason, season, item.Title)
		}
		key = ref.RatingKey
	}

	cands, err := o.provider.Candidates(ctx, key, asset)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	cand, err := choose(cands, policy)
	if err != nil {
		return nil, err
	}

	data, err := o.provider.FetchImage(ctx, cand)
	if err != nil {
		return nil, fmt.Errorf("fetch image from %s: %w", cand.Provider, err)
	}

	// A running migration renames files under us; take the shared half of
	// its lock so writes and moves never interleave.
	lock := storelock.New(o.baseDir)
	locked, err := lock.TryRLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return nil, ErrStoreBusy
	}
	defer lock.Unlock()

	if err := writeAtomic(dest, data); err != nil {
		return nil, fmt.Errorf("write %s: %w", rel, err)
	}

	if o.recorder != nil {
		if err := o.recorder.RecordDownload(item.RatingKey, asset, season, cand.Provider, cand.Key); err != nil {
			o.log.Warn("failed to record download history", "ratingKey", item.RatingKey, "error", err)
		}
	}

	o.log.Info("downloaded artwork",
		"title", item.Title, "asset", asset.String(), "season", season,
		"provider", cand.Provider, "path", rel, "bytes", len(data))
	return &Saved{Path: rel, Provider: cand.Provider}, nil
}

// choose applies the selection policy to the candidate list.
func choose(cands []catalog.Candidate, policy Policy) (catalog.Candidate, error) {
	pool := cands
	if policy.Kind == PolicySpecific {
		var matched []catalog.Candidate
		for _, c := range cands {
			if c.Provider == policy.Provider {
				matched = append(matched, c)
			}
		}
		if len(matched) > 0 {
			pool = matched
		} else if !policy.FallbackToAny {
			return catalog.Candidate{}, fmt.Errorf("%w: provider %q", ErrNoCandidate, policy.Provider)
		}
	}
	if len(pool) == 0 {
		return catalog.Candidate{}, ErrNoCandidate
	}
	return pool[rand.IntN(len(pool))], nil
}

// writeAtomic writes data to a temp file in the destination directory,
// fsyncs it, and renames it into place.
func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(dest), uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
