// Package migrate converts an existing asset store between the two naming
// conventions without re-fetching anything: a pure filesystem transform.
package migrate

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artkeep/artkeep/internal/layout"
	"github.com/artkeep/artkeep/internal/storelock"
	"github.com/artkeep/artkeep/pkg/match"
)

// Pair is one planned move. Conflict is set when the destination is
// already occupied by different content; such pairs are never executed.
type Pair struct {
	Source   string // relative to the store root
	Dest     string
	Conflict bool
	// Identical marks a destination that already holds the same bytes;
	// the pair is skipped so a re-run is a no-op.
	Identical bool
}

// UnparsedFile is a discovered file whose name does not follow the source
// layout's rule. It is left untouched and reported; Suggestion, when
// present, is a fuzzy catalog-title hint for the operator.
type UnparsedFile struct {
	Path       string
	Suggestion string
	Confidence match.Confidence
}

// Plan is the full set of moves, computed before any mutation.
type Plan struct {
	BaseDir  string
	Source   layout.Mode
	Dest     layout.Mode
	Pairs    []Pair
	Unparsed []UnparsedFile
}

// Options tune plan discovery.
type Options struct {
	// KnownTitles, when supplied, enables fuzzy suggestions for
	// unparseable filenames. Suggestions are report-only.
	KnownTitles []string
}

// NewPlan discovers every asset under the source layout and computes its
// destination under the dest layout. Nothing is moved; call Execute with
// the result. Files that do not follow the source naming rule are
// collected as unparsed, never guessed at.
func NewPlan(baseDir string, source, dest layout.Mode, opts Options) (*Plan, error) {
	if _, err := os.Stat(baseDir); err != nil {
		return nil, fmt.Errorf("stat base dir: %w", err)
	}

	plan := &Plan{BaseDir: baseDir, Source: source, Dest: dest}

	found, err := discover(baseDir, source)
	if err != nil {
		return nil, err
	}

	for _, f := range found {
		if f.parsed == nil {
			u := UnparsedFile{Path: f.rel}
			if len(opts.KnownTitles) > 0 {
				if m := match.BestTitle(stemOf(f.rel), opts.KnownTitles); m.Confidence > match.ConfidenceNone {
					u.Suggestion = m.Title
					u.Confidence = m.Confidence
				}
			}
			plan.Unparsed = append(plan.Unparsed, u)
			continue
		}

		p := f.parsed
		kind := layout.Movie
		if p.Season != layout.NoSeason {
			kind = layout.Show
		}
		destRel, err := layout.Resolve(p.Library, kind, p.Title, p.Season, p.Asset, dest)
		if err != nil {
			plan.Unparsed = append(plan.Unparsed, UnparsedFile{Path: f.rel})
			continue
		}
		if destRel == f.rel {
			continue // already in place
		}

		pair := Pair{Source: f.rel, Dest: destRel}
		pair.Conflict, pair.Identical = classifyDest(baseDir, f.rel, destRel)
		plan.Pairs = append(plan.Pairs, pair)
	}

	sort.Slice(plan.Pairs, func(i, j int) bool { return plan.Pairs[i].Source < plan.Pairs[j].Source })
	sort.Slice(plan.Unparsed, func(i, j int) bool { return plan.Unparsed[i].Path < plan.Unparsed[j].Path })
	return plan, nil
}

// discovered is one asset file found under the source layout. parsed is
// nil when the filename does not follow the naming rule.
type discovered struct {
	rel    string
	parsed *layout.Parsed
}

// discover walks the store under the source layout's expected shape:
// library dirs containing either flat files or per-item folders. Legacy
// "Season NN" subfolders inside item folders are recognized too and
// normalized toward the destination layout.
func discover(baseDir string, source layout.Mode) ([]discovered, error) {
	libs, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("read base dir: %w", err)
	}

	var found []discovered
	for _, lib := range libs {
		if !lib.IsDir() {
			if !storelock.IsLockFile(lib.Name()) && !strings.HasPrefix(lib.Name(), ".") && isAsset(lib.Name()) {
				// An asset directly in the store root belongs to no
				// library and cannot be placed.
				found = append(found, discovered{rel: lib.Name()})
			}
			continue
		}

		libPath := filepath.Join(baseDir, lib.Name())
		entries, err := os.ReadDir(libPath)
		if err != nil {
			return nil, fmt.Errorf("read library %s: %w", lib.Name(), err)
		}

		for _, entry := range entries {
			switch {
			case !entry.IsDir():
				if !isAsset(entry.Name()) {
					continue
				}
				rel := path.Join(lib.Name(), entry.Name())
				if source == layout.Flat {
					found = append(found, parseOne(rel, layout.Flat))
				} else {
					found = append(found, discovered{rel: rel})
				}

			case source == layout.AssetFolders:
				itemRel := path.Join(lib.Name(), entry.Name())
				sub, err := discoverItemFolder(baseDir, itemRel, lib.Name(), entry.Name())
				if err != nil {
					return nil, err
				}
				found = append(found, sub...)

			default:
				// A directory under flat source is outside the expected
				// shape; leave it alone entirely.
			}
		}
	}
	return found, nil
}

// discoverItemFolder collects assets inside one item folder, including
// legacy per-season subfolders.
func discoverItemFolder(baseDir, itemRel, library, title string) ([]discovered, error) {
	entries, err := os.ReadDir(filepath.Join(baseDir, itemRel))
	if err != nil {
		return nil, fmt.Errorf("read item folder %s: %w", itemRel, err)
	}

	var found []discovered
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			season, ok := layout.ParseLegacySeasonDir(name)
			if !ok {
				continue
			}
			for _, legacy := range []struct {
				file  string
				asset layout.AssetKind
			}{
				{"poster" + layout.Ext, layout.Poster},
				{"background" + layout.Ext, layout.Background},
			} {
				rel := path.Join(itemRel, name, legacy.file)
				if _, err := os.Stat(filepath.Join(baseDir, rel)); err != nil {
					continue
				}
				found = append(found, discovered{
					rel: rel,
					parsed: &layout.Parsed{
						Library: library,
						Title:   title,
						Season:  season,
						Asset:   legacy.asset,
					},
				})
			}
			continue
		}

		if !isAsset(name) {
			continue
		}
		found = append(found, parseOne(path.Join(itemRel, name), layout.AssetFolders))
	}
	return found, nil
}

func parseOne(rel string, mode layout.Mode) discovered {
	p, ok := layout.ParseRelPath(rel, mode)
	if !ok {
		return discovered{rel: rel}
	}
	return discovered{rel: rel, parsed: &p}
}

// classifyDest checks whether the destination is free, identical, or a
// conflict.
func classifyDest(baseDir, srcRel, destRel string) (conflict, identical bool) {
	destPath := filepath.Join(baseDir, filepath.FromSlash(destRel))
	if _, err := os.Stat(destPath); err != nil {
		return false, false
	}
	same, err := sameContent(filepath.Join(baseDir, filepath.FromSlash(srcRel)), destPath)
	if err != nil || !same {
		return true, false
	}
	return false, true
}

func isAsset(name string) bool {
	return strings.EqualFold(filepath.Ext(name), layout.Ext)
}

// stemOf returns the filename without extension, for fuzzy suggestions.
func stemOf(rel string) string {
	base := path.Base(rel)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
