// Package layout maps catalog items to their canonical on-disk asset paths
// and back again.
package layout

import (
	"errors"
	"fmt"
	"path"
)

// Ext is the only asset file extension the store writes.
const Ext = ".jpg"

// NoSeason marks an item-level asset (as opposed to season zero, which is
// the Specials season and resolves to Season00).
const NoSeason = -1

// ErrInvalidInput indicates a nonsensical kind/season/asset combination.
// This is a programming error on the caller's side, never coerced.
var ErrInvalidInput = errors.New("invalid layout input")

// ItemKind distinguishes movies from shows.
type ItemKind int

const (
	Movie ItemKind = iota
	Show
)

func (k ItemKind) String() string {
	switch k {
	case Movie:
		return "movie"
	case Show:
		return "show"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// AssetKind is the artwork slot: poster or background.
type AssetKind int

const (
	Poster AssetKind = iota
	Background
)

func (a AssetKind) String() string {
	switch a {
	case Poster:
		return "poster"
	case Background:
		return "background"
	default:
		return fmt.Sprintf("AssetKind(%d)", int(a))
	}
}

// ParseAsset converts a config/CLI spelling into an AssetKind. "art" is
// accepted as the media server's name for backgrounds.
func ParseAsset(s string) (AssetKind, error) {
	switch s {
	case "poster":
		return Poster, nil
	case "background", "art":
		return Background, nil
	default:
		return 0, fmt.Errorf("%w: unknown asset kind %q", ErrInvalidInput, s)
	}
}

// Mode is the on-disk naming convention. It is passed explicitly into every
// Resolve call rather than read from process-wide state.
type Mode int

const (
	// AssetFolders keeps one directory per item with fixed-name files
	// inside (Kometa-style).
	AssetFolders Mode = iota
	// Flat keeps one file per item or season, title encoded in the
	// filename.
	Flat
)

func (m Mode) String() string {
	switch m {
	case AssetFolders:
		return "assetfolders"
	case Flat:
		return "flat"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a config/CLI spelling into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "assetfolders", "asset_folders":
		return AssetFolders, nil
	case "flat", "no_asset_folders":
		return Flat, nil
	default:
		return 0, fmt.Errorf("%w: unknown layout mode %q", ErrInvalidInput, s)
	}
}

// SeasonName renders a season index as the fixed-width on-disk form,
// e.g. Season01. Season zero is the Specials season and renders Season00.
func SeasonName(index int) string {
	return fmt.Sprintf("Season%02d", index)
}

// Resolve computes the canonical path for one asset slot, relative to the
// store's base directory. It is a pure function: same inputs, same path,
// no filesystem access.
//
// The library name is always the first path component, so identical titles
// in different libraries never collide.
func Resolve(library string, kind ItemKind, title string, season int, asset AssetKind, mode Mode) (string, error) {
	if kind == Movie && season != NoSeason {
		return "", fmt.Errorf("%w: movie with season index %d", ErrInvalidInput, season)
	}
	if season != NoSeason && season < 0 {
		return "", fmt.Errorf("%w: negative season index %d", ErrInvalidInput, season)
	}

	lib := Sanitize(library)
	name := Sanitize(title)
	if lib == "" || name == "" {
		return "", fmt.Errorf("%w: empty library or title after sanitizing", ErrInvalidInput)
	}

	switch mode {
	case AssetFolders:
		switch {
		case season == NoSeason && asset == Poster:
			return path.Join(lib, name, "poster"+Ext), nil
		case season == NoSeason && asset == Background:
			return path.Join(lib, name, "background"+Ext), nil
		case asset == Poster:
			return path.Join(lib, name, SeasonName(season)+Ext), nil
		default:
			return path.Join(lib, name, SeasonName(season)+"_background"+Ext), nil
		}
	case Flat:
		file := name
		if season != NoSeason {
			file += "_" + SeasonName(season)
		}
		if asset == Background {
			file += "_background"
		}
		return path.Join(lib, file+Ext), nil
	default:
		return "", fmt.Errorf("%w: unknown mode %v", ErrInvalidInput, mode)
	}
}
