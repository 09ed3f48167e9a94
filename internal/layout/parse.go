package layout

import (
	"regexp"
	"strconv"
	"strings"
)

// Parsed is the identity recovered from an on-disk asset path.
type Parsed struct {
	Library string
	Title   string
	Season  int // NoSeason for item-level assets
	Asset   AssetKind
}

// seasonSuffix matches a trailing _SeasonNN or _Specials on a flat
// filename. Anchored at the end so titles that merely contain a
// season-like substring are left alone.
var seasonSuffix = regexp.MustCompile(`(?i)^(.+)_(?:season(\d+)|specials)$`)

// seasonFile matches SeasonNN.jpg, SeasonNN_background.jpg and the legacy
// Specials spelling inside an asset folder.
var seasonFile = regexp.MustCompile(`(?i)^(?:season(\d+)|specials)(_background)?$`)

// legacySeasonDir matches the legacy "Season NN" / "Specials" subfolder
// names some stores still carry from older tools.
var legacySeasonDir = regexp.MustCompile(`(?i)^season\s*(\d+)$`)

// ParseRelPath is the inverse of Resolve for a known mode: it recovers the
// library, title, season index and asset kind from a relative path. The
// second return is false for anything that does not follow the naming rule;
// callers must skip such files rather than guess.
func ParseRelPath(rel string, mode Mode) (Parsed, bool) {
	parts := strings.Split(rel, "/")

	switch mode {
	case Flat:
		if len(parts) != 2 {
			return Parsed{}, false
		}
		base, ok := stripExt(parts[1])
		if !ok {
			return Parsed{}, false
		}
		p := Parsed{Library: parts[0], Season: NoSeason, Asset: Poster}
		if rest, found := cutSuffixFold(base, "_background"); found {
			p.Asset = Background
			base = rest
		}
		if m := seasonSuffix.FindStringSubmatch(base); m != nil {
			p.Title = m[1]
			p.Season = seasonIndex(m[2])
		} else {
			p.Title = base
		}
		if p.Title == "" {
			return Parsed{}, false
		}
		return p, true

	case AssetFolders:
		if len(parts) != 3 {
			return Parsed{}, false
		}
		base, ok := stripExt(parts[2])
		if !ok {
			return Parsed{}, false
		}
		p := Parsed{Library: parts[0], Title: parts[1], Season: NoSeason}
		switch {
		case strings.EqualFold(base, "poster"):
			p.Asset = Poster
		case strings.EqualFold(base, "background"):
			p.Asset = Background
		default:
			m := seasonFile.FindStringSubmatch(base)
			if m == nil {
				return Parsed{}, false
			}
			p.Season = seasonIndex(m[1])
			if m[2] != "" {
				p.Asset = Background
			} else {
				p.Asset = Poster
			}
		}
		if p.Title == "" {
			return Parsed{}, false
		}
		return p, true

	default:
		return Parsed{}, false
	}
}

// ParseLegacySeasonDir recognizes legacy per-season subfolder names
// ("Season 01", "Specials") and returns the season index.
func ParseLegacySeasonDir(name string) (int, bool) {
	if strings.EqualFold(name, "specials") {
		return 0, true
	}
	if m := legacySeasonDir.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// seasonIndex converts a captured season number, treating an empty capture
// (the Specials spelling) as season zero.
func seasonIndex(digits string) int {
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// stripExt removes the asset extension, case-insensitively.
func stripExt(file string) (string, bool) {
	if len(file) <= len(Ext) || !strings.EqualFold(file[len(file)-len(Ext):], Ext) {
		return "", false
	}
	return file[:len(file)-len(Ext)], true
}

// cutSuffixFold is strings.CutSuffix with ASCII case folding.
func cutSuffixFold(s, suffix string) (string, bool) {
	if len(s) <= len(suffix) {
		return s, false
	}
	if !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s, false
	}
	return s[:len(s)-len(suffix)], true
}
