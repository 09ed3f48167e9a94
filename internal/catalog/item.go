// Package catalog provides a read-only view of the media server's library:
// libraries, items, seasons, and candidate artwork.
package catalog

import (
	"path"
	"strings"

	"github.com/artkeep/artkeep/internal/layout"
)

// Library is one catalog library section.
type Library struct {
	Key   string
	Title string
	Kind  layout.ItemKind
}

// SeasonRef is a season belonging to a show. Index is 1-based; index zero
// is the Specials season.
type SeasonRef struct {
	RatingKey string
	Index     int
	Title     string
}

// Item is a snapshot of one movie or show as the catalog reports it. It is
// refreshed from the catalog on every listing; nothing here is persisted.
type Item struct {
	RatingKey   string
	Kind        layout.ItemKind
	Title       string
	Year        int
	Library     string
	FolderTitle string // basename of the item's media folder, if known
	Seasons     []SeasonRef
}

// DiskTitle is the title used for on-disk asset paths. The physical media
// folder name ("Dune (2021)") is preferred over the display title so assets
// line up with the library files; the display title is the fallback.
func (i *Item) DiskTitle() string {
	if i.FolderTitle != "" {
		return i.FolderTitle
	}
	return i.Title
}

// Season returns the season with the given index, if the snapshot has it.
func (i *Item) Season(index int) (SeasonRef, bool) {
	for _, s := range i.Seasons {
		if s.Index == index {
			return s, true
		}
	}
	return SeasonRef{}, false
}

// folderTitleFromMovieFile derives the media folder name from a movie's
// file path as the catalog reports it.
func folderTitleFromMovieFile(file string) string {
	if file == "" {
		return ""
	}
	dir := path.Dir(strings.ReplaceAll(file, "\\", "/"))
	if dir == "." || dir == "/" {
		return ""
	}
	return path.Base(dir)
}

// folderTitleFromLocation derives the media folder name from a show's
// location directory.
func folderTitleFromLocation(loc string) string {
	if loc == "" {
		return ""
	}
	loc = strings.TrimRight(strings.ReplaceAll(loc, "\\", "/"), "/")
	if loc == "" {
		return ""
	}
	return path.Base(loc)
}
