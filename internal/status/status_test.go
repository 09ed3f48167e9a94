package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artkeep/artkeep/internal/catalog"
	"github.com/artkeep/artkeep/internal/layout"
)

func touch(t *testing.T, base, rel string) {
	t.Helper()
	full := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte("img"), 0644))
}

func movie(title string) *catalog.Item {
	return &catalog.Item{RatingKey: "m1", Kind: layout.Movie, Title: title, Library: "Movies"}
}

func show(title string, seasons ...int) *catalog.Item {
	it := &catalog.Item{RatingKey: "s1", Kind: layout.Show, Title: title, Library: "TV Shows"}
	for _, idx := range seasons {
		it.Seasons = append(it.Seasons, catalog.SeasonRef{Index: idx})
	}
	return it
}

func TestItemMovie(t *testing.T) {
	base := t.TempDir()
	r := NewReconciler(base, layout.Flat)

	res, err := r.Item(movie("Dune (2021)"), layout.Poster, nil)
	require.NoError(t, err)
	assert.Equal(t, Missing, res.Status)

	touch(t, base, "Movies/Dune (2021).jpg")

	res, err = r.Item(movie("Dune (2021)"), layout.Poster, nil)
	require.NoError(t, err)
	assert.Equal(t, Complete, res.Status)
	assert.True(t, res.ItemPresent)
}

// A movie has a single asset slot, so Partial is unreachable.
func TestItemMovieNeverPartial(t *testing.T) {
	base := t.TempDir()
	r := NewReconciler(base, layout.AssetFolders)
	touch(t, base, "Movies/Dune (2021)/poster.jpg")

	res, err := r.Item(movie("Dune (2021)"), layout.Background, nil)
	require.NoError(t, err)
	assert.Equal(t, Missing, res.Status, "poster on disk does not satisfy the background slot")
}

func TestItemShowClassification(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		override   bool
		want       Status
		itemSlot   bool
		presentCnt int
	}{
		{"nothing on disk", nil, false, Missing, false, 0},
		{"item poster only", []string{"TV Shows/The Office/poster.jpg"}, false, Partial, true, 0},
		{"all seasons no item", []string{
			"TV Shows/The Office/Season01.jpg",
			"TV Shows/The Office/Season02.jpg",
			"TV Shows/The Office/Season03.jpg",
		}, false, Partial, false, 3},
		{"item and two of three seasons", []string{
			"TV Shows/The Office/poster.jpg",
			"TV Shows/The Office/Season01.jpg",
			"TV Shows/The Office/Season02.jpg",
		}, false, Partial, true, 2},
		{"everything present", []string{
			"TV Shows/The Office/poster.jpg",
			"TV Shows/The Office/Season01.jpg",
			"TV Shows/The Office/Season02.jpg",
			"TV Shows/The Office/Season03.jpg",
		}, false, Complete, true, 3},
		{"override with all seasons", []string{
			"TV Shows/The Office/Season01.jpg",
			"TV Shows/The Office/Season02.jpg",
			"TV Shows/The Office/Season03.jpg",
		}, true, Complete, false, 3},
		{"override does not hide missing seasons", nil, true, Partial, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			for _, f := range tt.files {
				touch(t, base, f)
			}
			ov := Overrides{}
			if tt.override {
				ov[OverrideKey{RatingKey: "s1", Asset: layout.Poster}] = struct{}{}
			}

			r := NewReconciler(base, layout.AssetFolders)
			res, err := r.Item(show("The Office", 1, 2, 3), layout.Poster, ov)
			require.NoError(t, err)

			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.itemSlot, res.ItemPresent)
			assert.Equal(t, tt.presentCnt, res.SeasonsPresent)
			assert.Equal(t, 3, res.SeasonsTotal)
		})
	}
}

func TestOverrideIsPerAssetKind(t *testing.T) {
	base := t.TempDir()
	r := NewReconciler(base, layout.Flat)
	ov := Overrides{
		{RatingKey: "m1", Asset: layout.Poster}: {},
	}

	res, err := r.Item(movie("Dune (2021)"), layout.Poster, ov)
	require.NoError(t, err)
	assert.Equal(t, Complete, res.Status)
	assert.True(t, res.Overridden)

	res, err = r.Item(movie("Dune (2021)"), layout.Background, ov)
	require.NoError(t, err)
	assert.Equal(t, Missing, res.Status, "poster override does not cover backgrounds")
}

// Deleting the only asset file flips the next computation to Missing.
func TestStatusSelfHealing(t *testing.T) {
	base := t.TempDir()
	r := NewReconciler(base, layout.Flat)
	path := filepath.Join(base, "Movies", "Dune (2021).jpg")
	touch(t, base, "Movies/Dune (2021).jpg")

	res, err := r.Item(movie("Dune (2021)"), layout.Poster, nil)
	require.NoError(t, err)
	require.Equal(t, Complete, res.Status)

	require.NoError(t, os.Remove(path))

	res, err = r.Item(movie("Dune (2021)"), layout.Poster, nil)
	require.NoError(t, err)
	assert.Equal(t, Missing, res.Status)
}

func TestItemInvalidInput(t *testing.T) {
	base := t.TempDir()
	r := NewReconciler(base, layout.Flat)

	_, err := r.Item(&catalog.Item{RatingKey: "x", Kind: layout.Movie, Title: "???", Library: "Movies"}, layout.Poster, nil)
	assert.ErrorIs(t, err, layout.ErrInvalidInput)
}

func TestLibraryStats(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "TV Shows/Done/poster.jpg")
	touch(t, base, "TV Shows/Half/poster.jpg")

	items := []*catalog.Item{
		{RatingKey: "a", Kind: layout.Show, Title: "Done", Library: "TV Shows"},
		{RatingKey: "b", Kind: layout.Show, Title: "Half", Library: "TV Shows",
			Seasons: []catalog.SeasonRef{{Index: 1}}},
		{RatingKey: "c", Kind: layout.Show, Title: "Nothing", Library: "TV Shows"},
	}

	r := NewReconciler(base, layout.AssetFolders)
	stats := r.Library(items, layout.Poster, nil)

	assert.Equal(t, 1, stats.Complete)
	assert.Equal(t, 1, stats.Partial)
	assert.Equal(t, 1, stats.Missing)
	assert.Equal(t, 3, stats.Total())
	assert.Equal(t, 0, stats.Errors)
}
