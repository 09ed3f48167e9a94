package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		library string
		kind    ItemKind
		title   string
		season  int
		asset   AssetKind
		mode    Mode
		want    string
	}{
		{"movie poster folders", "Movies", Movie, "Dune (2021)", NoSeason, Poster, AssetFolders,
			"Movies/Dune (2021)/poster.jpg"},
		{"movie poster flat", "Movies", Movie, "Dune (2021)", NoSeason, Poster, Flat,
			"Movies/Dune (2021).jpg"},
		{"movie background folders", "Movies", Movie, "Dune (2021)", NoSeason, Background, AssetFolders,
			"Movies/Dune (2021)/background.jpg"},
		{"movie background flat", "Movies", Movie, "Dune (2021)", NoSeason, Background, Flat,
			"Movies/Dune (2021)_background.jpg"},
		{"show poster folders", "TV Shows", Show, "The Office", NoSeason, Poster, AssetFolders,
			"TV Shows/The Office/poster.jpg"},
		{"season poster flat", "TV Shows", Show, "The Office", 1, Poster, Flat,
			"TV Shows/The Office_Season01.jpg"},
		{"season poster folders", "TV Shows", Show, "The Office", 1, Poster, AssetFolders,
			"TV Shows/The Office/Season01.jpg"},
		{"season background folders", "TV Shows", Show, "The Office", 3, Background, AssetFolders,
			"TV Shows/The Office/Season03_background.jpg"},
		{"season background flat", "TV Shows", Show, "The Office", 3, Background, Flat,
			"TV Shows/The Office_Season03_background.jpg"},
		{"specials season", "TV Shows", Show, "The Office", 0, Poster, AssetFolders,
			"TV Shows/The Office/Season00.jpg"},
		{"specials season flat", "TV Shows", Show, "The Office", 0, Poster, Flat,
			"TV Shows/The Office_Season00.jpg"},
		{"large season index", "TV Shows", Show, "One Piece", 100, Poster, Flat,
			"TV Shows/One Piece_Season100.jpg"},
		{"illegal chars sanitized", "Movies", Movie, "Mission: Impossible", NoSeason, Poster, Flat,
			"Movies/Mission Impossible.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.library, tt.kind, tt.title, tt.season, tt.asset, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Deterministic: a second call yields the same path.
			again, err := Resolve(tt.library, tt.kind, tt.title, tt.season, tt.asset, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestResolveInvalidInput(t *testing.T) {
	_, err := Resolve("Movies", Movie, "Dune (2021)", 1, Poster, AssetFolders)
	assert.ErrorIs(t, err, ErrInvalidInput, "season index on a movie")

	_, err = Resolve("Movies", Show, "The Office", -5, Poster, Flat)
	assert.ErrorIs(t, err, ErrInvalidInput, "negative season index")

	_, err = Resolve("", Movie, "Dune (2021)", NoSeason, Poster, Flat)
	assert.ErrorIs(t, err, ErrInvalidInput, "empty library")

	_, err = Resolve("Movies", Movie, "???", NoSeason, Poster, Flat)
	assert.ErrorIs(t, err, ErrInvalidInput, "title empty after sanitizing")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("assetfolders")
	require.NoError(t, err)
	assert.Equal(t, AssetFolders, m)

	m, err = ParseMode("flat")
	require.NoError(t, err)
	assert.Equal(t, Flat, m)

	_, err = ParseMode("nested")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "The Office", "The Office"},
		{"colon", "Mission: Impossible", "Mission Impossible"},
		{"slash and backslash", "AC/DC\\Live", "AC DC Live"},
		{"question and star", "What If...?*", "What If"},
		{"angle brackets and pipe", "<The|Best>", "The Best"},
		{"null byte", "Movie\x00Name", "MovieName"},
		{"multi space collapse", "A    B", "A B"},
		{"trim dots and spaces", " .Trailing. ", "Trailing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Sanitize(tt.input), "stable across calls")
		})
	}
}
