package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "The Office", "office"},
		{"accents", "Léon: The Professional", "leon professional"},
		{"ampersand", "Law & Order", "law and order"},
		{"hyphen and dots", "Spider-Man: No Way Home", "spider man no way home"},
		{"article mid-subtitle", "Alien: An Origin", "alien origin"},
		{"whitespace collapse", "  Dune   Part   Two ", "dune part two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.input))
		})
	}
}

func TestBestTitle(t *testing.T) {
	candidates := []string{"The Office (US)", "Parks and Recreation", "Brooklyn Nine-Nine"}

	got := BestTitle("The Offce", candidates)
	assert.Equal(t, "The Office (US)", got.Title)
	assert.GreaterOrEqual(t, got.Confidence, ConfidenceLow)

	got = BestTitle("zzzz qqqq", candidates)
	assert.Equal(t, ConfidenceNone, got.Confidence)
	assert.Empty(t, got.Title)
}

func TestBestTitleNoCandidates(t *testing.T) {
	got := BestTitle("Anything", nil)
	assert.Equal(t, ConfidenceNone, got.Confidence)
}
