package match

import (
	"github.com/hbollon/go-edlib"
)

// Confidence is the confidence level of a title match.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // Score < 0.70
	ConfidenceLow                      // Score >= 0.70
	ConfidenceMedium                   // Score >= 0.85
	ConfidenceHigh                     // Score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Result is the outcome of a fuzzy title match.
type Result struct {
	Title      string  // the matched candidate title
	Score      float64 // Jaro-Winkler similarity (0.0-1.0)
	Confidence Confidence
}

// BestTitle finds the closest candidate title for an unrecognized filename
// stem. Jaro-Winkler favors shared prefixes, which suits media titles. The
// result is advisory: callers report it, they never act on it.
func BestTitle(stem string, candidates []string) Result {
	if len(candidates) == 0 {
		return Result{Confidence: ConfidenceNone}
	}

	normalized := CleanTitle(stem)

	var best Result
	for _, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalized, CleanTitle(candidate)))
		if score > best.Score {
			best.Title = candidate
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best.Confidence = ConfidenceNone
		best.Title = ""
	}

	return best
}
