// Package similarity scores how close two normalized strings are using
// normalized Levenshtein distance.
package similarity

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultMaxLengthGap is the length-difference ratio above which Score returns
// 0 without computing the edit distance. It is a speed heuristic: the skipped
// pairs would score at most 1-gap anyway, which is below every threshold the
// resolver uses.
const DefaultMaxLengthGap = 0.5

// Scorer computes bounded similarity in [0,1].
type Scorer struct {
	// MaxLengthGap is the fraction of the longer string's length the two
	// lengths may differ by before short-circuiting to 0. Zero or negative
	// disables the short-circuit.
	MaxLengthGap float64
}

// NewScorer returns a scorer with the default short-circuit enabled.
func NewScorer() Scorer {
	return Scorer{MaxLengthGap: DefaultMaxLengthGap}
}

var defaultScorer = NewScorer()

// Score is the package-level shortcut for NewScorer().Score.
func Score(a, b string) float64 {
	return defaultScorer.Score(a, b)
}

// Score returns 1 for identical strings, 0 if either is empty, otherwise
// 1 - distance/max(len(a), len(b)) measured in runes. It is symmetric.
func (s Scorer) Score(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)
	longer := max(lenA, lenB)
	shorter := min(lenA, lenB)

	if s.MaxLengthGap > 0 && float64(longer-shorter) > s.MaxLengthGap*float64(longer) {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)
	score := 1 - float64(distance)/float64(longer)
	if score < 0 {
		return 0
	}
	return score
}
