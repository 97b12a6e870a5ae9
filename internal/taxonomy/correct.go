package taxonomy

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultMaxDistance is the largest edit distance still treated as a typo.
const DefaultMaxDistance = 3

// CorrectHazard returns the vocabulary entry closest to name when its edit
// distance is at most maxDist; otherwise name is returned unchanged.
//
// Comparison is case-insensitive. The distance to an entry is the smaller of
// the whole-string distance and the best window distance: the distance of a
// contiguous window of name's words, as many as the entry has, counted only
// when that window is at least 75% similar to the entry. A longer name
// therefore corrects to an entry it contains ("salmonella abc" gives
// "salmonella"). Ties go to the earlier entry.
func CorrectHazard(name string, vocab []string, maxDist int) string {
	if IsAbsent(name) || len(vocab) == 0 {
		return name
	}
	if maxDist < 0 {
		maxDist = DefaultMaxDistance
	}
	lower := strings.ToLower(strings.TrimSpace(name))
	words := strings.Fields(lower)
	best, bestDist := -1, 0
	for i, entry := range vocab {
		d := hazardDistance(lower, words, strings.ToLower(entry))
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
		if d == 0 {
			break
		}
	}
	if bestDist <= maxDist {
		return vocab[best]
	}
	return name
}

// Distance is the edit distance CorrectHazard uses between name and entry.
func Distance(name, entry string) int {
	lower := strings.ToLower(strings.TrimSpace(name))
	return hazardDistance(lower, strings.Fields(lower), strings.ToLower(entry))
}

func hazardDistance(lower string, words []string, entry string) int {
	d := levenshtein.ComputeDistance(lower, entry)
	n := len(strings.Fields(entry))
	if n == 0 || n >= len(words) {
		return d
	}
	limit := len([]rune(entry)) / 4
	for i := 0; i+n <= len(words); i++ {
		w := levenshtein.ComputeDistance(strings.Join(words[i:i+n], " "), entry)
		if w <= limit && w < d {
			d = w
		}
	}
	return d
}
