package match

import (
	"cmp"
	"slices"
)

// DefaultMaxDistance is the edit distance Suggest uses when given zero.
const DefaultMaxDistance = 2

type scored struct {
	name     string
	distance int
}

// Suggest returns the candidates whose folded form is within maxDistance
// edits of the folded name, closest first and alphabetically among equals.
// An exact candidate match is never suggested.
func Suggest(name string, candidates []string, maxDistance int) []string {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	folded := Fold(name)

	var hits []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if d := Distance(folded, Fold(c)); d <= maxDistance {
			hits = append(hits, scored{name: c, distance: d})
		}
	}

	slices.SortFunc(hits, func(a, b scored) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}

		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, len(hits))
	for _, h := range slices.CompactFunc(hits, func(a, b scored) bool { return a.name == b.name }) {
		out = append(out, h.name)
	}

	return out
}
