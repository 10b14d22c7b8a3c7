package match

import (
	"strings"
	"unicode"
)

// Distance returns the Levenshtein edit distance between a and b, counted in
// runes. Only two rows of the edit matrix are kept.
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j, cb := range rb {
		curr[0] = j + 1

		for i, ca := range ra {
			subst := prev[i]
			if ca != cb {
				subst++
			}

			curr[i+1] = min(prev[i+1]+1, curr[i]+1, subst)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Fold lowercases s and drops '_', '-' and ' ' so that "first_name",
// "FirstName" and "first-name" compare equal.
func Fold(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
