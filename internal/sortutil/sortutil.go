package sortutil

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// StablePathSort returns a new slice containing the input paths sorted
// lexicographically. The original slice is not modified.
func StablePathSort(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}

// FoldPathSort returns a new slice sorted case-insensitively with CompareFold.
// Equal-folding names keep their input order.
func FoldPathSort(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.SliceStable(out, func(i, j int) bool { return CompareFold(out[i], out[j]) < 0 })
	return out
}

// CompareFold compares a and b rune by rune after folding each rune to upper
// and then lower case, so "META-INF" and "meta-inf" compare equal and "a" < "B".
// A shorter string that is a prefix of the other sorts first.
func CompareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		a, b = a[na:], b[nb:]
		if ra == rb {
			continue
		}
		ra = unicode.ToLower(unicode.ToUpper(ra))
		rb = unicode.ToLower(unicode.ToUpper(rb))
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}
