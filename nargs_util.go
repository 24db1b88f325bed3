package nargs

import "slices"

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// namesShortestFirst orders names for display: shortest first, registration
// order among equals.
func namesShortestFirst(names []string) []string {
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int {
		return len(a) - len(b)
	})
	return out
}
