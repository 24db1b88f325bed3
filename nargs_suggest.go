package nargs

import "strings"

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 1

// Suggest returns the declared name closest to token, aliases and
// positional names included, ignoring prefix characters on both sides. Ties
// go to the earliest declared name.
func (r *Registry) Suggest(token string) (string, bool) {
	stripped := []rune(strings.TrimLeft(token, r.prefix))

	best := -1
	bestName := ""
	for pair := r.names.Oldest(); pair != nil; pair = pair.Next() {
		name := pair.Key.(string)
		d := damerauLevenshtein(stripped, []rune(strings.TrimLeft(name, r.prefix)))
		if best < 0 || d < best {
			best = d
			bestName = name
		}
	}
	if best < 0 || best > maxSuggestDistance {
		return "", false
	}
	return bestName, true
}

// damerauLevenshtein is the unrestricted edit distance where insertion,
// deletion, substitution and adjacent transposition all cost 1.
func damerauLevenshtein(a, b []rune) int {
	la, lb := len(a), len(b)
	maxDist := la + lb

	// d is offset by one row and column holding maxDist.
	d := make([][]int, la+2)
	for i := range d {
		d[i] = make([]int, lb+2)
	}
	d[0][0] = maxDist
	for i := 0; i <= la; i++ {
		d[i+1][0] = maxDist
		d[i+1][1] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j+1] = maxDist
		d[1][j+1] = j
	}

	// last row where each rune was seen in a
	da := make(map[rune]int)
	for i := 1; i <= la; i++ {
		db := 0
		for j := 1; j <= lb; j++ {
			i1 := da[b[j-1]]
			j1 := db
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
				db = j
			}
			d[i+1][j+1] = min(
				d[i][j]+cost,
				d[i+1][j]+1,
				d[i][j+1]+1,
				d[i1][j1]+(i-i1-1)+1+(j-j1-1),
			)
		}
		da[a[i-1]] = i
	}
	return d[la+1][lb+1]
}
