// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/openpress/bibnorm/pkg/types"
)

// stripAccents decomposes, removes combining marks, and recomposes, so
// "Müller" and "Muller" normalize to the same key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Match reports whether two entries describe the same bibliographic
// work. It is a similarity predicate, symmetric but not necessarily
// transitive, used only to decide keep/drop behavior during merging —
// it never coalesces two entries into one.
//
// An identical non-empty eprint or DOI matches immediately, ignoring
// all other fields. Otherwise the surname sets must be close (small
// per-surname edit distance), the normalized titles must be close, and
// the year acts as a graded signal: equal or missing years accept the
// fuzzy title comparison, while differing years require the title and
// surname evidence to be exact after normalization. Entries lacking
// comparable data do not match vacuously.
func Match(a, b types.Bibentry, cfg types.MatchConfig) bool {
	if a.Eprint != "" && a.Eprint == b.Eprint {
		return true
	}
	if a.DOI != "" && strings.EqualFold(a.DOI, b.DOI) {
		return true
	}

	titleA := normalizeTitle(a.Title)
	titleB := normalizeTitle(b.Title)
	if titleA == "" || titleB == "" {
		return false
	}

	surA := surnameKeys(a)
	surB := surnameKeys(b)
	if len(surA) == 0 || len(surB) == 0 {
		return false
	}

	yearsComparable := a.Year != "" && b.Year != ""
	if !yearsComparable || a.Year == b.Year {
		return surnamesClose(surA, surB, cfg.SurnameDistance) &&
			titlesClose(titleA, titleB, cfg.TitleDistanceRatio)
	}

	// Years differ: a hard discriminator unless the rest of the record
	// is identical after normalization (metadata sources regularly
	// disagree between preprint and publication year).
	return titleA == titleB && surnamesClose(surA, surB, 0)
}

// normalizeTitle lowercases, strips accents, and removes punctuation
// and whitespace so comparison is case-, whitespace-, and
// punctuation-insensitive.
func normalizeTitle(title string) string {
	folded, _, _ := transform.String(stripAccents, strings.ToLower(title))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// surnameKeys returns normalized surnames of the authors, or of the
// editors when no authors are present.
func surnameKeys(e types.Bibentry) []string {
	list := e.Authors
	if len(list) == 0 {
		list = e.Editors
	}
	var keys []string
	for _, a := range list {
		name := a.Surname
		if name == "" {
			name = a.Given
		}
		if key := normalizeTitle(name); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// surnamesClose reports whether the two surname sets pair up completely
// with at most maxDist edits per surname. Order is ignored; each
// surname may be consumed by only one counterpart, and leftover names
// on either side mean different author lists.
func surnamesClose(a, b []string, maxDist int) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, s := range a {
		found := false
		for j, t := range b {
			if used[j] {
				continue
			}
			if levenshtein(s, t) <= maxDist {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// titlesClose compares normalized titles by edit-distance ratio. The
// distance is in runes, so the denominator is too.
func titlesClose(a, b string, maxRatio float64) bool {
	if a == b {
		return true
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return false
	}
	return float64(levenshtein(a, b))/float64(longest) <= maxRatio
}

// levenshtein computes the edit distance between two strings with the
// two-row dynamic program.
func levenshtein(a, b string) int {
	s, t := []rune(a), []rune(b)
	if len(s) > len(t) {
		s, t = t, s
	}
	m, n := len(s), len(t)
	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for i := 0; i <= m; i++ {
		prev[i] = i
	}

	for j := 1; j <= n; j++ {
		curr[0] = j
		for i := 1; i <= m; i++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[m]
}
