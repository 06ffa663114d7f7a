// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bbl

import (
	"regexp"
	"strings"

	"github.com/openpress/bibnorm/pkg/types"
)

// Derived-field patterns. Declared as package vars so the shapes are
// compiled once and visible in one place.
var (
	// doiRe matches a DOI anywhere in entry text: "10.NNNN/suffix".
	doiRe = regexp.MustCompile(`\b(10\.\d{4,9}/[^\s{}<>]+)`)

	// arxivPrefixedRe matches "arXiv:2301.07041v2" and the old-style
	// archive-qualified form "arXiv:quant-ph/0301001".
	arxivPrefixedRe = regexp.MustCompile(`arXiv:\s*([a-z-]+(?:\.[A-Z]{2})?/\d{7}|\d{4}\.\d{4,5})(v\d+)?`)

	// arxivBareRe matches a bare new-style identifier "2301.07041",
	// optionally versioned.
	arxivBareRe = regexp.MustCompile(`\b(\d{4}\.\d{4,5})(v\d+)?\b`)

	// isbnRe matches a hyphenated 10- or 13-digit ISBN, with or without
	// an "ISBN:" prefix.
	isbnRe = regexp.MustCompile(`(?i)(?:ISBN[:\s]*)?\b((?:97[89][- ])?\d{1,5}[- ]\d{1,7}[- ]\d{1,7}[- ][\dX])\b`)

	// parenYearRe matches the parenthesized publication year of a
	// journal reference, "(1997)". Page and volume numbers can also be
	// year-shaped, so this form is preferred.
	parenYearRe = regexp.MustCompile(`\(\s*((?:1[5-9]|20)\d{2})\s*\)`)

	// yearRe matches a bare plausible 4-digit publication year.
	yearRe = regexp.MustCompile(`\b((?:1[5-9]|20)\d{2})\b`)

	// journalRefRe matches the common journal-reference shape
	// "Journal Name 12, 345 (2017)" or "Journal Name 12, 345-350 (2017)",
	// capturing venue, volume, and page.
	journalRefRe = regexp.MustCompile(`([\p{L}.&\- ]+?)\s+(\d+)\s*,\s*([A-Z]?\d+(?:\s*[-–]+\s*\d+)?)\s*\((?:1[5-9]|20)\d{2}\)`)
)

// trailingPunct is trimmed from the end of matched identifiers; DOIs in
// running text are regularly followed by sentence punctuation.
const trailingPunct = ".,;:)]}\"'"

// deriveFields extracts scalar fields from the raw entry text by
// pattern matching and stores them on the entry.
func deriveFields(e *types.RawBibEntry) {
	text := e.Text

	if m := doiRe.FindStringSubmatch(text); m != nil {
		e.DOI = strings.TrimRight(m[1], trailingPunct)
	}

	if m := arxivPrefixedRe.FindStringSubmatch(text); m != nil {
		e.Eprint = m[1] + m[2]
	} else if m := arxivBareRe.FindStringSubmatch(text); m != nil && !looksLikeDOISegment(text, m[1]) {
		e.Eprint = m[1] + m[2]
	}

	if m := isbnRe.FindStringSubmatch(text); m != nil {
		e.ISBN = m[1]
	}

	// Identifiers can embed year-shaped digit runs ("2012.05432"), so
	// the year is matched against text with them removed.
	scrubbed := text
	if e.DOI != "" {
		scrubbed = strings.Replace(scrubbed, e.DOI, "", 1)
	}
	if e.Eprint != "" {
		scrubbed = strings.Replace(scrubbed, e.Eprint, "", 1)
	}
	if m := parenYearRe.FindStringSubmatch(scrubbed); m != nil {
		e.Year = m[1]
	} else if m := yearRe.FindStringSubmatch(scrubbed); m != nil {
		e.Year = m[1]
	}

	if m := journalRefRe.FindStringSubmatch(text); m != nil {
		e.Journal = strings.TrimSpace(m[1])
		e.Volume = m[2]
		e.Page = strings.TrimRight(m[3], trailingPunct)
	}
}

// looksLikeDOISegment reports whether the candidate bare arXiv match is
// actually part of the entry's DOI suffix, which also contains
// digit.digit runs.
func looksLikeDOISegment(text, candidate string) bool {
	if m := doiRe.FindString(text); m != "" {
		return strings.Contains(m, candidate)
	}
	return false
}
