// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bbl parses thebibliography blocks produced by BibTeX into
// ordered raw bibliography entries. It is a total function over its
// input: malformed items yield best-effort entries rather than errors,
// because partial bibliographic data is more useful to an editor than a
// hard failure on one malformed paper among hundreds.
package bbl

import (
	"regexp"
	"strings"

	"github.com/openpress/bibnorm/internal/latex"
	"github.com/openpress/bibnorm/pkg/types"
)

var (
	// biblatexMarkerRe detects the auxiliary-file marker comment that
	// biblatex/biber write at the top of their .bbl output. Those files
	// contain no inline \bibitem text and are structurally unparseable
	// here; the caller is expected to report this to a human reviewer
	// rather than silently lose citations.
	biblatexMarkerRe = regexp.MustCompile(`%\s*\$\s*biblatex\s+(auxiliary\s+file|bbl\s+format\s+version)`)

	// beginThebibliographyRe matches the environment opening with its
	// widest-label argument.
	beginThebibliographyRe = regexp.MustCompile(`\\begin\{thebibliography\}(\{[^}]*\})?`)

	endThebibliographyRe = regexp.MustCompile(`\\end\{thebibliography\}`)

	// bibitemRe matches one \bibitem with an optional [label] argument
	// and the brace-group citation key.
	bibitemRe = regexp.MustCompile(`\\bibitem\s*(?:\[[^\]]*\])?\s*\{([^}]*)\}`)
)

// Parse turns a thebibliography block into ordered RawBibEntry values,
// one per \bibitem, in textual (citation-numbering) order. The
// environment delimiters are located if present; callers may also pass
// just the content between them. A BibLaTeX auxiliary file yields an
// empty result: nothing to parse, as distinct from a parse failure.
func Parse(bblText string) []types.RawBibEntry {
	if biblatexMarkerRe.MatchString(bblText) {
		return nil
	}

	body := bblText
	if loc := beginThebibliographyRe.FindStringIndex(body); loc != nil {
		body = body[loc[1]:]
	}
	if loc := endThebibliographyRe.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}

	items := bibitemRe.FindAllStringSubmatchIndex(body, -1)
	if len(items) == 0 {
		return nil
	}

	entries := make([]types.RawBibEntry, 0, len(items))
	for i, item := range items {
		label := body[item[2]:item[3]]
		textEnd := len(body)
		if i+1 < len(items) {
			textEnd = items[i+1][0]
		}
		text := strings.TrimSpace(stripComments(body[item[1]:textEnd]))

		entry := types.RawBibEntry{Label: label, Text: text}
		deriveFields(&entry)
		entries = append(entries, entry)
	}
	return entries
}

// stripComments removes LaTeX %-comments per line. A % preceded by an
// odd number of backslashes is an escaped literal and is kept.
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for li, line := range lines {
		for i := 0; i < len(line); i++ {
			if line[i] != '%' {
				continue
			}
			backslashes := 0
			for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
				backslashes++
			}
			if backslashes%2 == 0 {
				lines[li] = strings.TrimRight(line[:i], " \t")
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// ExpandAndParse runs the full normalization pipeline the surrounding
// system performs on hand-written .bbl source: extract the document's
// macro definitions, drop the bibliography-formatting directives,
// expand to a fixed point, convert accents to Unicode outside math
// mode, then parse the bibliography block.
func ExpandAndParse(source string) []types.RawBibEntry {
	defs := latex.ExtractMacroDefinitions(source)
	defs = latex.RemoveSpecialMacrosToIgnoreInBBL(defs)
	expanded := latex.ExpandLatexMacros(defs, source)
	converted := latex.LatexToUTF8OutsideMathMode(expanded, false)
	return Parse(converted)
}
