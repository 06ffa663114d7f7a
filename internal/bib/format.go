// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"fmt"
	"html"
	"strings"

	"github.com/openpress/bibnorm/pkg/types"
)

// CiteAsText renders a short, un-linked citation string. Books render
// as "collectiontitle publisher (year) ISBN:isbn"; everything else as
// "venue volume issue, page (year)". Absent components are omitted
// cleanly, with no stray separators, and an entry with no fields
// renders as the empty string.
func CiteAsText(e types.Bibentry) string {
	if e.Type == "book" {
		var parts []string
		if e.CollectionTitle != "" {
			parts = append(parts, e.CollectionTitle)
		}
		if e.Publisher != "" {
			parts = append(parts, e.Publisher)
		}
		if e.Year != "" {
			parts = append(parts, "("+e.Year+")")
		}
		if e.ISBN != "" {
			parts = append(parts, "ISBN:"+e.ISBN)
		}
		return strings.Join(parts, " ")
	}

	var head []string
	if e.Venue != "" {
		head = append(head, e.Venue)
	}
	if e.Volume != "" {
		head = append(head, e.Volume)
	}
	if e.Issue != "" {
		head = append(head, e.Issue)
	}

	cite := strings.Join(head, " ")
	if e.Page != "" {
		if cite != "" {
			cite += ", "
		}
		cite += e.Page
	}
	if e.Year != "" {
		if cite != "" {
			cite += " "
		}
		cite += "(" + e.Year + ")"
	}
	return cite
}

// FormattedHTML renders the entry as an HTML fragment:
//
//	A, B, and C, "Title", arXiv link, DOI-linked citation.
//
// The author list uses an Oxford-comma join; when only editors are
// present they render with an "Editor:"/"Editors:" prefix instead. The
// DOI link wraps the CiteAsText rendering when a DOI is present;
// otherwise the plain citation text is used. Exactly one trailing
// period is always present.
func FormattedHTML(e types.Bibentry, cfg types.FormatConfig) string {
	var parts []string

	if names := displayNames(e.Authors); len(names) > 0 {
		parts = append(parts, joinOxford(names))
	} else if names := displayNames(e.Editors); len(names) > 0 {
		prefix := "Editor: "
		if len(names) > 1 {
			prefix = "Editors: "
		}
		parts = append(parts, prefix+joinOxford(names))
	}

	if e.Title != "" {
		parts = append(parts, "&quot;"+html.EscapeString(e.Title)+"&quot;")
	}

	if e.Eprint != "" {
		parts = append(parts, fmt.Sprintf(`<a href="%s%s">arXiv:%s</a>`,
			html.EscapeString(cfg.ArxivURLAbsPrefix), html.EscapeString(e.Eprint), html.EscapeString(e.Eprint)))
	}

	cite := CiteAsText(e)
	switch {
	case e.DOI != "" && cite != "":
		parts = append(parts, fmt.Sprintf(`<a href="%s%s">%s</a>`,
			html.EscapeString(cfg.DOIURLPrefix), html.EscapeString(e.DOI), html.EscapeString(cite)))
	case e.DOI != "":
		parts = append(parts, fmt.Sprintf(`<a href="%s%s">%s</a>`,
			html.EscapeString(cfg.DOIURLPrefix), html.EscapeString(e.DOI), html.EscapeString(e.DOI)))
	case cite != "":
		parts = append(parts, html.EscapeString(cite))
	}

	out := strings.Join(parts, ", ")
	if out == "" {
		return ""
	}
	return strings.TrimRight(out, ".") + "."
}

// Surnames returns an Oxford-comma join of the authors' surnames, or
// the editors' when no authors are present. Empty string when neither
// list is present.
func Surnames(e types.Bibentry) string {
	list := e.Authors
	if len(list) == 0 {
		list = e.Editors
	}
	var surnames []string
	for _, a := range list {
		name := a.Surname
		if name == "" {
			name = a.Given
		}
		if name != "" {
			surnames = append(surnames, name)
		}
	}
	return joinOxford(surnames)
}

// DisplayName concatenates an author's name parts in the order the
// name style dictates.
func DisplayName(a types.Author) string {
	switch a.NameStyle {
	case types.StyleEastern:
		return strings.TrimSpace(a.Surname + " " + a.Given)
	case types.StyleGivenOnly:
		return a.Given
	default:
		return strings.TrimSpace(a.Given + " " + a.Surname)
	}
}

func displayNames(list []types.Author) []string {
	var names []string
	for _, a := range list {
		if n := DisplayName(a); n != "" {
			names = append(names, html.EscapeString(n))
		}
	}
	return names
}

// joinOxford joins names with an Oxford comma: one name bare, two
// joined by "and", three or more comma-separated with ", and" before
// the last.
func joinOxford(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
