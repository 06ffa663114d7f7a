// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the bibliographic
// normalization pipeline: macro definitions, raw parsed bibliography
// items, and the normalized Bibentry record exchanged with the
// surrounding application.
package types

// NameStyle controls which name part sorts an author and the order in
// which given and surname are concatenated for display.
type NameStyle string

const (
	// StyleWestern displays given name before surname and sorts by surname.
	StyleWestern NameStyle = "western"

	// StyleEastern displays surname before given name.
	StyleEastern NameStyle = "eastern"

	// StyleIslensk displays given name first and sorts by given name
	// (Icelandic patronymic convention).
	StyleIslensk NameStyle = "islensk"

	// StyleGivenOnly is for mononymous authors with no surname.
	StyleGivenOnly NameStyle = "given-only"
)

// Valid reports whether s is one of the enumerated name styles.
func (s NameStyle) Valid() bool {
	switch s {
	case StyleWestern, StyleEastern, StyleIslensk, StyleGivenOnly:
		return true
	}
	return false
}

// Author is one contributor to a bibliographic work.
type Author struct {
	// Given is the given name(s).
	Given string `json:"given_name" yaml:"given_name"`

	// Surname is the family name. Empty for given-only names.
	Surname string `json:"surname" yaml:"surname"`

	// NameStyle selects display order and sort key.
	NameStyle NameStyle `json:"name_style" yaml:"name_style"`

	// ORCID is the bare identifier (e.g. "0000-0002-1483-5661"), without
	// the resolver URL prefix.
	ORCID string `json:"orcid,omitempty" yaml:"orcid,omitempty"`

	// URL is the author's home page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Affiliations lists affiliation strings in source order.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`
}

// Bibentry is the normalized in-memory representation of one bibliographic
// work, from any source (parsed .bbl text, Crossref, ADS, arXiv). All
// fields are optional; an entry with no fields at all is legal.
//
// Entries are value types: lists from different citation sources are
// combined into new lists, never mutated in place.
type Bibentry struct {
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`
	Editors []Author `json:"editors,omitempty" yaml:"editors,omitempty"`

	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Venue is the journal, conference, or preprint server name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue  string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page   string `json:"page,omitempty" yaml:"page,omitempty"`
	Year   string `json:"year,omitempty" yaml:"year,omitempty"`
	Month  string `json:"month,omitempty" yaml:"month,omitempty"`
	Day    string `json:"day,omitempty" yaml:"day,omitempty"`

	DOI    string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Eprint string `json:"eprint,omitempty" yaml:"eprint,omitempty"`
	ISBN   string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	ISSN   string `json:"issn,omitempty" yaml:"issn,omitempty"`

	Publisher   string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`

	// Type is the work type (e.g. "book"); it selects the citation format.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	URL             string `json:"url,omitempty" yaml:"url,omitempty"`
	CollectionTitle string `json:"collectiontitle,omitempty" yaml:"collectiontitle,omitempty"`
	HowPublished    string `json:"howpublished,omitempty" yaml:"howpublished,omitempty"`
	Chapter         string `json:"chapter,omitempty" yaml:"chapter,omitempty"`

	// Extra preserves unrecognized source fields opaquely. They are carried
	// through serialization but never interpreted.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}
