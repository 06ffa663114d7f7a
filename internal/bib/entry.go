// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib implements the normalized bibliographic-entry model:
// construction from heterogeneous field maps, citation formatting, a
// fuzzy-equality predicate for reconciling records from multiple
// citation sources, and ordered list merging with deduplication.
package bib

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"github.com/openpress/bibnorm/pkg/types"
)

// ErrInvalidArgument marks construction-time validation failures:
// malformed ORCID, invalid name style, non-string affiliations, or
// non-Author elements in an authors/editors list. These propagate to
// the immediate caller uncaught.
var ErrInvalidArgument = errors.New("invalid argument")

// New constructs a Bibentry from a field map as assembled by callers
// from external metadata sources. Recognized scalar fields are stored
// as strings; unrecognized keys are preserved opaquely in Extra and
// never interpreted. All fields are optional: an empty map yields a
// legal, empty entry.
//
// Construction fails with ErrInvalidArgument only when authors or
// editors contain non-Author elements.
func New(fields map[string]any) (types.Bibentry, error) {
	var e types.Bibentry

	for key, raw := range fields {
		switch key {
		case "authors":
			list, err := authorSlice(key, raw)
			if err != nil {
				return types.Bibentry{}, err
			}
			e.Authors = list
		case "editors":
			list, err := authorSlice(key, raw)
			if err != nil {
				return types.Bibentry{}, err
			}
			e.Editors = list
		case "title":
			e.Title = cast.ToString(raw)
		case "venue", "journal":
			e.Venue = cast.ToString(raw)
		case "volume":
			e.Volume = cast.ToString(raw)
		case "issue":
			e.Issue = cast.ToString(raw)
		case "page":
			e.Page = cast.ToString(raw)
		case "year":
			e.Year = cast.ToString(raw)
		case "month":
			e.Month = cast.ToString(raw)
		case "day":
			e.Day = cast.ToString(raw)
		case "doi":
			e.DOI = cast.ToString(raw)
		case "eprint":
			e.Eprint = cast.ToString(raw)
		case "isbn":
			e.ISBN = cast.ToString(raw)
		case "issn":
			e.ISSN = cast.ToString(raw)
		case "publisher":
			e.Publisher = cast.ToString(raw)
		case "institution":
			e.Institution = cast.ToString(raw)
		case "type":
			e.Type = cast.ToString(raw)
		case "url":
			e.URL = cast.ToString(raw)
		case "collectiontitle":
			e.CollectionTitle = cast.ToString(raw)
		case "howpublished":
			e.HowPublished = cast.ToString(raw)
		case "chapter":
			e.Chapter = cast.ToString(raw)
		default:
			if e.Extra == nil {
				e.Extra = make(map[string]string)
			}
			e.Extra[key] = cast.ToString(raw)
		}
	}

	return e, nil
}

// FromRaw builds a Bibentry from a parsed raw bibliography item. The
// raw text itself is preserved opaquely so nothing is lost when the
// entry later renders without a recognized venue.
func FromRaw(raw types.RawBibEntry) types.Bibentry {
	e := types.Bibentry{
		Venue:  raw.Journal,
		Volume: raw.Volume,
		Page:   raw.Page,
		Year:   raw.Year,
		DOI:    raw.DOI,
		Eprint: raw.Eprint,
		ISBN:   raw.ISBN,
	}
	if raw.Label != "" || raw.Text != "" {
		e.Extra = map[string]string{}
		if raw.Label != "" {
			e.Extra["label"] = raw.Label
		}
		if raw.Text != "" {
			e.Extra["raw_text"] = raw.Text
		}
	}
	return e
}

// authorSlice validates that an authors/editors value is a list of
// Author elements, either typed or inside a []any.
func authorSlice(key string, raw any) ([]types.Author, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []types.Author:
		return append([]types.Author(nil), v...), nil
	case []any:
		out := make([]types.Author, 0, len(v))
		for _, item := range v {
			a, ok := item.(types.Author)
			if !ok {
				return nil, fmt.Errorf("%w: %s element must be an Author, got %T", ErrInvalidArgument, key, item)
			}
			out = append(out, a)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list of Author, got %T", ErrInvalidArgument, key, raw)
	}
}
