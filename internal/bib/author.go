// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"fmt"
	"regexp"

	"github.com/openpress/bibnorm/pkg/types"
)

// orcidShapeRe matches the bare ORCID form: sixteen digits in four
// hyphenated groups, where the final character may be the X check
// digit.
var orcidShapeRe = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// NewAuthor constructs a validated Author. The name style must be one
// of the enumerated values and the ORCID, when present, must pass the
// ISO 7064 mod 11-2 checksum. Violations fail with ErrInvalidArgument;
// they indicate a programming or data error upstream that should stop
// that one record, not the whole batch.
func NewAuthor(given, surname string, style types.NameStyle, orcid, url string, affiliations []string) (types.Author, error) {
	if !style.Valid() {
		return types.Author{}, fmt.Errorf("%w: unknown name style %q", ErrInvalidArgument, style)
	}
	if orcid != "" {
		if err := ValidateORCID(orcid); err != nil {
			return types.Author{}, err
		}
	}
	return types.Author{
		Given:        given,
		Surname:      surname,
		NameStyle:    style,
		ORCID:        orcid,
		URL:          url,
		Affiliations: append([]string(nil), affiliations...),
	}, nil
}

// AuthorFromMap constructs an Author from a heterogeneous field map as
// assembled by callers from external metadata APIs. Affiliations may be
// a single string or a string slice, never any other type.
func AuthorFromMap(fields map[string]any) (types.Author, error) {
	given, err := stringField(fields, "given_name")
	if err != nil {
		return types.Author{}, err
	}
	surname, err := stringField(fields, "surname")
	if err != nil {
		return types.Author{}, err
	}
	orcid, err := stringField(fields, "orcid")
	if err != nil {
		return types.Author{}, err
	}
	url, err := stringField(fields, "url")
	if err != nil {
		return types.Author{}, err
	}

	style := types.StyleWestern
	if raw, ok := fields["name_style"]; ok {
		s, ok := raw.(string)
		if !ok {
			return types.Author{}, fmt.Errorf("%w: name_style must be a string, got %T", ErrInvalidArgument, raw)
		}
		style = types.NameStyle(s)
	}

	affiliations, err := affiliationList(fields["affiliations"])
	if err != nil {
		return types.Author{}, err
	}

	return NewAuthor(given, surname, style, orcid, url, affiliations)
}

// ValidateORCID checks the shape and the ISO 7064 mod 11-2 checksum of
// a bare ORCID identifier. The last character is a checksum of the
// preceding fifteen digits, with 10 written as X.
func ValidateORCID(orcid string) error {
	if !orcidShapeRe.MatchString(orcid) {
		return fmt.Errorf("%w: malformed ORCID %q", ErrInvalidArgument, orcid)
	}

	total := 0
	for _, c := range orcid[:len(orcid)-1] {
		if c == '-' {
			continue
		}
		total = (total + int(c-'0')) * 2
	}
	result := (12 - total%11) % 11

	check := orcid[len(orcid)-1]
	want := byte('0' + result)
	if result == 10 {
		want = 'X'
	}
	if check != want {
		return fmt.Errorf("%w: ORCID %q fails checksum", ErrInvalidArgument, orcid)
	}
	return nil
}

// stringField reads an optional string-valued field, rejecting any
// non-string value.
func stringField(fields map[string]any, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, key, raw)
	}
	return s, nil
}

// affiliationList accepts a single string, a []string, or a []any of
// strings. Anything else fails construction; affiliations are never
// arbitrary scalar or object types.
func affiliationList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: affiliation element must be a string, got %T", ErrInvalidArgument, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: affiliations must be a string or string list, got %T", ErrInvalidArgument, raw)
	}
}
