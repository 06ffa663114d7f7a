// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/openpress/bibnorm/pkg/types"
)

func TestCSLRoundTrip(t *testing.T) {
	entries := []types.Bibentry{
		{
			Authors: []types.Author{
				{Given: "Jiang", Surname: "Zhang", NameStyle: types.StyleWestern},
				{Given: "Avicenna", NameStyle: types.StyleGivenOnly},
			},
			Editors: []types.Author{{Given: "D.", Surname: "Knuth", NameStyle: types.StyleWestern}},
			Title:   "Quantum algorithms to simulate many-body physics",
			Venue:   "Quantum Inf. Comput.",
			Volume:  "18",
			Issue:   "1-2",
			Page:    "0051",
			Year:    "2018",
			Month:   "2",
			DOI:     "10.26421/QIC18.1-2-4",
			Eprint:  "1711.05395",
			Extra:   map[string]string{"label": "zhang2018"},
		},
		{
			Title:           "Quantum Computation and Quantum Information",
			Type:            "book",
			CollectionTitle: "Cambridge Series",
			Publisher:       "Cambridge University Press",
			Year:            "2010",
			ISBN:            "978-1-107-00217-3",
		},
	}

	var buf bytes.Buffer
	if err := FormatCSL(entries, &buf); err != nil {
		t.Fatalf("FormatCSL() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"container-title:", "DOI:", "date-parts:", "id: zhang2018", "type: book"} {
		if !strings.Contains(out, want) {
			t.Errorf("CSL output missing %q:\n%s", want, out)
		}
	}

	got, err := ParseCSL(&buf)
	if err != nil {
		t.Fatalf("ParseCSL() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ParseCSL() returned %d entries, want 2", len(got))
	}

	first := got[0]
	if first.Title != entries[0].Title || first.Venue != entries[0].Venue ||
		first.Volume != "18" || first.Page != "0051" ||
		first.Year != "2018" || first.Month != "2" ||
		first.DOI != entries[0].DOI || first.Eprint != entries[0].Eprint {
		t.Errorf("first entry did not round-trip: %+v", first)
	}
	if first.Extra["label"] != "zhang2018" {
		t.Errorf("label not carried through ID: %v", first.Extra)
	}
	if len(first.Authors) != 2 || first.Authors[0].Surname != "Zhang" {
		t.Fatalf("Authors = %+v", first.Authors)
	}
	if first.Authors[1].NameStyle != types.StyleGivenOnly || first.Authors[1].Given != "Avicenna" {
		t.Errorf("literal name did not round-trip: %+v", first.Authors[1])
	}
	if len(first.Editors) != 1 || first.Editors[0].Surname != "Knuth" {
		t.Errorf("Editors = %+v", first.Editors)
	}

	second := got[1]
	if second.Type != "book" || second.ISBN != entries[1].ISBN || second.Publisher != entries[1].Publisher {
		t.Errorf("book entry did not round-trip: %+v", second)
	}
	if second.CollectionTitle != "Cambridge Series" {
		t.Errorf("CollectionTitle = %q", second.CollectionTitle)
	}
}

func TestParseCSLEmptyInput(t *testing.T) {
	got, err := ParseCSL(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseCSL(empty) error = %v", err)
	}
	if got != nil {
		t.Errorf("ParseCSL(empty) = %v, want nil", got)
	}
}

func TestParseCSLMalformed(t *testing.T) {
	if _, err := ParseCSL(strings.NewReader("{: not yaml")); err == nil {
		t.Error("ParseCSL() on malformed input succeeded, want error")
	}
}

func TestToCSLItemIDFallsBackToDOI(t *testing.T) {
	item := toCSLItem(types.Bibentry{DOI: "10.1000/xyz"})
	if item.ID != "10.1000/xyz" {
		t.Errorf("ID = %q, want DOI fallback", item.ID)
	}
}
