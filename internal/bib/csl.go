// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"fmt"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/openpress/bibnorm/pkg/types"
)

// CSLItem represents one bibliographic entry in CSL (Citation Style
// Language) format. Field names follow the CSL-YAML schema so entry
// lists round-trip through Pandoc and reference managers.
type CSLItem struct {
	ID              string    `yaml:"id,omitempty"`
	Type            string    `yaml:"type"`
	Title           string    `yaml:"title,omitempty"`
	Author          []CSLName `yaml:"author,omitempty"`
	Editor          []CSLName `yaml:"editor,omitempty"`
	ContainerTitle  string    `yaml:"container-title,omitempty"`
	CollectionTitle string    `yaml:"collection-title,omitempty"`
	Volume          string    `yaml:"volume,omitempty"`
	Issue           string    `yaml:"issue,omitempty"`
	Page            string    `yaml:"page,omitempty"`
	Issued          *CSLDate  `yaml:"issued,omitempty"`
	DOI             string    `yaml:"DOI,omitempty"`
	ISBN            string    `yaml:"ISBN,omitempty"`
	ISSN            string    `yaml:"ISSN,omitempty"`
	Publisher       string    `yaml:"publisher,omitempty"`
	URL             string    `yaml:"URL,omitempty"`
	Eprint          string    `yaml:"eprint,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the entry list as CSL-YAML to w.
func FormatCSL(entries []types.Bibentry, w io.Writer) error {
	items := make([]CSLItem, len(entries))
	for i, e := range entries {
		items[i] = toCSLItem(e)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// ParseCSL reads a CSL-YAML entry list from r.
func ParseCSL(r io.Reader) ([]types.Bibentry, error) {
	var items []CSLItem
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing CSL-YAML: %w", err)
	}

	entries := make([]types.Bibentry, len(items))
	for i, item := range items {
		entries[i] = fromCSLItem(item)
	}
	return entries, nil
}

func toCSLItem(e types.Bibentry) CSLItem {
	cslType := "article-journal"
	if e.Type == "book" {
		cslType = "book"
	}

	item := CSLItem{
		Type:            cslType,
		Title:           e.Title,
		ContainerTitle:  e.Venue,
		CollectionTitle: e.CollectionTitle,
		Volume:          e.Volume,
		Issue:           e.Issue,
		Page:            e.Page,
		DOI:             e.DOI,
		ISBN:            e.ISBN,
		ISSN:            e.ISSN,
		Publisher:       e.Publisher,
		URL:             e.URL,
		Eprint:          e.Eprint,
	}
	if e.Extra != nil {
		item.ID = e.Extra["label"]
	}
	if item.ID == "" {
		item.ID = e.DOI
	}

	for _, a := range e.Authors {
		item.Author = append(item.Author, toCSLName(a))
	}
	for _, a := range e.Editors {
		item.Editor = append(item.Editor, toCSLName(a))
	}

	if year, err := strconv.Atoi(e.Year); err == nil {
		parts := []int{year}
		if month, err := strconv.Atoi(e.Month); err == nil {
			parts = append(parts, month)
			if day, err := strconv.Atoi(e.Day); err == nil {
				parts = append(parts, day)
			}
		}
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}

	return item
}

func toCSLName(a types.Author) CSLName {
	if a.NameStyle == types.StyleGivenOnly || a.Surname == "" {
		return CSLName{Literal: a.Given}
	}
	return CSLName{Family: a.Surname, Given: a.Given}
}

func fromCSLItem(item CSLItem) types.Bibentry {
	e := types.Bibentry{
		Title:           item.Title,
		Venue:           item.ContainerTitle,
		CollectionTitle: item.CollectionTitle,
		Volume:          item.Volume,
		Issue:           item.Issue,
		Page:            item.Page,
		DOI:             item.DOI,
		ISBN:            item.ISBN,
		ISSN:            item.ISSN,
		Publisher:       item.Publisher,
		URL:             item.URL,
		Eprint:          item.Eprint,
	}
	if item.Type == "book" {
		e.Type = "book"
	}
	if item.ID != "" {
		e.Extra = map[string]string{"label": item.ID}
	}

	for _, n := range item.Author {
		e.Authors = append(e.Authors, fromCSLName(n))
	}
	for _, n := range item.Editor {
		e.Editors = append(e.Editors, fromCSLName(n))
	}

	if item.Issued != nil && len(item.Issued.DateParts) > 0 {
		parts := item.Issued.DateParts[0]
		if len(parts) > 0 {
			e.Year = strconv.Itoa(parts[0])
		}
		if len(parts) > 1 {
			e.Month = strconv.Itoa(parts[1])
		}
		if len(parts) > 2 {
			e.Day = strconv.Itoa(parts[2])
		}
	}

	return e
}

func fromCSLName(n CSLName) types.Author {
	if n.Literal != "" {
		return types.Author{Given: n.Literal, NameStyle: types.StyleGivenOnly}
	}
	return types.Author{Given: n.Given, Surname: n.Family, NameStyle: types.StyleWestern}
}
