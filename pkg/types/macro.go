// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MacroDefinition is one user-defined LaTeX text-substitution command
// captured from source text. Definitions are produced by extraction and
// consumed immediately by expansion; they are not persisted.
type MacroDefinition struct {
	// Raw is the full matched definition span, including the defining
	// command and the balanced replacement group.
	Raw string `json:"raw" yaml:"raw"`

	// Name is the bare macro identifier, letters only, without backslash.
	Name string `json:"name" yaml:"name"`

	// ArgCount is the declared number of positional parameters (0-9).
	ArgCount int `json:"arg_count" yaml:"arg_count"`

	// Replacement is the substitution template. It may reference the
	// positional parameters as #1..#9 and may contain nested braces.
	Replacement string `json:"replacement" yaml:"replacement"`
}

// RawBibEntry is one parsed bibliography item: the citation label, the
// entry body with macros already expanded, and scalar fields derived
// from the body by pattern matching. Immutable after creation.
type RawBibEntry struct {
	// Label is the \bibitem citation key.
	Label string `json:"label" yaml:"label"`

	// Text is the entry body, whitespace-trimmed and comment-stripped.
	Text string `json:"text" yaml:"text"`

	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Eprint  string `json:"eprint,omitempty" yaml:"eprint,omitempty"`
	ISBN    string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Year    string `json:"year,omitempty" yaml:"year,omitempty"`
	Volume  string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Page    string `json:"page,omitempty" yaml:"page,omitempty"`
}
