// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"testing"

	"github.com/openpress/bibnorm/pkg/types"
)

func TestExtractMacroDefinitions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []types.MacroDefinition
	}{
		{
			"newcommand no args",
			`\newcommand{\PRL}{Phys. Rev. Lett.}`,
			[]types.MacroDefinition{{Raw: `\newcommand{\PRL}{Phys. Rev. Lett.}`, Name: "PRL", ArgCount: 0, Replacement: "Phys. Rev. Lett."}},
		},
		{
			"newcommand with arg count",
			`\newcommand{\vol}[1]{Vol. #1}`,
			[]types.MacroDefinition{{Raw: `\newcommand{\vol}[1]{Vol. #1}`, Name: "vol", ArgCount: 1, Replacement: "Vol. #1"}},
		},
		{
			"newcommand with optional default",
			`\newcommand{\greet}[2][Hello]{#1, #2!}`,
			[]types.MacroDefinition{{Raw: `\newcommand{\greet}[2][Hello]{#1, #2!}`, Name: "greet", ArgCount: 2, Replacement: "#1, #2!"}},
		},
		{
			"providecommand",
			`\providecommand{\natexlab}[1]{#1}`,
			[]types.MacroDefinition{{Raw: `\providecommand{\natexlab}[1]{#1}`, Name: "natexlab", ArgCount: 1, Replacement: "#1"}},
		},
		{
			"plain def with parameter text",
			`\def\path#1{#1}`,
			[]types.MacroDefinition{{Raw: `\def\path#1{#1}`, Name: "path", ArgCount: 1, Replacement: "#1"}},
		},
		{
			"starred newcommand",
			`\newcommand*{\PRA}{Phys. Rev. A}`,
			[]types.MacroDefinition{{Raw: `\newcommand*{\PRA}{Phys. Rev. A}`, Name: "PRA", ArgCount: 0, Replacement: "Phys. Rev. A"}},
		},
		{
			"unbraced name",
			`\newcommand\em{}`,
			[]types.MacroDefinition{{Raw: `\newcommand\em{}`, Name: "em", ArgCount: 0, Replacement: ""}},
		},
		{
			"nested braces in replacement",
			`\newcommand{\vol}[1]{\textbf{#1}}`,
			[]types.MacroDefinition{{Raw: `\newcommand{\vol}[1]{\textbf{#1}}`, Name: "vol", ArgCount: 1, Replacement: `\textbf{#1}`}},
		},
		{
			"escaped brace in replacement",
			`\newcommand{\lb}{\{}`,
			[]types.MacroDefinition{{Raw: `\newcommand{\lb}{\{}`, Name: "lb", ArgCount: 0, Replacement: `\{`}},
		},
		{
			"unterminated replacement skipped",
			`\newcommand{\bad}{open{`,
			nil,
		},
		{
			"missing replacement skipped",
			`\newcommand{\bad}`,
			nil,
		},
		{
			"no definitions",
			`Just some prose with a \bibitem{x} reference.`,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMacroDefinitions(tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractMacroDefinitions() returned %d definitions, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("definition %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractMacroDefinitionsRedefinition(t *testing.T) {
	src := `\newcommand{\x}{first}\newcommand{\y}{other}\renewcommand{\x}{second}`
	got := ExtractMacroDefinitions(src)
	if len(got) != 2 {
		t.Fatalf("got %d definitions, want 2", len(got))
	}
	// Order of first occurrence, latest body.
	if got[0].Name != "x" || got[0].Replacement != "second" {
		t.Errorf("got[0] = %+v, want name x replacement second", got[0])
	}
	if got[1].Name != "y" || got[1].Replacement != "other" {
		t.Errorf("got[1] = %+v, want name y replacement other", got[1])
	}
}

func TestRemoveSpecialMacrosToIgnoreInBBL(t *testing.T) {
	defs := []types.MacroDefinition{
		{Name: "natexlab", ArgCount: 1, Replacement: "#1"},
		{Name: "PRL", Replacement: "Phys. Rev. Lett."},
		{Name: "url", ArgCount: 1, Replacement: "#1"},
		{Name: "bibinfo", ArgCount: 2, Replacement: "#2"},
	}
	kept := RemoveSpecialMacrosToIgnoreInBBL(defs)
	if len(kept) != 1 || kept[0].Name != "PRL" {
		t.Fatalf("RemoveSpecialMacrosToIgnoreInBBL() = %+v, want just PRL", kept)
	}
}

func TestExpandLatexMacros(t *testing.T) {
	defs := []types.MacroDefinition{
		{Name: "PRL", ArgCount: 0, Replacement: "Phys. Rev. Lett."},
		{Name: "vol", ArgCount: 1, Replacement: `\textbf{#1}`},
		{Name: "textbf", ArgCount: 1, Replacement: "#1"},
		{Name: "greet", ArgCount: 2, Replacement: "#1, #2!"},
	}
	tests := []struct {
		name string
		text string
		want string
	}{
		{"no invocations", "plain text", "plain text"},
		{"zero-arg keeps following space", `\PRL 79, 325 (1997)`, "Phys. Rev. Lett. 79, 325 (1997)"},
		{"brace-group argument", `\greet{Hi}{World}`, "Hi, World!"},
		{"single-token argument", `\vol 7`, "7"},
		{"multi-byte bare argument", `\vol é`, "é"},
		{"nested expansion to fixed point", `\vol{97}`, "97"},
		{"unknown macro untouched", `\unknown{foo}`, `\unknown{foo}`},
		{"prefix name not confused", `\PRLx stays`, `\PRLx stays`},
		{"escaped char not an invocation", `50\% done`, `50\% done`},
		{"missing arguments left verbatim", `\greet{only-one}`, `\greet{only-one}`},
		{"empty text", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandLatexMacros(defs, tt.text)
			if got != tt.want {
				t.Errorf("ExpandLatexMacros(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Expanding an already-expanded string must return it unchanged.
func TestExpandLatexMacrosIdempotent(t *testing.T) {
	defs := []types.MacroDefinition{
		{Name: "PRL", ArgCount: 0, Replacement: "Phys. Rev. Lett."},
		{Name: "vol", ArgCount: 1, Replacement: `\textbf{#1}`},
		{Name: "textbf", ArgCount: 1, Replacement: "#1"},
		{Name: "loop", ArgCount: 0, Replacement: `see \loop again`},
	}
	texts := []string{
		`\PRL \vol{79}, 325`,
		`\loop forever`,
		`nothing to do here`,
		`\vol{\vol{x}}`,
	}
	for _, text := range texts {
		once := ExpandLatexMacros(defs, text)
		twice := ExpandLatexMacros(defs, once)
		if once != twice {
			t.Errorf("expansion of %q not idempotent: first %q, second %q", text, once, twice)
		}
	}
}

func TestExpandLatexMacrosSelfReference(t *testing.T) {
	defs := []types.MacroDefinition{
		{Name: "loop", ArgCount: 0, Replacement: `\loop`},
	}
	if got := ExpandLatexMacros(defs, `\loop stays`); got != `\loop stays` {
		t.Errorf("self-referential macro expanded: got %q", got)
	}
}

func TestSubstituteParams(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []string
		want     string
	}{
		{"positional", "#1 and #2", []string{"a", "b"}, "a and b"},
		{"repeated parameter", "#1#1", []string{"x"}, "xx"},
		{"double hash is literal", "##1 is #1", []string{"x"}, "#1 is x"},
		{"out-of-range parameter empty", "#1 #3", []string{"a"}, "a "},
		{"trailing hash kept", "end#", nil, "end#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substituteParams(tt.template, tt.args); got != tt.want {
				t.Errorf("substituteParams(%q, %v) = %q, want %q", tt.template, tt.args, got, tt.want)
			}
		})
	}
}
