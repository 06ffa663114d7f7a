// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex extracts and expands user-defined LaTeX macros and
// converts accent and ligature escape sequences to Unicode. All
// functions are total over their input: malformed or unterminated
// constructs are passed through unchanged rather than raised, so that
// downstream code can surface residual LaTeX as a review warning
// instead of aborting the whole document.
package latex

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/openpress/bibnorm/pkg/types"
)

// defCommandRe matches the head of a macro definition: \newcommand,
// \renewcommand, \providecommand (with optional star) or plain \def.
// Name and argument capture continue from the match end with a
// brace-depth scanner, since replacement bodies nest arbitrarily.
var defCommandRe = regexp.MustCompile(`\\(newcommand|renewcommand|providecommand|def)\*?`)

// maxExpansionPasses bounds macros-referencing-macros expansion so that
// adversarial, deeply self-referential chains terminate.
const maxExpansionPasses = 16

// ExtractMacroDefinitions scans source for macro-definition forms and
// returns one MacroDefinition per macro name, in order of first textual
// occurrence. A later definition of the same name replaces the earlier
// one. Definitions whose replacement cannot be brace-balanced before
// end of input are skipped.
func ExtractMacroDefinitions(source string) []types.MacroDefinition {
	var order []string
	byName := make(map[string]types.MacroDefinition)

	for _, loc := range defCommandRe.FindAllStringSubmatchIndex(source, -1) {
		def, ok := parseDefinition(source, loc[0], loc[1], source[loc[2]:loc[3]] == "def")
		if !ok {
			continue
		}
		if _, seen := byName[def.Name]; !seen {
			order = append(order, def.Name)
		}
		byName[def.Name] = def
	}

	defs := make([]types.MacroDefinition, 0, len(order))
	for _, name := range order {
		defs = append(defs, byName[name])
	}
	return defs
}

// parseDefinition parses one definition starting at start, whose
// defining command ends at pos. isDef selects plain-TeX \def syntax
// (parameter text instead of a bracketed count).
func parseDefinition(source string, start, pos int, isDef bool) (types.MacroDefinition, bool) {
	name, pos, ok := readMacroName(source, pos)
	if !ok {
		return types.MacroDefinition{}, false
	}

	argCount := 0
	if isDef {
		// Parameter text: everything up to the opening brace; the number
		// of # markers is the parameter count.
		braceAt := strings.IndexByte(source[pos:], '{')
		if braceAt < 0 {
			return types.MacroDefinition{}, false
		}
		argCount = strings.Count(source[pos:pos+braceAt], "#")
		pos += braceAt
	} else {
		// Optional [n] argument count, then an optional [default] for the
		// first argument, which this engine skips over.
		argCount, pos = readArgCount(source, pos)
		pos = skipOptionalGroup(source, pos)
		pos = skipSpaces(source, pos)
	}

	if pos >= len(source) || source[pos] != '{' {
		return types.MacroDefinition{}, false
	}
	replacement, end, ok := readBraceGroup(source, pos)
	if !ok {
		return types.MacroDefinition{}, false
	}

	if argCount > 9 {
		return types.MacroDefinition{}, false
	}

	return types.MacroDefinition{
		Raw:         source[start:end],
		Name:        name,
		ArgCount:    argCount,
		Replacement: replacement,
	}, true
}

// readMacroName reads the defined macro's name after the defining
// command: either \name or {\name}. Names are letters only.
func readMacroName(source string, pos int) (string, int, bool) {
	pos = skipSpaces(source, pos)
	braced := false
	if pos < len(source) && source[pos] == '{' {
		braced = true
		pos = skipSpaces(source, pos+1)
	}
	if pos >= len(source) || source[pos] != '\\' {
		return "", pos, false
	}
	pos++
	nameStart := pos
	for pos < len(source) && isLetter(source[pos]) {
		pos++
	}
	if pos == nameStart {
		return "", pos, false
	}
	name := source[nameStart:pos]
	if braced {
		pos = skipSpaces(source, pos)
		if pos >= len(source) || source[pos] != '}' {
			return "", pos, false
		}
		pos++
	}
	return name, pos, true
}

// readArgCount reads an optional [n] group and returns the declared
// parameter count (0 if absent).
func readArgCount(source string, pos int) (int, int) {
	pos = skipSpaces(source, pos)
	if pos >= len(source) || source[pos] != '[' {
		return 0, pos
	}
	end := strings.IndexByte(source[pos:], ']')
	if end < 0 {
		return 0, pos
	}
	inner := strings.TrimSpace(source[pos+1 : pos+end])
	if len(inner) != 1 || inner[0] < '0' || inner[0] > '9' {
		return 0, pos
	}
	return int(inner[0] - '0'), pos + end + 1
}

// skipOptionalGroup skips a [default] group if present.
func skipOptionalGroup(source string, pos int) int {
	p := skipSpaces(source, pos)
	if p >= len(source) || source[p] != '[' {
		return pos
	}
	end := strings.IndexByte(source[p:], ']')
	if end < 0 {
		return pos
	}
	return p + end + 1
}

// readBraceGroup reads a balanced {...} group starting at pos (which
// must point at the opening brace). It returns the group content
// without the outer braces and the index just past the closing brace.
// Escaped braces (\{ and \}) do not affect the depth.
func readBraceGroup(source string, pos int) (string, int, bool) {
	depth := 0
	i := pos
	for i < len(source) {
		switch source[i] {
		case '\\':
			i += 2
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return source[pos+1 : i], i + 1, true
			}
		}
		i++
	}
	return "", pos, false
}

// bblIgnoredMacros lists bibliography-formatting directives that BibTeX
// styles commonly redefine. Expanding them would inject formatting
// noise into plain citation text, so they are dropped from the
// definition set before expansion.
var bblIgnoredMacros = map[string]bool{
	"newblock":      true,
	"bibinfo":       true,
	"bibnamefont":   true,
	"bibfnamefont":  true,
	"citenamefont":  true,
	"natexlab":      true,
	"url":           true,
	"urlprefix":     true,
	"URL":           true,
	"doibase":       true,
	"eprint":        true,
	"path":          true,
	"penalty":       true,
	"href":          true,
	"BibitemOpen":   true,
	"BibitemShut":   true,
	"bibAnnote":     true,
	"bibAnnoteFile": true,
	"eatspace":      true,
}

// RemoveSpecialMacrosToIgnoreInBBL filters out definitions whose names
// appear in the fixed ignore table of bibliography-formatting
// directives. Filtering is by exact name match.
func RemoveSpecialMacrosToIgnoreInBBL(defs []types.MacroDefinition) []types.MacroDefinition {
	kept := make([]types.MacroDefinition, 0, len(defs))
	for _, d := range defs {
		if bblIgnoredMacros[d.Name] {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// ExpandLatexMacros substitutes every invocation of the given macros in
// text, repeatedly, until a fixed point or the pass bound is reached.
// Unknown macros are left untouched. Expansion is idempotent: applying
// it to an already-expanded string returns the string unchanged, which
// the surrounding system relies on when it re-expands repeatedly.
func ExpandLatexMacros(defs []types.MacroDefinition, text string) string {
	byName := make(map[string]types.MacroDefinition, len(defs))
	for _, d := range defs {
		// Directly self-referential macros never reach a fixed point;
		// leaving them unexpanded keeps expansion idempotent.
		if invokesMacro(d.Replacement, d.Name) {
			continue
		}
		byName[d.Name] = d
	}
	if len(byName) == 0 {
		return text
	}

	for pass := 0; pass < maxExpansionPasses; pass++ {
		expanded := expandOnce(byName, text)
		if expanded == text {
			return text
		}
		text = expanded
	}
	return text
}

// invokesMacro reports whether template contains an invocation of
// \name (not merely a longer macro sharing the prefix).
func invokesMacro(template, name string) bool {
	for i := 0; i+1+len(name) <= len(template); i++ {
		if template[i] != '\\' || template[i+1:i+1+len(name)] != name {
			continue
		}
		after := i + 1 + len(name)
		if after >= len(template) || !isLetter(template[after]) {
			return true
		}
	}
	return false
}

// expandOnce performs a single left-to-right substitution pass.
func expandOnce(byName map[string]types.MacroDefinition, text string) string {
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		if text[i] != '\\' {
			b.WriteByte(text[i])
			i++
			continue
		}

		name, nameEnd := readControlWord(text, i)
		def, known := byName[name]
		if name == "" || !known {
			// Not an invocation of ours; copy the backslash (and the
			// escaped character, so \{ never opens an argument group).
			b.WriteByte(text[i])
			i++
			if name == "" && i < len(text) {
				b.WriteByte(text[i])
				i++
			} else {
				b.WriteString(name)
				i = nameEnd
			}
			continue
		}

		args, argsEnd, ok := readArguments(text, nameEnd, def.ArgCount)
		if !ok {
			// Too few arguments before end of input; leave verbatim.
			b.WriteString(text[i:nameEnd])
			i = nameEnd
			continue
		}
		b.WriteString(substituteParams(def.Replacement, args))
		i = argsEnd
	}
	return b.String()
}

// readControlWord reads the letters following a backslash at pos.
func readControlWord(text string, pos int) (string, int) {
	i := pos + 1
	for i < len(text) && isLetter(text[i]) {
		i++
	}
	return text[pos+1 : i], i
}

// readArguments captures count arguments after a macro invocation.
// Each argument is a brace group or, per LaTeX's grouping rule, the
// single token following optional whitespace. Zero-argument macros
// leave the following whitespace in place: "\PRL 79, 325" must expand
// to "Phys. Rev. Lett. 79, 325", not glue the volume to the name.
func readArguments(text string, pos int, count int) ([]string, int, bool) {
	if count == 0 {
		return nil, pos, true
	}

	args := make([]string, 0, count)
	for k := 0; k < count; k++ {
		pos = skipSpaces(text, pos)
		if pos >= len(text) {
			return nil, pos, false
		}
		switch {
		case text[pos] == '{':
			arg, end, ok := readBraceGroup(text, pos)
			if !ok {
				return nil, pos, false
			}
			args = append(args, arg)
			pos = end
		case text[pos] == '\\':
			word, end := readControlWord(text, pos)
			if word == "" {
				// Escaped single character, e.g. \%.
				if pos+1 >= len(text) {
					return nil, pos, false
				}
				end = pos + 2
			}
			args = append(args, text[pos:end])
			pos = end
		default:
			// A bare token is one rune, not one byte.
			_, size := utf8.DecodeRuneInString(text[pos:])
			args = append(args, text[pos:pos+size])
			pos += size
		}
	}
	return args, pos, true
}

// substituteParams replaces #1..#9 in template with the captured
// arguments. A ## pair collapses to a literal #.
func substituteParams(template string, args []string) string {
	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); i++ {
		if template[i] != '#' || i+1 >= len(template) {
			b.WriteByte(template[i])
			continue
		}
		next := template[i+1]
		switch {
		case next == '#':
			b.WriteByte('#')
			i++
		case next >= '1' && next <= '9':
			k := int(next - '1')
			if k < len(args) {
				b.WriteString(args[k])
			}
			i++
		default:
			b.WriteByte('#')
		}
	}
	return b.String()
}

func skipSpaces(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\n' || s[pos] == '\r') {
		pos++
	}
	return pos
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
