// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// accentMarks maps LaTeX accent commands to the combining mark they
// place over the following letter. Symbol-named commands (\' \` \" …)
// attach directly; letter-named commands (\v \c …) need a brace or
// space boundary before the letter so longer macro names never match.
var accentMarks = map[string]rune{
	"'": '́', // acute
	"`": '̀', // grave
	"\"": '̈', // diaeresis
	"^": '̂', // circumflex
	"~": '̃', // tilde
	"=": '̄', // macron
	".": '̇', // dot above
	"v": '̌', // caron
	"u": '̆', // breve
	"c": '̧', // cedilla
	"H": '̋', // double acute
	"k": '̨', // ogonek
	"r": '̊', // ring above
	"b": '̱', // macron below
	"d": '̣', // dot below
}

// ligatures maps letter-named special-character macros to their Unicode
// equivalents. These require a following non-letter boundary, otherwise
// \ssomething would be mangled.
var ligatures = map[string]string{
	"ss": "ß",
	"o":  "ø",
	"O":  "Ø",
	"ae": "æ",
	"AE": "Æ",
	"oe": "œ",
	"OE": "Œ",
	"aa": "å",
	"AA": "Å",
	"l":  "ł",
	"L":  "Ł",
	"i":  "ı",
	"j":  "ȷ",
}

// LatexToUTF8OutsideMathMode replaces the fixed table of LaTeX accent,
// diacritic, and ligature sequences with precomposed Unicode, but only
// outside math-mode spans. A $ toggles math mode, $$ toggles display
// math; both count as math here and their contents are returned
// byte-for-byte unchanged. inMath gives the mode at the start of text.
//
// Sequences that do not match a recognized following-letter shape are
// left verbatim, backslash included, so the caller can detect leftover
// unexpandable LaTeX afterwards.
func LatexToUTF8OutsideMathMode(text string, inMath bool) string {
	var b strings.Builder
	b.Grow(len(text))

	display := false
	i := 0
	for i < len(text) {
		c := text[i]

		if c == '$' {
			if i+1 < len(text) && text[i+1] == '$' {
				b.WriteString("$$")
				i += 2
				if inMath && display {
					inMath, display = false, false
				} else if !inMath {
					inMath, display = true, true
				} else {
					// $$ inside inline math: treat as two toggles.
					display = false
				}
				continue
			}
			b.WriteByte('$')
			i++
			inMath = !inMath
			display = false
			continue
		}

		// BibTeX wraps accents in protection braces: {\"u}. When the
		// group holds exactly one convertible sequence, the braces are
		// redundant and are dropped with it.
		if !inMath && c == '{' && i+1 < len(text) && text[i+1] == '\\' {
			if replaced, next, ok := convertEscape(text, i+1); ok && next < len(text) && text[next] == '}' {
				b.WriteString(replaced)
				i = next + 1
				continue
			}
		}

		if inMath || c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}

		if replaced, next, ok := convertEscape(text, i); ok {
			b.WriteString(replaced)
			i = next
			continue
		}

		// Unrecognized sequence: copy the backslash and its next byte so
		// escaped characters like \$ and \% never re-trigger scanning.
		b.WriteByte('\\')
		i++
		if i < len(text) {
			b.WriteByte(text[i])
			i++
		}
	}
	return b.String()
}

// convertEscape tries to convert the escape sequence starting at the
// backslash at position pos. It returns the Unicode replacement and the
// position just past the consumed sequence.
func convertEscape(text string, pos int) (string, int, bool) {
	i := pos + 1
	if i >= len(text) {
		return "", pos, false
	}

	// Symbol-named accent: \'e, \' e, \'{e}, \'{\e}.
	if mark, ok := accentMarks[string(text[i])]; ok && !isLetter(text[i]) {
		if letter, next, ok := readAccentTarget(text, i+1, false); ok {
			return compose(letter, mark), next, true
		}
		return "", pos, false
	}

	// Letter-named command: read the full control word.
	word, wordEnd := readControlWord(text, pos)
	if word == "" {
		return "", pos, false
	}

	if mark, ok := accentMarks[word]; ok {
		// Letter-named accents need a brace group or whitespace before
		// the letter; \vs is a different macro, not \v applied to s.
		if letter, next, ok := readAccentTarget(text, wordEnd, true); ok {
			return compose(letter, mark), next, true
		}
		return "", pos, false
	}

	if lig, ok := ligatures[word]; ok {
		return finishLigature(text, wordEnd, lig)
	}

	return "", pos, false
}

// readAccentTarget reads the letter an accent applies to: a bare
// character, whitespace then a character, or a brace-delimited group
// optionally wrapping a redundant backslash before the letter.
// needBoundary forbids the bare-character shape (used for letter-named
// accent commands).
func readAccentTarget(text string, pos int, needBoundary bool) (byte, int, bool) {
	i := pos
	sawSpace := false
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
		sawSpace = true
	}
	if i >= len(text) {
		return 0, pos, false
	}

	if text[i] == '{' {
		j := i + 1
		if j < len(text) && text[j] == '\\' {
			j++
		}
		if j+1 < len(text) && isLetter(text[j]) && text[j+1] == '}' {
			return text[j], j + 2, true
		}
		return 0, pos, false
	}

	if needBoundary && !sawSpace {
		return 0, pos, false
	}

	j := i
	if text[j] == '\\' {
		j++
	}
	if j < len(text) && isLetter(text[j]) {
		// A bare target must be a single letter, not the start of a
		// longer control word (\'\ae stays verbatim).
		if text[j-1] == '\\' && j+1 < len(text) && isLetter(text[j+1]) {
			return 0, pos, false
		}
		return text[j], j + 1, true
	}
	return 0, pos, false
}

// compose produces the precomposed form of letter + combining mark.
func compose(letter byte, mark rune) string {
	return norm.NFC.String(string(rune(letter)) + string(mark))
}

// finishLigature completes a ligature match at the macro-name boundary.
// A following empty group or single space is consumed, as TeX would; a
// following letter means the name was a prefix of a longer macro and
// the sequence is left verbatim.
func finishLigature(text string, pos int, lig string) (string, int, bool) {
	if pos < len(text) && isLetter(text[pos]) {
		return "", pos, false
	}
	if pos+1 < len(text) && text[pos] == '{' && text[pos+1] == '}' {
		return lig, pos + 2, true
	}
	if pos < len(text) && text[pos] == ' ' {
		return lig, pos + 1, true
	}
	return lig, pos, true
}

// ContainsStrayBackslashOutsideMath reports whether text still contains
// a backslash outside a math-mode span. After full macro expansion and
// accent conversion this indicates either an unexpanded custom command,
// which callers surface as a review warning, or a parser defect.
func ContainsStrayBackslashOutsideMath(text string) bool {
	inMath := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '$':
			if i+1 < len(text) && text[i+1] == '$' {
				i++
			}
			inMath = !inMath
		case '\\':
			if !inMath {
				return true
			}
			// Skip the escaped character inside math.
			i++
		}
	}
	return false
}
