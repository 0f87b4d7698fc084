// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remnote

import "strings"

// Grammar tokens of the RemNote import syntax.
const (
	SepConcept    = "::"
	SepBasic      = ">>"
	SepDescriptor = ";;"
	SepMultiline  = ":::"
	ClozeOpen     = "{{"
	ClozeClose    = "}}"
	RefOpen       = "#[["
	RefClose      = "]]"

	escapeMarker = '\\'
)

// ReservedTokens is the full set of delimiters escaped in card text.
var ReservedTokens = []string{RefOpen, SepConcept, SepBasic, SepDescriptor, ClozeOpen, ClozeClose, RefClose}

// clozeTokens is ReservedTokens minus the cloze braces, used for cloze fronts.
var clozeTokens = []string{RefOpen, SepConcept, SepBasic, SepDescriptor, RefClose}

// scanTokens is what the validator looks for; ":::" must precede "::".
var scanTokens = []string{SepMultiline, RefOpen, SepConcept, SepBasic, SepDescriptor, ClozeOpen, ClozeClose, RefClose}

// isReservedByte reports whether b can appear in a reserved token.
func isReservedByte(b byte) bool {
	switch b {
	case ':', '>', ';', '{', '}', '#', '[', ']':
		return true
	}
	return false
}

// Escape puts a backslash before every character of each occurrence of a
// token from delims. A backslash already followed by a reserved character is
// an existing escape and is copied through, so Escape is idempotent. Bytes
// outside the tokens are never touched.
func Escape(text string, delims []string) string {
	s, _ := escape(text, delims)
	return s
}

func escape(text string, delims []string) (string, bool) {
	if text == "" {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(text))
	changed := false

	// All tokens are ASCII, so byte scanning never splits a UTF-8 sequence.
	for i := 0; i < len(text); {
		c := text[i]
		if c == escapeMarker && i+1 < len(text) && isReservedByte(text[i+1]) {
			b.WriteByte(c)
			b.WriteByte(text[i+1])
			i += 2
			continue
		}
		if tok := longestToken(text[i:], delims); tok != "" {
			for j := 0; j < len(tok); j++ {
				b.WriteByte(escapeMarker)
				b.WriteByte(tok[j])
			}
			i += len(tok)
			changed = true
			continue
		}
		b.WriteByte(c)
		i++
	}

	return b.String(), changed
}

// longestToken returns the longest token in toks that prefixes s.
func longestToken(s string, toks []string) string {
	best := ""
	for _, t := range toks {
		if len(t) > len(best) && strings.HasPrefix(s, t) {
			best = t
		}
	}
	return best
}

// tokenAt is an unescaped token occurrence within a line.
type tokenAt struct {
	tok string
	pos int
}

// findTokens lists the unescaped grammar tokens in s, left to right.
func findTokens(s string) []tokenAt {
	var out []tokenAt
	for i := 0; i < len(s); {
		if s[i] == escapeMarker && i+1 < len(s) && isReservedByte(s[i+1]) {
			i += 2
			continue
		}
		if tok := longestToken(s[i:], scanTokens); tok != "" {
			out = append(out, tokenAt{tok: tok, pos: i})
			i += len(tok)
			continue
		}
		i++
	}
	return out
}
