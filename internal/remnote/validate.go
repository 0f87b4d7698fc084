// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remnote

import (
	"regexp"
	"strings"
)

// Names of the checks reported by Validate.
const (
	CheckDelimitersBalanced    = "delimiters_balanced"
	CheckNoUnescapedReserved   = "no_unescaped_reserved_tokens"
	CheckIndentationConsistent = "indentation_consistent"
)

var headingLine = regexp.MustCompile(`^#{1,6} `)

// Report is the outcome of Validate.
type Report struct {
	Checks map[string]bool
	Issues []*FormatValidationError
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	for _, ok := range r.Checks {
		if !ok {
			return false
		}
	}
	return true
}

// Failed returns the names of failed checks in fixed order.
func (r Report) Failed() []string {
	var out []string
	for _, name := range CheckNames() {
		if !r.Checks[name] {
			out = append(out, name)
		}
	}
	return out
}

// CheckNames lists the checks in the order they are reported.
func CheckNames() []string {
	return []string{CheckDelimitersBalanced, CheckNoUnescapedReserved, CheckIndentationConsistent}
}

// Validate checks RemNote import text line by line. It never fails; every
// problem is recorded as an issue against the check it breaks.
func Validate(text string) Report {
	r := Report{Checks: make(map[string]bool)}
	for _, name := range CheckNames() {
		r.Checks[name] = true
	}
	if text == "" {
		return r
	}

	fail := func(check string, n int, l string) {
		r.Checks[check] = false
		r.Issues = append(r.Issues, &FormatValidationError{Check: check, Line: n, Text: l})
	}

	// The first line may sit at depth 0 or 1; headings start at depth 0.
	prevDepth, headingDepth := 0, -1
	for i, raw := range strings.Split(text, "\n") {
		n := i + 1
		if strings.TrimSpace(raw) == "" {
			continue
		}

		body := strings.TrimLeft(raw, " ")
		lead := len(raw) - len(body)
		depth := lead / len(indentUnit)
		heading := headingLine.MatchString(body)

		switch {
		case lead%len(indentUnit) != 0 || strings.HasPrefix(body, "\t"):
			fail(CheckIndentationConsistent, n, raw)
		case depth > prevDepth+1:
			fail(CheckIndentationConsistent, n, raw)
		case heading && depth > headingDepth+1:
			fail(CheckIndentationConsistent, n, raw)
		}
		prevDepth = depth
		if heading {
			headingDepth = depth
		}

		if !balancedCloze(body) {
			fail(CheckDelimitersBalanced, n, raw)
		}
		if !cleanLine(body, heading) {
			fail(CheckNoUnescapedReserved, n, raw)
		}
	}

	return r
}

// balancedCloze reports whether every unescaped {{ closes on the same line
// without nesting.
func balancedCloze(body string) bool {
	open := false
	for _, t := range findTokens(body) {
		switch t.tok {
		case ClozeOpen:
			if open {
				return false
			}
			open = true
		case ClozeClose:
			if !open {
				return false
			}
			open = false
		}
	}
	return !open
}

// cleanLine reports whether the only unescaped tokens in body are the ones
// the grammar places there.
func cleanLine(body string, heading bool) bool {
	if heading {
		return len(findTokens(strings.TrimLeft(body, "#"))) == 0
	}
	if strings.HasPrefix(body, ExtraDetailMarker) {
		return len(findTokens(body[len(ExtraDetailMarker):])) == 0
	}

	var sep *tokenAt
	cloze := false
	for _, t := range findTokens(body) {
		switch t.tok {
		case RefOpen, RefClose:
			return false
		case ClozeOpen, ClozeClose:
			cloze = true
		default:
			if sep != nil {
				return false
			}
			t := t
			sep = &t
		}
	}
	if sep == nil {
		return true
	}
	if cloze || sep.pos == 0 || body[sep.pos-1] != ' ' {
		return false
	}

	end := sep.pos + len(sep.tok)
	atEnd := end == len(body)
	switch sep.tok {
	case SepMultiline:
		return atEnd
	case SepBasic:
		return atEnd || body[end] == ' '
	default:
		return !atEnd && body[end] == ' '
	}
}
