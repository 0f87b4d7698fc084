// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remnote

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

const (
	indentUnit = "    "

	// ExtraDetailMarker introduces a RemNote Extra Card Detail child line.
	ExtraDetailMarker = "#[[Extra Card Detail]]"

	multipleChoiceOptions = 4
)

var (
	newlines      = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	paragraphSep  = regexp.MustCompile(`\n[ \t]*\n`)
	itemMarker    = regexp.MustCompile(`^(?:[-*•]|\d+[.)]|[A-Da-d]\))\s+`)
	choiceLetters = []string{"A", "B", "C", "D"}
)

// line is one rendered line with its depth relative to the card.
type line struct {
	depth int
	text  string
}

// block is the rendered form of one card. offset is the extra depth the
// card takes under a topic heading; descriptors sit one level under it.
type block struct {
	front   string
	offset  int
	lines   []line
	escaped int
}

// appendTo writes the block's lines into out starting at depth.
func (b block) appendTo(out []string, depth int) []string {
	for _, l := range b.lines {
		out = append(out, indent(depth+l.depth)+l.text)
	}
	return out
}

// appendUnder writes the block below a topic heading at depth.
func (b block) appendUnder(out []string, depth int) []string {
	return b.appendTo(out, depth+b.offset)
}

func indent(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

// Render returns the lines of a single card. Child lines (multiline
// paragraphs, list items, choices, extra detail) carry one level of
// indentation; placement under a topic is left to the Formatter.
func Render(c types.Card) ([]string, error) {
	b, err := renderBlock(c)
	if err != nil {
		return nil, err
	}
	return b.appendTo(nil, 0), nil
}

func renderBlock(c types.Card) (block, error) {
	front := singleLine(c.Front)
	if front == "" {
		return block{}, contentErr(c, "front is empty")
	}

	var b block
	esc := func(s string, delims []string) string {
		out, changed := escape(s, delims)
		if changed {
			b.escaped++
		}
		return out
	}
	// escLine is esc for text that opens a line.
	escLine := func(s string, delims []string) string {
		out, changed := escape(s, delims)
		out, hashed := escapeLeadingHash(out)
		if changed || hashed {
			b.escaped++
		}
		return out
	}

	switch c.Type {
	case types.CardConcept, types.CardBasic, types.CardDescriptor:
		back := singleLine(c.Back)
		if back == "" {
			return block{}, contentErr(c, "back is empty")
		}
		b.front = escLine(front, ReservedTokens)
		b.lines = []line{{text: b.front + " " + separator(c.Type) + " " + esc(back, ReservedTokens)}}
		if c.Type == types.CardDescriptor {
			b.offset = 1
		}

	case types.CardCloze:
		if reason := checkCloze(front); reason != "" {
			return block{}, contentErr(c, "%s", reason)
		}
		b.front = escLine(front, clozeTokens)
		b.lines = []line{{text: b.front}}

	case types.CardMultiline:
		paras := paragraphs(c.Back)
		if len(paras) == 0 {
			return block{}, contentErr(c, "back is empty")
		}
		b.front = escLine(front, ReservedTokens)
		b.lines = append(b.lines, line{text: b.front + " " + SepMultiline})
		for _, p := range paras {
			b.lines = append(b.lines, line{depth: 1, text: escLine(p, ReservedTokens)})
		}

	case types.CardListAnswer:
		items := cardItems(c)
		if len(items) == 0 {
			return block{}, contentErr(c, "list answer has no items")
		}
		b.front = escLine(front, ReservedTokens)
		b.lines = append(b.lines, line{text: b.front + " " + SepBasic})
		for i, item := range items {
			b.lines = append(b.lines, line{depth: 1, text: strconv.Itoa(i+1) + ". " + esc(item, ReservedTokens)})
		}

	case types.CardMultipleChoice:
		choices := cardItems(c)
		if len(choices) != multipleChoiceOptions {
			return block{}, contentErr(c, "multiple choice needs %d choices, got %d", multipleChoiceOptions, len(choices))
		}
		if c.CorrectChoice < 0 || c.CorrectChoice >= len(choices) {
			return block{}, contentErr(c, "correct choice %d out of range", c.CorrectChoice)
		}
		b.front = escLine(front, ReservedTokens)
		b.lines = append(b.lines, line{text: b.front + " " + SepBasic})
		for i, choice := range correctFirst(choices, c.CorrectChoice) {
			b.lines = append(b.lines, line{depth: 1, text: choiceLetters[i] + ") " + esc(choice, ReservedTokens)})
		}

	default:
		return block{}, contentErr(c, "unknown card type %q", string(c.Type))
	}

	if detail := singleLine(c.ExtraDetail); detail != "" {
		b.lines = append(b.lines, line{depth: 1, text: ExtraDetailMarker + " " + esc(detail, ReservedTokens)})
	}

	return b, nil
}

// escapeLeadingHash escapes a '#' that starts s, which RemNote would read
// as a heading or tag when it opens a line.
func escapeLeadingHash(s string) (string, bool) {
	if !strings.HasPrefix(s, "#") {
		return s, false
	}
	return string(escapeMarker) + s, true
}

func separator(t types.CardType) string {
	switch t {
	case types.CardConcept:
		return SepConcept
	case types.CardDescriptor:
		return SepDescriptor
	default:
		return SepBasic
	}
}

// singleLine folds line breaks into spaces and trims the result.
func singleLine(s string) string {
	return strings.TrimSpace(newlines.Replace(s))
}

// paragraphs splits s on blank lines; lines inside a paragraph are joined.
func paragraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, p := range paragraphSep.Split(s, -1) {
		if p = singleLine(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// cardItems returns the card's Items, or the non-empty lines of Back with
// any list marker stripped.
func cardItems(c types.Card) []string {
	src := c.Items
	if len(src) == 0 {
		src = strings.Split(strings.ReplaceAll(c.Back, "\r\n", "\n"), "\n")
	}
	var out []string
	for _, item := range src {
		item = singleLine(item)
		if len(c.Items) == 0 {
			item = itemMarker.ReplaceAllString(item, "")
		}
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// correctFirst moves choices[correct] to the front, keeping the others in order.
func correctFirst(choices []string, correct int) []string {
	out := make([]string, 0, len(choices))
	out = append(out, choices[correct])
	for i, c := range choices {
		if i != correct {
			out = append(out, c)
		}
	}
	return out
}

// checkCloze returns a reason when front lacks well-formed cloze spans.
func checkCloze(front string) string {
	open := -1
	spans := 0
	for _, t := range findTokens(front) {
		switch t.tok {
		case ClozeOpen:
			if open >= 0 {
				return "nested cloze span"
			}
			open = t.pos
		case ClozeClose:
			if open < 0 {
				return "cloze close without open"
			}
			if strings.TrimSpace(front[open+len(ClozeOpen):t.pos]) == "" {
				return "empty cloze span"
			}
			open = -1
			spans++
		}
	}
	if open >= 0 {
		return "unclosed cloze span"
	}
	if spans == 0 {
		return "no cloze span"
	}
	return ""
}
