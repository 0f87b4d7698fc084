// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package remnote serializes flashcards into RemNote's plain-text import
// syntax: it escapes grammar tokens in card text, renders each card type,
// composes cards under topic headings, and validates the result.
package remnote

import (
	"strings"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

const maxHeadingLevel = 6

// Hierarchy is the topic lookup the Formatter needs. Names unknown to the
// hierarchy report ok=false from Depth and "" from Root.
type Hierarchy interface {
	Roots() []string
	Children(name string) []string
	Depth(name string) (int, bool)
	Root(name string) string
}

// Formatter composes rendered cards into one import text.
type Formatter struct {
	// Hierarchy may be nil, in which case every parent is a root topic.
	Hierarchy Hierarchy

	// PreserveHierarchy nests cards under topic headings; otherwise
	// cards are flat with a blank line between root topics.
	PreserveHierarchy bool
}

// Result is the outcome of one formatting pass.
type Result struct {
	Text       string
	Stats      types.FormattingStats
	Errors     []*ContentError
	Validation Report

	// Partial is set when cards were skipped or validation failed.
	Partial bool
}

type renderedCard struct {
	card  types.Card
	block block
}

// FormatCards renders cards and returns only the text.
func FormatCards(cards []types.Card, h Hierarchy, preserveHierarchy bool) string {
	f := Formatter{Hierarchy: h, PreserveHierarchy: preserveHierarchy}
	return f.Format(cards).Text
}

// Format renders, composes, validates, and counts cards. The input slice is
// read only. Cards that fail to render or repeat an earlier front are skipped.
func (f Formatter) Format(cards []types.Card) *Result {
	res := &Result{}

	rendered := make([]renderedCard, 0, len(cards))
	accepted := make([]types.Card, 0, len(cards))
	seen := make(map[string]struct{}, len(cards))
	var duplicates, escaped int

	for _, c := range cards {
		b, err := renderBlock(c)
		if err != nil {
			res.Errors = append(res.Errors, err.(*ContentError))
			continue
		}
		if _, dup := seen[b.front]; dup {
			duplicates++
			continue
		}
		seen[b.front] = struct{}{}
		escaped += b.escaped
		rendered = append(rendered, renderedCard{card: c, block: b})
		accepted = append(accepted, c)
	}

	var lines []string
	if f.PreserveHierarchy {
		lines = f.nested(rendered)
	} else {
		lines = f.flat(rendered)
	}
	res.Text = strings.Join(lines, "\n")

	res.Stats = Collect(accepted)
	res.Stats.Failed = len(res.Errors)
	res.Stats.Duplicates = duplicates
	res.Stats.Escaped = escaped

	res.Validation = Validate(res.Text)
	res.Partial = len(res.Errors) > 0 || !res.Validation.OK()
	return res
}

func (f Formatter) flat(cards []renderedCard) []string {
	var lines []string
	prev := ""
	for i, rc := range cards {
		root := f.rootOf(rc.card.Parent)
		if i > 0 && root != prev {
			lines = append(lines, "")
		}
		prev = root
		lines = rc.block.appendTo(lines, 0)
	}
	return lines
}

func (f Formatter) rootOf(parent string) string {
	if parent == "" || f.Hierarchy == nil {
		return parent
	}
	if r := f.Hierarchy.Root(parent); r != "" {
		return r
	}
	return parent
}

func (f Formatter) known(name string) bool {
	if f.Hierarchy == nil {
		return false
	}
	_, ok := f.Hierarchy.Depth(name)
	return ok
}

func (f Formatter) children(name string) []string {
	if f.Hierarchy == nil {
		return nil
	}
	return f.Hierarchy.Children(name)
}

// nested walks the topic tree pre-order: heading, the topic's own cards in
// input order, then each child. Topics with no cards below them are omitted.
func (f Formatter) nested(cards []renderedCard) []string {
	byTopic := make(map[string][]renderedCard)
	var loose []renderedCard
	var orphans []string

	for _, rc := range cards {
		p := rc.card.Parent
		if p == "" {
			loose = append(loose, rc)
			continue
		}
		if _, seen := byTopic[p]; !seen && !f.known(p) {
			orphans = append(orphans, p)
		}
		byTopic[p] = append(byTopic[p], rc)
	}

	var lines []string
	for _, rc := range loose {
		lines = rc.block.appendTo(lines, 0)
	}

	counts := make(map[string]int)
	var count func(name string) int
	count = func(name string) int {
		if n, ok := counts[name]; ok {
			return n
		}
		n := len(byTopic[name])
		for _, child := range f.children(name) {
			n += count(child)
		}
		counts[name] = n
		return n
	}

	var walk func(name string, depth int)
	walk = func(name string, depth int) {
		if count(name) == 0 {
			return
		}
		lines = append(lines, heading(name, depth))
		for _, rc := range byTopic[name] {
			lines = rc.block.appendUnder(lines, depth)
		}
		for _, child := range f.children(name) {
			walk(child, depth+1)
		}
	}

	if f.Hierarchy != nil {
		for _, root := range f.Hierarchy.Roots() {
			walk(root, 0)
		}
	}
	for _, name := range orphans {
		walk(name, 0)
	}
	return lines
}

// heading renders a topic heading at depth; the markdown level is depth+1.
func heading(name string, depth int) string {
	level := depth + 1
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	return indent(depth) + strings.Repeat("#", level) + " " + Escape(singleLine(name), ReservedTokens)
}
