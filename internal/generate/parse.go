package generate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/flashcard-engine/internal/prompts"
	"github.com/pdiddy/flashcard-engine/pkg/types"
)

// ErrNoSeparator is returned when a response holds no usable card line.
var ErrNoSeparator = errors.New("no card found in response")

var defaultSeparators = map[types.CardType]string{
	types.CardConcept:    "::",
	types.CardBasic:      ">>",
	types.CardCloze:      "{{",
	types.CardDescriptor: ";;",
}

// listPrefix matches bullets and numbering models put in front of lines.
var listPrefix = regexp.MustCompile(`^(?:[-*•]\s+|\d+[.)]\s+)`)

// parseCards extracts up to p.MaxCards cards of type t from a response.
// Each card is one line; lines without the separator are ignored.
func parseCards(t types.CardType, resp string, p prompts.Prompt) ([]types.Card, error) {
	sep := p.Separator
	if sep == "" {
		sep = defaultSeparators[t]
	}
	limit := p.MaxCards
	if limit <= 0 {
		limit = 1
	}

	var cards []types.Card
	for _, raw := range strings.Split(resp, "\n") {
		if len(cards) >= limit {
			break
		}
		l := cleanLine(raw)
		if l == "" {
			continue
		}

		if t == types.CardCloze {
			if strings.Contains(l, "{{") && strings.Contains(l, "}}") {
				cards = append(cards, types.Card{Type: t, Front: l})
			}
			continue
		}

		front, back, ok := strings.Cut(l, sep)
		front, back = strings.TrimSpace(front), strings.TrimSpace(back)
		if !ok || front == "" || back == "" {
			continue
		}
		cards = append(cards, types.Card{Type: t, Front: front, Back: back})
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s cards need %q", ErrNoSeparator, t, sep)
	}
	return cards, nil
}

// cleanLine trims whitespace, markdown emphasis and list markers.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	s = listPrefix.ReplaceAllString(s, "")
	s = strings.TrimPrefix(s, "**")
	return strings.TrimSpace(s)
}
