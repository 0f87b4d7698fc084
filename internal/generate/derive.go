package generate

import (
	"unicode/utf8"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

const (
	minListItems       = 2
	choicesPerQuestion = 4
)

// derive builds the card types that need no LLM call from the topic itself.
func derive(t types.CardType, tp types.Topic, multilineThreshold int) []types.Card {
	switch t {
	case types.CardMultiline:
		if utf8.RuneCountInString(tp.Content) > multilineThreshold {
			return []types.Card{{Type: t, Front: tp.Name, Back: tp.Content}}
		}
	case types.CardListAnswer:
		if len(tp.KeyConcepts) >= minListItems {
			return []types.Card{{
				Type:  t,
				Front: "What are the key concepts of " + tp.Name + "?",
				Items: append([]string(nil), tp.KeyConcepts...),
			}}
		}
	case types.CardMultipleChoice:
		// The first example is the correct option.
		if len(tp.Examples) >= choicesPerQuestion {
			return []types.Card{{
				Type:          t,
				Front:         "Which is an example of " + tp.Name + "?",
				Items:         append([]string(nil), tp.Examples[:choicesPerQuestion]...),
				CorrectChoice: 0,
			}}
		}
	}
	return nil
}
