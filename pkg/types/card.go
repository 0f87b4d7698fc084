// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for flashcard-engine: cards,
// topic content, formatting statistics, and configuration.
package types

import (
	"fmt"
	"strings"
)

// CardType identifies one of the RemNote card forms. The set is closed.
type CardType string

const (
	CardConcept        CardType = "concept"
	CardBasic          CardType = "basic"
	CardCloze          CardType = "cloze"
	CardDescriptor     CardType = "descriptor"
	CardMultiline      CardType = "multiline"
	CardListAnswer     CardType = "list_answer"
	CardMultipleChoice CardType = "multiple_choice"
)

// AllCardTypes returns every card type in canonical order.
func AllCardTypes() []CardType {
	return []CardType{
		CardConcept,
		CardBasic,
		CardCloze,
		CardDescriptor,
		CardMultiline,
		CardListAnswer,
		CardMultipleChoice,
	}
}

// Valid reports whether t is a member of the closed card type set.
func (t CardType) Valid() bool {
	for _, c := range AllCardTypes() {
		if c == t {
			return true
		}
	}
	return false
}

// ParseCardType converts a card type name (case-insensitive) to a CardType.
func ParseCardType(s string) (CardType, error) {
	t := CardType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown card type %q", s)
	}
	return t, nil
}

// Card is a single flashcard prior to serialization.
type Card struct {
	// Type selects the delimiter and whether Back may be empty.
	Type CardType `json:"type" yaml:"type"`

	// Front is the question side. Cloze cards embed {{term}} spans here.
	Front string `json:"front" yaml:"front"`

	// Back is the answer side. Unused by cloze cards.
	Back string `json:"back,omitempty" yaml:"back,omitempty"`

	// Parent is the name of the topic the card belongs to. Empty means the
	// card sits at the top level.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// Tags are carried through unchanged; the import grammar does not render them.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Items holds list answers or multiple-choice options. When empty the
	// renderer derives them from the lines of Back.
	Items []string `json:"items,omitempty" yaml:"items,omitempty"`

	// CorrectChoice indexes the correct option of a multiple-choice card.
	CorrectChoice int `json:"correct_choice,omitempty" yaml:"correct_choice,omitempty"`

	// ExtraDetail is rendered as an Extra Card Detail child line when set.
	ExtraDetail string `json:"extra_detail,omitempty" yaml:"extra_detail,omitempty"`
}

// CardSet is the on-disk form of a list of cards (the --cards-out file).
type CardSet struct {
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Cards   []Card `json:"cards" yaml:"cards"`
}
