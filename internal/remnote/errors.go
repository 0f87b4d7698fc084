// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remnote

import (
	"errors"
	"fmt"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

var (
	// ErrContent is wrapped by every ContentError.
	ErrContent = errors.New("invalid card content")

	// ErrFormatValidation is wrapped by every FormatValidationError.
	ErrFormatValidation = errors.New("format validation failed")
)

// ContentError reports a card that cannot be rendered. The card is skipped;
// formatting continues with the rest of the batch.
type ContentError struct {
	Type   types.CardType
	Topic  string
	Front  string
	Reason string
}

func (e *ContentError) Error() string {
	topic := e.Topic
	if topic == "" {
		topic = "(top level)"
	}
	return fmt.Sprintf("%s card in %s: %s", e.Type, topic, e.Reason)
}

func (e *ContentError) Unwrap() error { return ErrContent }

func contentErr(c types.Card, format string, args ...any) *ContentError {
	return &ContentError{
		Type:   c.Type,
		Topic:  c.Parent,
		Front:  c.Front,
		Reason: fmt.Sprintf(format, args...),
	}
}

// FormatValidationError reports one failed check on one output line.
type FormatValidationError struct {
	Check string
	// Line is 1-based.
	Line int
	Text string
}

func (e *FormatValidationError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Check, e.Text)
}

func (e *FormatValidationError) Unwrap() error { return ErrFormatValidation }
