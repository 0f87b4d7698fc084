// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

// ErrInvalidContent is wrapped by every content validation failure.
var ErrInvalidContent = errors.New("invalid content")

const minContentLength = 10

// Validate checks metadata and every topic in the tree. Topic names must
// be unique across the whole outline.
func Validate(c *types.Content) error {
	if err := validation.ValidateStruct(&c.Metadata,
		validation.Field(&c.Metadata.Subject, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: metadata: %v", ErrInvalidContent, err)
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("%w: no topics", ErrInvalidContent)
	}

	seen := make(map[string]string)
	return validateTopics(c.Topics, "topics", seen)
}

func validateTopics(ts []types.Topic, path string, seen map[string]string) error {
	for i := range ts {
		t := &ts[i]
		p := fmt.Sprintf("%s[%d]", path, i)

		err := validation.ValidateStruct(t,
			validation.Field(&t.Name, validation.Required),
			validation.Field(&t.Content, validation.Required, validation.RuneLength(minContentLength, 0)),
			validation.Field(&t.Difficulty, validation.In(
				types.DifficultyBeginner,
				types.DifficultyIntermediate,
				types.DifficultyAdvanced,
			)),
		)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidContent, p, err)
		}

		if prev, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: %s: duplicate topic name %q (first at %s)", ErrInvalidContent, p, t.Name, prev)
		}
		seen[t.Name] = p

		if err := validateTopics(t.Subtopics, p+".subtopics", seen); err != nil {
			return err
		}
	}
	return nil
}
