// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FormattingStats is an immutable snapshot describing one formatting pass.
// It is rebuilt on every pass and never updated in place.
type FormattingStats struct {
	// Total is the number of cards rendered.
	Total int `json:"total" yaml:"total"`

	ByType  map[CardType]int `json:"by_type" yaml:"by_type"`
	ByTopic map[string]int   `json:"by_topic" yaml:"by_topic"`

	// Topics is the number of distinct parent topics among rendered cards.
	Topics int `json:"topics" yaml:"topics"`

	// AveragePerTopic is Total over Topics for parented cards, 0 when no topics.
	AveragePerTopic float64 `json:"average_per_topic" yaml:"average_per_topic"`

	// Failed counts cards skipped because of a content error.
	Failed int `json:"failed" yaml:"failed"`

	// Duplicates counts cards skipped because their rendered front repeated.
	Duplicates int `json:"duplicates" yaml:"duplicates"`

	// Escaped counts card fields that needed escaping.
	Escaped int `json:"escaped" yaml:"escaped"`

	// Levels is the number of distinct parent values, including the top level.
	Levels int `json:"levels" yaml:"levels"`
}
