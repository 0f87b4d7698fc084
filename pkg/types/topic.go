// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Difficulty levels accepted on a topic.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Content is a parsed topic outline file.
type Content struct {
	Metadata Metadata `json:"metadata" yaml:"metadata" toml:"metadata"`
	Topics   []Topic  `json:"topics" yaml:"topics" toml:"topics"`
}

// Metadata describes the subject of a content file.
type Metadata struct {
	// Subject is required; it names the deck.
	Subject     string `json:"subject" yaml:"subject" toml:"subject"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty" toml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty" toml:"version"`
}

// Topic is one node of the outline. Names are unique across the whole tree.
type Topic struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Content     string   `json:"content" yaml:"content" toml:"content"`
	Subtopics   []Topic  `json:"subtopics,omitempty" yaml:"subtopics,omitempty" toml:"subtopics"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty" toml:"examples"`
	KeyConcepts []string `json:"key_concepts,omitempty" yaml:"key_concepts,omitempty" toml:"key_concepts"`
	Difficulty  string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty" toml:"difficulty"`
}
