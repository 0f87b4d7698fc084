// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics loads topic outlines, validates them, and indexes the
// topic tree by name.
package topics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

// document accepts both a bare outline and one wrapped in the
// ml_system_design root key used by older content files.
type document struct {
	types.Content `yaml:",inline"`
	Legacy        *types.Content `yaml:"ml_system_design"`
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) outline, normalizes it,
// and validates it.
func Load(path string) (*types.Content, error) {
	var content types.Content

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading content: %w", err)
		}
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing content %s: %w", path, err)
		}
		content = doc.Content
		if doc.Legacy != nil {
			content = *doc.Legacy
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &content); err != nil {
			return nil, fmt.Errorf("parsing content %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported content format %q (want .yaml, .yml, or .toml)", ext)
	}

	Normalize(&content)
	if err := Validate(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Normalize trims names and content and fills in the default difficulty.
func Normalize(c *types.Content) {
	c.Metadata.Subject = strings.TrimSpace(c.Metadata.Subject)
	normalizeTopics(c.Topics)
}

func normalizeTopics(ts []types.Topic) {
	for i := range ts {
		t := &ts[i]
		t.Name = strings.TrimSpace(t.Name)
		t.Content = strings.TrimSpace(t.Content)
		t.Difficulty = strings.ToLower(strings.TrimSpace(t.Difficulty))
		if t.Difficulty == "" {
			t.Difficulty = types.DifficultyIntermediate
		}
		normalizeTopics(t.Subtopics)
	}
}
