// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

func testData() Data {
	return Data{
		Subject:     "System Design",
		Topic:       "Consistent Hashing",
		Parent:      "Partitioning",
		Content:     "Maps keys and nodes onto a ring.",
		Difficulty:  "intermediate",
		KeyConcepts: []string{"ring", "virtual nodes"},
		Examples:    []string{"Dynamo", "Cassandra"},
	}
}

func TestNew_EmbeddedDefaults(t *testing.T) {
	l, err := New("")
	require.NoError(t, err)
	assert.Equal(t, []types.CardType{
		types.CardConcept, types.CardBasic, types.CardCloze, types.CardDescriptor,
	}, l.Types())
	assert.True(t, l.Has(types.CardBasic))
	assert.False(t, l.Has(types.CardMultiline))
	assert.Equal(t, 3, l.MaxCards(types.CardBasic))
	assert.Zero(t, l.MaxCards(types.CardMultiline))
}

func TestRender_Defaults(t *testing.T) {
	l, err := New("")
	require.NoError(t, err)

	tests := []struct {
		typ       types.CardType
		separator string
		contains  []string
	}{
		{types.CardConcept, "::", []string{"Consistent Hashing", "(part of Partitioning)", "term :: definition"}},
		{types.CardBasic, ">>", []string{"- Dynamo", "- Cassandra", "up to 3"}},
		{types.CardCloze, "{{", []string{"{{Consistent hashing}}", "ring, virtual nodes"}},
		{types.CardDescriptor, ";;", []string{"attribute ;; value", "up to 3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			p, err := l.Render(tt.typ, testData())
			require.NoError(t, err)
			assert.Equal(t, tt.separator, p.Separator)
			require.NotNil(t, p.Temperature)
			combined := p.System + "\n" + p.User
			for _, want := range tt.contains {
				assert.Contains(t, combined, want)
			}
		})
	}
}

func TestRender_MaxCardsFromCaller(t *testing.T) {
	l, err := New("")
	require.NoError(t, err)

	d := testData()
	d.MaxCards = 7
	p, err := l.Render(types.CardBasic, d)
	require.NoError(t, err)
	assert.Equal(t, 7, p.MaxCards)
	assert.Contains(t, p.User, "up to 7")
}

func TestRender_NoTemplate(t *testing.T) {
	l, err := New("")
	require.NoError(t, err)
	_, err = l.Render(types.CardListAnswer, testData())
	assert.True(t, errors.Is(err, ErrNoTemplate))
}

func TestNew_OverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	override := "system_prompt: custom system for {{.Subject}}\n" +
		"user_prompt: custom user for {{.Topic}}\n" +
		"config:\n  max_cards: 5\n  separator: \">>\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basic_card.yaml"), []byte(override), 0o644))

	l, err := New(dir)
	require.NoError(t, err)

	p, err := l.Render(types.CardBasic, testData())
	require.NoError(t, err)
	assert.Equal(t, "custom system for System Design", p.System)
	assert.Equal(t, "custom user for Consistent Hashing", p.User)
	assert.Equal(t, 5, p.MaxCards)
	assert.Nil(t, p.Temperature)

	// Other types keep the embedded template.
	p, err = l.Render(types.CardConcept, testData())
	require.NoError(t, err)
	assert.Contains(t, p.System, "term :: definition")
}

func TestLoader_Digest(t *testing.T) {
	a, err := New("")
	require.NoError(t, err)
	b, err := New("")
	require.NoError(t, err)
	assert.Len(t, a.Digest(), 16)
	assert.Equal(t, a.Digest(), b.Digest())

	dir := t.TempDir()
	override := "system_prompt: s\nuser_prompt: u\nconfig:\n  max_cards: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cloze_card.yaml"), []byte(override), 0o644))
	c, err := New(dir)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest(), c.Digest())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cloze_card.yaml"), []byte(override+"  temperature: 0.9\n"), 0o644))
	d, err := New(dir)
	require.NoError(t, err)
	assert.NotEqual(t, c.Digest(), d.Digest())
}

func TestNew_InvalidOverride(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing user prompt", "system_prompt: hi\n"},
		{"bad template", "system_prompt: \"{{.Broken\"\nuser_prompt: x\n"},
		{"bad yaml", "system_prompt: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "cloze_card.yaml"), []byte(tt.body), 0o644))
			_, err := New(dir)
			assert.Error(t, err)
		})
	}
}
