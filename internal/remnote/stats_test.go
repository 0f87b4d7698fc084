package remnote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

func TestCollect(t *testing.T) {
	cards := []types.Card{
		concept("a", "1", "Caching"),
		concept("b", "2", "Caching"),
		{Type: types.CardCloze, Front: "{{x}}", Parent: "Sharding"},
		{Type: types.CardBasic, Front: "loose", Back: "card"},
	}

	s := Collect(cards)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, map[types.CardType]int{
		types.CardConcept: 2,
		types.CardCloze:   1,
		types.CardBasic:   1,
	}, s.ByType)
	assert.Equal(t, map[string]int{"Caching": 2, "Sharding": 1}, s.ByTopic)
	assert.Equal(t, 2, s.Topics)
	assert.InDelta(t, 1.5, s.AveragePerTopic, 1e-9)
	assert.Equal(t, 3, s.Levels)
}

func TestCollect_NoTopics(t *testing.T) {
	s := Collect([]types.Card{{Type: types.CardBasic, Front: "q", Back: "a"}})
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 0, s.Topics)
	assert.Equal(t, 0.0, s.AveragePerTopic)

	empty := Collect(nil)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.ByType)
}
