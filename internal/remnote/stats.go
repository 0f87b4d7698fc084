package remnote

import "github.com/pdiddy/flashcard-engine/pkg/types"

// Collect tallies cards by type and topic. Cards without a parent count
// toward Total and ByType only.
func Collect(cards []types.Card) types.FormattingStats {
	s := types.FormattingStats{
		ByType:  make(map[types.CardType]int),
		ByTopic: make(map[string]int),
	}
	levels := make(map[string]struct{})
	parented := 0

	for _, c := range cards {
		s.Total++
		s.ByType[c.Type]++
		levels[c.Parent] = struct{}{}
		if c.Parent != "" {
			s.ByTopic[c.Parent]++
			parented++
		}
	}

	s.Topics = len(s.ByTopic)
	s.Levels = len(levels)
	if s.Topics > 0 {
		s.AveragePerTopic = float64(parented) / float64(s.Topics)
	}
	return s
}
