// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remnote

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		card types.Card
		want []string
	}{
		{
			name: "concept",
			card: types.Card{Type: types.CardConcept, Front: "Round Robin", Back: "Distributes requests sequentially"},
			want: []string{"Round Robin :: Distributes requests sequentially"},
		},
		{
			name: "basic with escaped back",
			card: types.Card{Type: types.CardBasic, Front: "What is caching?", Back: "A:: B"},
			want: []string{`What is caching? >> A\:\: B`},
		},
		{
			name: "cloze unchanged",
			card: types.Card{Type: types.CardCloze, Front: "{{Round Robin}} distributes requests sequentially."},
			want: []string{"{{Round Robin}} distributes requests sequentially."},
		},
		{
			name: "descriptor",
			card: types.Card{Type: types.CardDescriptor, Front: "Latency", Back: "Time per request"},
			want: []string{"Latency ;; Time per request"},
		},
		{
			name: "multiline splits on blank lines",
			card: types.Card{Type: types.CardMultiline, Front: "Lambda architecture", Back: "Batch layer\nrecomputes views\n\n  \nSpeed layer"},
			want: []string{
				"Lambda architecture :::",
				"    Batch layer recomputes views",
				"    Speed layer",
			},
		},
		{
			name: "list answer from items",
			card: types.Card{Type: types.CardListAnswer, Front: "Key concepts of caching", Items: []string{"TTL", "Eviction"}},
			want: []string{
				"Key concepts of caching >>",
				"    1. TTL",
				"    2. Eviction",
			},
		},
		{
			name: "list answer from back lines",
			card: types.Card{Type: types.CardListAnswer, Front: "Layers", Back: "- Batch\n- Speed\n\n3. Serving"},
			want: []string{
				"Layers >>",
				"    1. Batch",
				"    2. Speed",
				"    3. Serving",
			},
		},
		{
			name: "multiple choice moves correct answer first",
			card: types.Card{
				Type:          types.CardMultipleChoice,
				Front:         "Which is a load balancing algorithm?",
				Items:         []string{"LRU", "Round Robin", "Raft", "Bloom filter"},
				CorrectChoice: 1,
			},
			want: []string{
				"Which is a load balancing algorithm? >>",
				"    A) Round Robin",
				"    B) LRU",
				"    C) Raft",
				"    D) Bloom filter",
			},
		},
		{
			name: "extra detail child line",
			card: types.Card{Type: types.CardConcept, Front: "CDN", Back: "Edge cache", ExtraDetail: "Reduces latency"},
			want: []string{
				"CDN :: Edge cache",
				"    #[[Extra Card Detail]] Reduces latency",
			},
		},
		{
			name: "leading hash escaped",
			card: types.Card{Type: types.CardConcept, Front: "# of replicas", Back: "three :: copies"},
			want: []string{`\# of replicas :: three \:\: copies`},
		},
		{
			name: "leading hash in paragraph escaped",
			card: types.Card{Type: types.CardMultiline, Front: "Quorum", Back: "# of votes\n\nmajority"},
			want: []string{
				"Quorum :::",
				`    \# of votes`,
				"    majority",
			},
		},
		{
			name: "hash inside items untouched",
			card: types.Card{Type: types.CardListAnswer, Front: "Priorities", Items: []string{"#1 latency", "cost"}},
			want: []string{
				"Priorities >>",
				"    1. #1 latency",
				"    2. cost",
			},
		},
		{
			name: "newlines folded in single-line cards",
			card: types.Card{Type: types.CardBasic, Front: "Why\nshard?", Back: " To scale writes \n"},
			want: []string{"Why shard? >> To scale writes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.card)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_ContentErrors(t *testing.T) {
	tests := []struct {
		name string
		card types.Card
	}{
		{"descriptor empty back", types.Card{Type: types.CardDescriptor, Front: "Latency", Back: "", Parent: "Performance"}},
		{"concept empty back", types.Card{Type: types.CardConcept, Front: "X", Back: "  "}},
		{"basic empty back", types.Card{Type: types.CardBasic, Front: "X"}},
		{"empty front", types.Card{Type: types.CardConcept, Front: " ", Back: "Y"}},
		{"cloze without span", types.Card{Type: types.CardCloze, Front: "no span here"}},
		{"cloze unclosed", types.Card{Type: types.CardCloze, Front: "{{open span"}},
		{"cloze stray close", types.Card{Type: types.CardCloze, Front: "close}} {{x}}"}},
		{"cloze nested", types.Card{Type: types.CardCloze, Front: "{{a {{b}} }}"}},
		{"cloze empty span", types.Card{Type: types.CardCloze, Front: "{{ }} text"}},
		{"multiline empty back", types.Card{Type: types.CardMultiline, Front: "X", Back: "\n\n"}},
		{"list without items", types.Card{Type: types.CardListAnswer, Front: "X"}},
		{"multiple choice three options", types.Card{Type: types.CardMultipleChoice, Front: "X", Items: []string{"a", "b", "c"}}},
		{"multiple choice bad index", types.Card{Type: types.CardMultipleChoice, Front: "X", Items: []string{"a", "b", "c", "d"}, CorrectChoice: 4}},
		{"unknown type", types.Card{Type: "flip", Front: "X", Back: "Y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.card)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrContent))

			var ce *ContentError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.card.Type, ce.Type)
			assert.Equal(t, tt.card.Parent, ce.Topic)
		})
	}
}

func TestContentError_Message(t *testing.T) {
	_, err := Render(types.Card{Type: types.CardDescriptor, Front: "Latency", Parent: "Performance"})
	require.Error(t, err)
	assert.Equal(t, "descriptor card in Performance: back is empty", err.Error())

	_, err = Render(types.Card{Type: types.CardDescriptor, Front: "Latency"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(top level)")
}

func TestRender_RoundTripSafe(t *testing.T) {
	nasty := "a :: b >> c ;; d {{e}} f #[[g]] h ::: i"
	cards := []types.Card{
		{Type: types.CardConcept, Front: nasty, Back: nasty},
		{Type: types.CardBasic, Front: nasty, Back: nasty},
		{Type: types.CardDescriptor, Front: nasty, Back: nasty},
		{Type: types.CardCloze, Front: "{{term}} with :: and >> and ;; and #[[x]]"},
		{Type: types.CardMultiline, Front: nasty, Back: nasty + "\n\n" + nasty},
		{Type: types.CardListAnswer, Front: nasty, Items: []string{nasty, "plain"}},
		{Type: types.CardMultipleChoice, Front: nasty, Items: []string{nasty, "b", "c", "d"}},
		{Type: types.CardConcept, Front: "ends with colon:", Back: ":starts with colon"},
		{Type: types.CardBasic, Front: "arrow ->", Back: "> quoted"},
		{Type: types.CardConcept, Front: "X", Back: "Y", ExtraDetail: nasty},
		{Type: types.CardConcept, Front: "# of replicas", Back: "three :: copies"},
		{Type: types.CardBasic, Front: "### sizing", Back: "# shards >> # nodes"},
		{Type: types.CardCloze, Front: "# of {{replicas}} is three"},
		{Type: types.CardMultiline, Front: "#[[Page]] notes", Back: "# heading like\n\nplain"},
	}

	for _, c := range cards {
		t.Run(string(c.Type), func(t *testing.T) {
			lines, err := Render(c)
			require.NoError(t, err)
			report := Validate(strings.Join(lines, "\n"))
			assert.True(t, report.Checks[CheckNoUnescapedReserved], "issues: %v", report.Issues)
			assert.True(t, report.Checks[CheckDelimitersBalanced], "issues: %v", report.Issues)
			assert.True(t, report.Checks[CheckIndentationConsistent], "issues: %v", report.Issues)
		})
	}
}

func TestRenderBlock_DescriptorOffset(t *testing.T) {
	b, err := renderBlock(types.Card{Type: types.CardDescriptor, Front: "Latency", Back: "Time"})
	require.NoError(t, err)
	assert.Equal(t, 1, b.offset)
	assert.Equal(t, []string{"        Latency ;; Time"}, b.appendUnder(nil, 1))
	assert.Equal(t, []string{"Latency ;; Time"}, b.appendTo(nil, 0))
}

func TestRenderBlock_CountsEscapedFields(t *testing.T) {
	b, err := renderBlock(types.Card{Type: types.CardConcept, Front: "a :: b", Back: "c >> d", ExtraDetail: "plain"})
	require.NoError(t, err)
	assert.Equal(t, 2, b.escaped)
	assert.Equal(t, `a \:\: b`, b.front)
}

func TestRenderBlock_LeadingHashIdempotent(t *testing.T) {
	b, err := renderBlock(types.Card{Type: types.CardConcept, Front: "# of replicas", Back: "three"})
	require.NoError(t, err)
	assert.Equal(t, `\# of replicas`, b.front)
	assert.Equal(t, 1, b.escaped)

	again, err := renderBlock(types.Card{Type: types.CardConcept, Front: b.front, Back: "three"})
	require.NoError(t, err)
	assert.Equal(t, b.front, again.front)
	assert.Equal(t, 0, again.escaped)
}
