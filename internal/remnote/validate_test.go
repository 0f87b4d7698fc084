// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remnote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ClozeScenario(t *testing.T) {
	r := Validate("{{Round Robin}} distributes requests sequentially.")
	assert.True(t, r.Checks[CheckDelimitersBalanced])
	assert.True(t, r.OK())
	assert.Empty(t, r.Issues)
}

func TestValidate_AllChecksReported(t *testing.T) {
	r := Validate("")
	assert.Len(t, r.Checks, 3)
	for _, name := range CheckNames() {
		assert.True(t, r.Checks[name], name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		failed  []string
		issueAt int
	}{
		{
			name: "valid concept",
			text: "A :: B",
		},
		{
			name: "escaped tokens in text",
			text: `What is caching? >> A\:\: B`,
		},
		{
			name:    "unclosed cloze",
			text:    "{{Round Robin distributes",
			failed:  []string{CheckDelimitersBalanced},
			issueAt: 1,
		},
		{
			name:    "stray close",
			text:    "fine :: line\nx }} y",
			failed:  []string{CheckDelimitersBalanced},
			issueAt: 2,
		},
		{
			name:    "two separators",
			text:    "A :: B :: C",
			failed:  []string{CheckNoUnescapedReserved},
			issueAt: 1,
		},
		{
			name:    "separator glued to text",
			text:    "A:: B",
			failed:  []string{CheckNoUnescapedReserved},
			issueAt: 1,
		},
		{
			name:    "reference marker in card",
			text:    "See #[[Page]] :: x",
			failed:  []string{CheckNoUnescapedReserved},
			issueAt: 1,
		},
		{
			name:    "token in heading",
			text:    "# A :: B",
			failed:  []string{CheckNoUnescapedReserved},
			issueAt: 1,
		},
		{
			name:    "cloze beside separator",
			text:    "{{a}} :: b",
			failed:  []string{CheckNoUnescapedReserved},
			issueAt: 1,
		},
		{
			name:    "multiline marker mid line",
			text:    "A ::: B",
			failed:  []string{CheckNoUnescapedReserved},
			issueAt: 1,
		},
		{
			name:    "concept without back",
			text:    "A ::",
			failed:  []string{CheckNoUnescapedReserved},
			issueAt: 1,
		},
		{
			name: "list and extra detail",
			text: "Parts >>\n    1. x\n    #[[Extra Card Detail]] note",
		},
		{
			name:    "unescaped token after detail marker",
			text:    "A :: B\n    #[[Extra Card Detail]] x >> y",
			failed:  []string{CheckNoUnescapedReserved},
			issueAt: 2,
		},
		{
			name:    "odd indentation",
			text:    "A :: B\n  C :: D",
			failed:  []string{CheckIndentationConsistent},
			issueAt: 2,
		},
		{
			name:    "jump two levels",
			text:    "# A\n        x :: y",
			failed:  []string{CheckIndentationConsistent},
			issueAt: 2,
		},
		{
			name:    "heading skips a level",
			text:    "# A\n    a :: 1\n        b ;; 2\n        ### C",
			failed:  []string{CheckIndentationConsistent},
			issueAt: 4,
		},
		{
			name: "blank lines between topics",
			text: "a :: 1\n\nb :: 2\n    c ;; 3",
		},
		{
			name: "first line one level deep",
			text: "    d ;; 4\na :: 1",
		},
		{
			name:    "first line two levels deep",
			text:    "        d ;; 4",
			failed:  []string{CheckIndentationConsistent},
			issueAt: 1,
		},
		{
			name:    "first heading indented",
			text:    "    # A\na :: 1",
			failed:  []string{CheckIndentationConsistent},
			issueAt: 1,
		},
		{
			name:    "tab indentation",
			text:    "A :: B\n\tC :: D",
			failed:  []string{CheckIndentationConsistent},
			issueAt: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(tt.text)
			assert.Equal(t, tt.failed, r.Failed())
			if len(tt.failed) == 0 {
				assert.Empty(t, r.Issues)
				return
			}
			require.NotEmpty(t, r.Issues)
			assert.Equal(t, tt.issueAt, r.Issues[0].Line)
			assert.Equal(t, tt.failed[0], r.Issues[0].Check)
			assert.True(t, errors.Is(r.Issues[0], ErrFormatValidation))
		})
	}
}
