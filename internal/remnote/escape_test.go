// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remnote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Distributes requests sequentially", "Distributes requests sequentially"},
		{"concept delimiter", "A:: B", `A\:\: B`},
		{"basic delimiter", "x >> y", `x \>\> y`},
		{"descriptor delimiter", "a;;b", `a\;\;b`},
		{"cloze braces", "{{x}}", `\{\{x\}\}`},
		{"reference marker", "see #[[Page]]", `see \#\[\[Page\]\]`},
		{"triple colon", ":::", `\:\::`},
		{"single characters untouched", "a:b>c;d{e}f#g[h]", "a:b>c;d{e}f#g[h]"},
		{"unicode passes through", "日本語 :: ñandú → λ", `日本語 \:\: ñandú → λ`},
		{"already escaped", `A\:\: B`, `A\:\: B`},
		{"partially escaped", `A\::: B`, `A\:\:\: B`},
		{"backslash before plain char", `C:\temp`, `C:\temp`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in, ReservedTokens))
		})
	}
}

func TestEscape_ClozeTokensKeepBraces(t *testing.T) {
	got := Escape("{{Round Robin}} uses >> order", clozeTokens)
	assert.Equal(t, `{{Round Robin}} uses \>\> order`, got)
}

func TestEscape_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"A:: B",
		":::",
		"::::",
		">>>",
		`\::`,
		`\\::`,
		`a\`,
		"]]]",
		"#[[#[[",
		"{{{x}}}",
		"mixed ;; and >> and :: with {{cloze}} and #[[ref]]",
		"emoji 🚀 :: rocket",
	}

	for _, in := range inputs {
		once := Escape(in, ReservedTokens)
		assert.Equal(t, once, Escape(once, ReservedTokens), "input %q", in)

		clozeOnce := Escape(in, clozeTokens)
		assert.Equal(t, clozeOnce, Escape(clozeOnce, clozeTokens), "cloze input %q", in)
	}
}

func TestEscape_ReportsChange(t *testing.T) {
	_, changed := escape("plain text", ReservedTokens)
	assert.False(t, changed)

	_, changed = escape("a :: b", ReservedTokens)
	assert.True(t, changed)

	_, changed = escape(`a \:\: b`, ReservedTokens)
	assert.False(t, changed)
}

func TestFindTokens(t *testing.T) {
	got := findTokens(`front ::: x \:\: {{a}} ;; #[[`)
	var toks []string
	for _, tk := range got {
		toks = append(toks, tk.tok)
	}
	assert.Equal(t, []string{SepMultiline, ClozeOpen, ClozeClose, SepDescriptor, RefOpen}, toks)
}
