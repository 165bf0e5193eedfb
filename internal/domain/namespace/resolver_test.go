package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := NewResolver("translation", WithTable("I18nNamespace", map[string]string{"billing": "billing-v2"}))

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"single quoted", `'common'`, "common"},
		{"double quoted", `"common"`, "common"},
		{"back quoted", "`common`", "common"},
		{"escaped quote", `'it\'s'`, "it's"},
		{"table member", `I18nNamespace.home`, "home"},
		{"table member mapped", `I18nNamespace.billing`, "billing-v2"},
		{"other table", `Other.home`, "translation"},
		{"array first element", `['home', 'common']`, "home"},
		{"array of table members", `[I18nNamespace.home, I18nNamespace.common]`, "home"},
		{"nested array", `[['inner'], 'outer']`, "inner"},
		{"empty array", `[]`, "translation"},
		{"array with identifier", `[ns, 'common']`, "translation"},
		{"identifier", `ns`, "translation"},
		{"empty", ``, "translation"},
		{"empty literal", `''`, "translation"},
		{"template with substitution", "`ns-${x}`", "translation"},
		{"concatenation", `'a' + 'b'`, "translation"},
		{"whitespace", "  'spaced'  ", "spaced"},
		{"array never evaluated", `[console.log('x')]`, "translation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.expr))
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	entries := map[string]string{"a": "b"}
	r := NewResolver("ns", WithTable("T", entries))
	entries["a"] = "changed"

	assert.Equal(t, "b", r.Resolve("T.a"))
	assert.Equal(t, r.Resolve("['x']"), r.Resolve("['x']"))
	assert.Equal(t, "ns", r.Default())
}

func TestUnquote(t *testing.T) {
	got, err := Unquote(`"line\nnext é \u{1F600} \x41"`)
	require.NoError(t, err)
	assert.Equal(t, "line\nnext é 😀 A", got)

	_, err = Unquote(`"unterminated`)
	assert.Error(t, err)

	_, err = Unquote(`x`)
	assert.Error(t, err)
}

func TestSplitArray(t *testing.T) {
	elems, ok := SplitArray(`['a,b', "c", fn(1, 2), ]`)
	require.True(t, ok)
	assert.Equal(t, []string{`'a,b'`, `"c"`, `fn(1, 2)`}, elems)

	_, ok = SplitArray(`'a'`)
	assert.False(t, ok)

	_, ok = SplitArray(`['a]`)
	assert.False(t, ok)
}
