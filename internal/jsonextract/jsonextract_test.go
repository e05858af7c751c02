package jsonextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose around object", `Here you go: {"a":{"b":2}} hope it helps {"c":3}`, `{"a":{"b":2}}`, true},
		{"braces inside strings", `x {"s":"}{ ][ ","t":[1,2]} y`, `{"s":"}{ ][ ","t":[1,2]}`, true},
		{"escaped quote inside string", `{"s":"say \"}\" now"} tail`, `{"s":"say \"}\" now"}`, true},
		{"array first", `[{"a":1},{"b":2}] {"c":3}`, `[{"a":1},{"b":2}]`, true},
		{"stray closer before block", `} ] {"a":1}`, `{"a":1}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"no json", `just some words`, "", false},
		{"empty", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FirstBlock(tt.input)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```JSON {\"a\":1}```"))
	assert.Equal(t, `[1]`, StripFences("```\n[1]\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1}  `))
}

func TestParse_FencedObject(t *testing.T) {
	v, ok := Parse("```json\n{\"high_level\":\"H\",\"sections\":[]}\n```")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"high_level": "H", "sections": []any{}}, v)
}

func TestParse_TrailingCommaRepair(t *testing.T) {
	input := `Result: ["alpha", "beta",] done`

	block, found := FirstBlock(input)
	require.True(t, found)
	_, err := decode(block)
	require.Error(t, err, "the raw block must not parse before repair")

	v, ok := Parse(input)
	require.True(t, ok)
	assert.Equal(t, []any{"alpha", "beta"}, v)
}

func TestParse_TrailingCommaInNestedObject(t *testing.T) {
	v, ok := Parse(`{"terms":[{"term":"x","definition":"y",},],}`)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"terms": []any{map[string]any{"term": "x", "definition": "y"}},
	}, v)
}

func TestParse_LineByLineCollection(t *testing.T) {
	// Raw newlines inside string literals make the whole-text block invalid.
	// Joining trimmed lines removes them, so each object is recovered.
	input := "{\"term\":\"cache\",\"definition\":\"fast\nstorage\"}\n" +
		"{\"term\":\"queue\",\"definition\":\"ordered\nbuffer\"}"

	v, ok := Parse(input)
	require.True(t, ok)
	assert.Equal(t, []any{
		map[string]any{"term": "cache", "definition": "faststorage"},
		map[string]any{"term": "queue", "definition": "orderedbuffer"},
	}, v)
}

func TestParse_BrokenPrefixBlocksLineScan(t *testing.T) {
	// A block that never parses stays at the head of the buffer, so later
	// valid blocks are not reached.
	input := "{\"term\":\"a\"\n\"broken\"}\n[1,2]"
	v, ok := Parse(input)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestParse_FirstBlockWins(t *testing.T) {
	v, ok := Parse(`[1,2] x {"a":}`)
	require.True(t, ok)
	assert.Equal(t, []any{float64(1), float64(2)}, v)
}

func TestParse_NotFound(t *testing.T) {
	for _, input := range []string{"", "no json here", "{", "]]]", "```json\n```"} {
		v, ok := Parse(input)
		assert.False(t, ok, "input %q", input)
		assert.Nil(t, v, "input %q", input)
	}
}
