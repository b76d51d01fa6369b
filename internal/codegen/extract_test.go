package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCodeGoFence(t *testing.T) {
	raw := "Here is your parser:\n```go\npackage parser\n\nfunc Parse(p string) {}\n```\nLet me know if it works!"
	got := ExtractCode(raw)
	assert.Equal(t, "package parser\n\nfunc Parse(p string) {}", got)
	assert.NotContains(t, got, "```")
}

func TestExtractCodeBareFence(t *testing.T) {
	raw := "```\npackage parser\n```"
	assert.Equal(t, "package parser", ExtractCode(raw))
}

func TestExtractCodeFirstBlockWins(t *testing.T) {
	raw := "```go\nfirst\n```\nand also\n```go\nsecond\n```"
	assert.Equal(t, "first", ExtractCode(raw))
}

func TestExtractCodePreservesIndentation(t *testing.T) {
	raw := "```go\nfunc f() {\n\tif true {\n\t\treturn\n\t}\n}\n```"
	assert.Equal(t, "func f() {\n\tif true {\n\t\treturn\n\t}\n}", ExtractCode(raw))
}

func TestExtractCodeNoFencePassthrough(t *testing.T) {
	raw := "  package parser\n\nfunc Parse() {}  \n"
	assert.Equal(t, "package parser\n\nfunc Parse() {}", ExtractCode(raw))
}

func TestExtractCodeMalformedFencePassthrough(t *testing.T) {
	// Opening fence with no closing fence: treated as plain text.
	raw := "```go\npackage parser"
	assert.Equal(t, "```go\npackage parser", ExtractCode(raw))
}
