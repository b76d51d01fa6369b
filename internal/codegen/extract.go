package codegen

import "strings"

// ExtractCode strips conversational wrapping from a model response. If
// the text contains a fenced code block, the interior of the first block
// is returned with internal newlines and indentation intact; otherwise
// the text is returned unchanged apart from surrounding whitespace.
func ExtractCode(raw string) string {
	patterns := []string{
		"```go\n",
		"```go\r\n",
		"```\n",
		"```\r\n",
	}

	for _, pattern := range patterns {
		if idx := strings.Index(raw, pattern); idx != -1 {
			start := idx + len(pattern)
			if end := strings.Index(raw[start:], "```"); end != -1 {
				return strings.TrimRight(strings.TrimPrefix(raw[start:start+end], "\n"), " \t\r\n")
			}
		}
	}

	return strings.TrimSpace(raw)
}
