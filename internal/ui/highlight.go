package ui

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
)

// Highlight colors source for a terminal. language is a chroma lexer name
// such as "javascript" or "python". Plain mode, or a highlighting
// failure, returns source unchanged.
func Highlight(source, language string) string {
	if IsPlain() {
		return source
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, source, language, "terminal256", "monokai"); err != nil {
		return source
	}
	return buf.String()
}
