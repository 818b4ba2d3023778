package pscript

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// formatCodeFrame renders the source line holding pos with a marker under
// the offending token, which spans width runes.
func formatCodeFrame(source string, pos Position, width int) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	lineLen := utf8.RuneCountInString(lineText)

	column := min(max(pos.Column, 1), lineLen+1)
	width = min(max(width, 1), max(lineLen-column+1, 1))

	lineLabel := strconv.Itoa(pos.Line)
	gutter := strings.Repeat(" ", len(lineLabel))

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", pos.Line, column)
	fmt.Fprintf(&b, " %s | %s\n", lineLabel, lineText)
	fmt.Fprintf(&b, " %s | %s%s", gutter, strings.Repeat(" ", column-1), strings.Repeat("^", width))
	return b.String()
}
