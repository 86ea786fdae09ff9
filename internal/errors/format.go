package errors

import (
	"strings"
	"sync/atomic"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
	ansiBold   = "\033[1m"
)

var plain atomic.Bool

// DisableColors makes Format emit plain text.
func DisableColors() { plain.Store(true) }

// EnableColors restores ANSI colors in Format.
func EnableColors() { plain.Store(false) }

func paint(text string, codes ...string) string {
	if plain.Load() || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// Format renders the error for a terminal:
//
//	ERROR R011: The routing library hasn't been initialized [lifecycle]
//
//	  <detail, wrapped at 70 columns>
//
//	  Hint: <suggestion>
//	  Caused by: <wrapped error>
func (e *RouteError) Format() string {
	var b strings.Builder

	head := "ERROR"
	if e.Code != "" {
		head += " " + e.Code
	}
	b.WriteString(paint(head+": ", ansiRed, ansiBold))
	b.WriteString(paint(e.Message, ansiBold))
	if e.Category != "" {
		b.WriteString(" " + paint("["+string(e.Category)+"]", ansiDim))
	}
	b.WriteByte('\n')

	if lines := wrapText(e.Detail, 70); len(lines) > 0 {
		b.WriteByte('\n')
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
	}
	if e.Suggestion != "" {
		b.WriteString("\n  " + paint("Hint: ", ansiYellow) + e.Suggestion + "\n")
	}
	if e.Wrapped != nil {
		b.WriteString("\n  Caused by: " + e.Wrapped.Error() + "\n")
	}
	return b.String()
}

// wrapText greedily packs the words of text into lines of at most width
// bytes. A longer word gets a line of its own.
func wrapText(text string, width int) []string {
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
