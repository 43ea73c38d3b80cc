// Package format lays out generated S-expression text.
//
// Reindent recomputes every line's indentation from the parenthesis depth
// at its start, ignoring whatever indentation the text already had, so
// formatting already formatted text is a no-op.
package format

import "strings"

// Defaults used by the command line when no configuration is given.
const (
	DefaultIndentChar  = ' '
	DefaultIndentWidth = 4
)

// Formatter reindents text with a fixed unit of indentation per level.
type Formatter struct {
	unit string
}

// New creates a Formatter that indents each level with width copies of ch.
// A negative width is treated as zero.
func New(ch rune, width int) *Formatter {
	if width < 0 {
		width = 0
	}
	return &Formatter{unit: strings.Repeat(string(ch), width)}
}

// Reindent lays out text in a single pass. A ( raises the depth and a )
// lowers it; whitespace before a ) is dropped unless that would pull the )
// onto a comment line. String literals and ; comments are copied as they
// are and never change the depth.
func (f *Formatter) Reindent(text string) string {
	out := make([]byte, 0, len(text)+len(text)/2)
	depth := 0

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '"':
			end := stringEnd(text, i)
			out = append(out, text[i:end]...)
			i = end - 1

		case ';':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = len(text)
			} else {
				end += i
			}
			out = append(out, text[i:end]...)
			i = end - 1

		case '(':
			depth++
			out = append(out, c)

		case ')':
			out = trimBeforeCloser(out)
			if depth > 0 {
				depth--
			}
			out = append(out, c)

		case '\n':
			out = append(out, c)
			for i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				i++
			}
			if depth > 0 && i+1 < len(text) && text[i+1] != '\n' {
				out = append(out, strings.Repeat(f.unit, depth)...)
			}

		default:
			out = append(out, c)
		}
	}

	return string(out)
}

// stringEnd returns the index just past the string literal opening at
// start, or len(text) when it never closes.
func stringEnd(text string, start int) int {
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(text)
}

// trimBeforeCloser drops trailing whitespace, stopping at a newline that
// ends a comment line.
func trimBeforeCloser(out []byte) []byte {
	for len(out) > 0 {
		switch out[len(out)-1] {
		case ' ', '\t', '\r':
		case '\n':
			if hasComment(out[:len(out)-1]) {
				return out
			}
		default:
			return out
		}
		out = out[:len(out)-1]
	}
	return out
}

// hasComment reports whether the last line of out has a ; outside a string.
func hasComment(out []byte) bool {
	line := out
	if nl := strings.LastIndexByte(string(out), '\n'); nl >= 0 {
		line = out[nl+1:]
	}
	inString := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case !inString && c == ';':
			return true
		}
	}
	return false
}
