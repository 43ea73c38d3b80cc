package codegen

import "strings"

// fragment is a piece of output text together with the number of forms it
// opened and has not closed. Parents absorb a child's count when they add
// its text, so closers are always emitted from the count and never by
// scanning for parentheses.
type fragment struct {
	buf  strings.Builder
	open int
}

func (f *fragment) String() string {
	return f.buf.String()
}

// write appends text that neither opens nor closes a form.
func (f *fragment) write(s string) {
	f.buf.WriteString(s)
}

// openForm starts a new form with the given head.
func (f *fragment) openForm(head string) {
	f.buf.WriteByte('(')
	f.buf.WriteString(head)
	f.open++
}

// add appends a child fragment, taking over its open forms.
func (f *fragment) add(child *fragment) {
	f.buf.WriteString(child.String())
	f.open += child.open
}

// closeTo emits closers until only n forms remain open. A closer never
// lands on a line ending in a comment.
func (f *fragment) closeTo(n int) {
	if f.open <= n {
		return
	}
	if endsInComment(f.String()) {
		f.buf.WriteByte('\n')
	}
	for f.open > n {
		f.buf.WriteByte(')')
		f.open--
	}
}

// singleLine reports whether the fragment fits on one line.
func (f *fragment) singleLine() bool {
	return !strings.Contains(f.String(), "\n")
}

// endsInComment reports whether the last line of s contains a ; outside a
// string literal.
func endsInComment(s string) bool {
	line := s[strings.LastIndexByte(s, '\n')+1:]
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
