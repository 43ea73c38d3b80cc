// Package lexer provides tokenization for curly-brace source files.
//
// The lexer makes a single left-to-right pass over the source and never
// backtracks past the current character. It produces the flat token list
// consumed by the parser.
//
// Token Types:
//
//	IDENTIFIER  - Names (e.g., Console, count, _tmp)
//	TYPE        - Type keywords and generic-looking names (int, var, List<int>)
//	NUMBER      - Numeric literals (e.g., 42, 3.14, 2.5f)
//	STRING      - Double-quoted strings (e.g., "hello")
//	LBRACE      - Opens a scope {
//	RBRACE      - Closes a scope }
//	ASSIGN      - Assignment operators = += -= *= /=
//	EQUALITY    - Comparisons == != < > <= >=
//	COMMENT     - Line comments starting with //
//
// Output Format (JSON array):
//
//	[{"type": "IDENTIFIER", "value": "Main", "line": 1, "col": 0}, ...]
package lexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

var (
	// ErrUnrecognizedCharacter is returned for characters outside every
	// token class.
	ErrUnrecognizedCharacter = errors.New("unrecognized character")

	// ErrUnterminatedString is returned when a string literal reaches the end
	// of the input.
	ErrUnterminatedString = errors.New("unterminated string literal")
)

// UnrecognizedCharacterError carries the offending character and its position.
type UnrecognizedCharacterError struct {
	Char   rune
	Line   int
	Column int
}

func (e *UnrecognizedCharacterError) Error() string {
	return fmt.Sprintf("unrecognized character %q at line %d, col %d", e.Char, e.Line, e.Column)
}

func (e *UnrecognizedCharacterError) Unwrap() error {
	return ErrUnrecognizedCharacter
}

// typeKeywords are the built-in type names that start a declaration.
var typeKeywords = map[string]bool{
	"var":    true,
	"int":    true,
	"double": true,
	"string": true,
	"bool":   true,
	"void":   true,
	"float":  true,
	"long":   true,
	"char":   true,
}

// multiCharOperators are matched against the start of a punctuation run
// before single characters are considered.
var multiCharOperators = map[string]TokenType{
	"==": EQUALITY,
	"!=": EQUALITY,
	"<=": EQUALITY,
	">=": EQUALITY,
	"&&": BOOLEAN_OP,
	"||": BOOLEAN_OP,
	"+=": ASSIGN,
	"-=": ASSIGN,
	"*=": ASSIGN,
	"/=": ASSIGN,
}

// singleCharTokens classifies a lone punctuation character.
var singleCharTokens = map[rune]TokenType{
	'=': ASSIGN,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
	';': SEMI,
	',': COMMA,
	'.': DOT,
	'+': NUMERIC_OP,
	'-': NUMERIC_OP,
	'*': NUMERIC_OP,
	'/': NUMERIC_OP,
	'%': NUMERIC_OP,
	'|': BOOLEAN_OP,
	'&': BOOLEAN_OP,
	'<': EQUALITY,
	'>': EQUALITY,
}

// Lexer tokenizes curly-brace source code.
type Lexer struct {
	input  []rune // The source code being tokenized
	pos    int    // Current position in input
	line   int    // Current line number (1-indexed)
	col    int    // Current column number (0-indexed)
	tokens []Token
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{
		input:  []rune(input),
		pos:    0,
		line:   1,
		col:    0,
		tokens: make([]Token, 0),
	}
}

// NewFromReader creates a new Lexer from an io.Reader.
func NewFromReader(r io.Reader) (*Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return New(string(data)), nil
}

// Tokenize processes the entire input and returns all tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	return l.tokens, nil
}

// TokenizeJSON processes the input and returns tokens as a JSON array.
func (l *Lexer) TokenizeJSON() (string, error) {
	tokens, err := l.Tokenize()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tokens: %w", err)
	}
	return string(data), nil
}

// Helper methods for character access and movement

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) advance() rune {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) addTokenAt(typ TokenType, value string, line, col int) {
	l.tokens = append(l.tokens, NewToken(typ, value, line, col))
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isIdentPart(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '<' || c == '>'
}

func isNumberPart(c rune) bool {
	return unicode.IsDigit(c) || c == '.' || c == 'f' || c == 'd'
}

func isPunct(c rune) bool {
	return c <= unicode.MaxASCII && (unicode.IsPunct(c) || unicode.IsSymbol(c))
}

// scanToken scans a single token from the current position.
func (l *Lexer) scanToken() error {
	char := l.peek()

	switch {
	case unicode.IsSpace(char):
		l.advance()
		return nil

	case char == '/' && l.peekNext() == '/':
		l.scanComment()
		return nil

	case char == '"':
		return l.scanString()

	case unicode.IsDigit(char):
		l.scanRun(NUMBER, isNumberPart)
		return nil

	case isIdentStart(char):
		l.scanIdentifierOrKeyword()
		return nil

	case isPunct(char):
		return l.scanOperator()
	}

	return &UnrecognizedCharacterError{Char: char, Line: l.line, Column: l.col}
}

// scanComment captures everything after // up to the end of the line.
func (l *Lexer) scanComment() {
	line, col := l.line, l.col
	l.advance()
	l.advance()
	var comment strings.Builder
	for !l.isAtEnd() && l.peek() != '\n' && l.peek() != '\r' {
		comment.WriteRune(l.advance())
	}
	l.addTokenAt(COMMENT, comment.String(), line, col)
}

// scanString reads a double-quoted literal, keeping quotes and escapes verbatim.
func (l *Lexer) scanString() error {
	line, col := l.line, l.col
	var str strings.Builder
	str.WriteRune(l.advance())
	for !l.isAtEnd() {
		ch := l.advance()
		str.WriteRune(ch)
		switch ch {
		case '\\':
			if !l.isAtEnd() {
				str.WriteRune(l.advance())
			}
		case '"':
			l.addTokenAt(STRING, str.String(), line, col)
			return nil
		}
	}
	return fmt.Errorf("%w at line %d, col %d", ErrUnterminatedString, line, col)
}

// scanRun consumes a maximal run of characters accepted by part.
func (l *Lexer) scanRun(typ TokenType, part func(rune) bool) string {
	line, col := l.line, l.col
	var run strings.Builder
	run.WriteRune(l.advance())
	for !l.isAtEnd() && part(l.peek()) {
		run.WriteRune(l.advance())
	}
	l.addTokenAt(typ, run.String(), line, col)
	return run.String()
}

// scanIdentifierOrKeyword reads a name and resolves it against the keyword table.
func (l *Lexer) scanIdentifierOrKeyword() {
	word := l.scanRun(IDENTIFIER, isIdentPart)
	tok := &l.tokens[len(l.tokens)-1]
	tok.Type = classifyWord(word)
}

func classifyWord(word string) TokenType {
	switch word {
	case "namespace":
		return NAMESPACE
	case "class":
		return CLASS
	case "true", "false":
		return BOOLEAN
	case "null":
		return NULL
	case "return":
		return RETURN
	case "if", "else":
		return BRANCH
	}
	if typeKeywords[word] || isGenericType(word) {
		return TYPE
	}
	return IDENTIFIER
}

// isGenericType reports whether word looks like Name<Arg>: it contains a '<'
// followed later by a '>' with at least one character between them.
func isGenericType(word string) bool {
	open := strings.IndexByte(word, '<')
	closing := strings.IndexByte(word, '>')
	return open >= 0 && closing > open+1
}

// scanOperator handles punctuation. Two-character operators are tried
// before the leading character is classified on its own.
func (l *Lexer) scanOperator() error {
	line, col := l.line, l.col
	char := l.peek()

	if next := l.peekNext(); next != 0 {
		pair := string([]rune{char, next})
		if typ, ok := multiCharOperators[pair]; ok {
			l.advance()
			l.advance()
			l.addTokenAt(typ, pair, line, col)
			return nil
		}
	}

	typ, ok := singleCharTokens[char]
	if !ok {
		return &UnrecognizedCharacterError{Char: char, Line: line, Column: col}
	}
	l.advance()
	l.addTokenAt(typ, string(char), line, col)
	return nil
}
