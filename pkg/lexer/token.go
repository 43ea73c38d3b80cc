package lexer

// TokenType represents the type of a token.
type TokenType string

// Token types produced by the lexer.
const (
	// Structure
	LPAREN   TokenType = "LPAREN"   // (
	RPAREN   TokenType = "RPAREN"   // )
	LBRACE   TokenType = "LBRACE"   // { opens a scope
	RBRACE   TokenType = "RBRACE"   // } closes a scope
	LBRACKET TokenType = "LBRACKET" // [ opens a collection
	RBRACKET TokenType = "RBRACKET" // ] closes a collection
	SEMI     TokenType = "SEMI"     // ;
	COMMA    TokenType = "COMMA"    // ,
	DOT      TokenType = "DOT"      // . (member access)

	// Keywords
	NAMESPACE TokenType = "NAMESPACE" // namespace
	CLASS     TokenType = "CLASS"     // class
	TYPE      TokenType = "TYPE"      // int, var, List<int>, ...
	RETURN    TokenType = "RETURN"    // return
	BRANCH    TokenType = "BRANCH"    // if, else

	// Literals
	NULL    TokenType = "NULL"    // null
	NUMBER  TokenType = "NUMBER"  // 42, 3.14f
	BOOLEAN TokenType = "BOOLEAN" // true, false
	STRING  TokenType = "STRING"  // "text", quotes included

	// Operators
	NUMERIC_OP TokenType = "NUMERIC_OP" // + - * / %
	BOOLEAN_OP TokenType = "BOOLEAN_OP" // && || & |
	ASSIGN     TokenType = "ASSIGN"     // = += -= *= /=
	EQUALITY   TokenType = "EQUALITY"   // == != < > <= >=

	IDENTIFIER TokenType = "IDENTIFIER" // Names (e.g., Main, count, Console)
	COMMENT    TokenType = "COMMENT"    // Text after // up to the end of the line
)

// Token represents a single token from the lexer.
type Token struct {
	Type   TokenType `json:"type"`
	Value  string    `json:"value"`
	Line   int       `json:"line"`
	Column int       `json:"col"`
}

// NewToken creates a new token with the given properties.
func NewToken(typ TokenType, value string, line, col int) Token {
	return Token{
		Type:   typ,
		Value:  value,
		Line:   line,
		Column: col,
	}
}

// String renders the token for diagnostics.
func (t Token) String() string {
	return string(t.Type) + "(" + t.Value + ")"
}

// IsIdentifier returns true if the token is a name identifier.
func (t Token) IsIdentifier() bool {
	return t.Type == IDENTIFIER
}

// IsBranch reports whether the token is the branching keyword kw ("if" or "else").
func (t Token) IsBranch(kw string) bool {
	return t.Type == BRANCH && t.Value == kw
}

// IsOperator returns true if the token is a binary or assignment operator.
func (t Token) IsOperator() bool {
	switch t.Type {
	case NUMERIC_OP, BOOLEAN_OP, ASSIGN, EQUALITY:
		return true
	}
	return false
}

// IsCompoundAssign returns true for +=, -=, *= and /=.
func (t Token) IsCompoundAssign() bool {
	return t.Type == ASSIGN && t.Value != "="
}

// IsLiteral returns true if the token can stand alone as a value.
func (t Token) IsLiteral() bool {
	switch t.Type {
	case IDENTIFIER, NUMBER, BOOLEAN, NULL, STRING:
		return true
	}
	return false
}
