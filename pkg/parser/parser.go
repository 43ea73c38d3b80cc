// Package parser converts token streams into syntax trees.
//
// The parser is recursive descent over slices of the token list: the top
// level finds method declarations and bare calls, method bodies are split
// into statements, and each statement's tokens are handed to expression
// parsing. The first failure aborts the whole parse.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/clove/pkg/ast"
	"github.com/chazu/clove/pkg/lexer"
)

var (
	// ErrMissingNamespace is returned when the input does not open with
	// `namespace <name>`.
	ErrMissingNamespace = errors.New("no namespace declaration found")

	// ErrUnterminatedScope is returned when an opened { never finds its
	// matching }.
	ErrUnterminatedScope = errors.New("cannot find end of scope")

	// ErrUnsupported is returned for constructs that are recognized but
	// not translated: class declarations and compound assignment.
	ErrUnsupported = errors.New("unsupported construct")

	// ErrUnparsableExpression matches every *UnparsableExpressionError.
	ErrUnparsableExpression = errors.New("unparsable expression")
)

// UnparsableExpressionError carries the tokens no expression form matched.
type UnparsableExpressionError struct {
	Tokens []lexer.Token
}

func (e *UnparsableExpressionError) Error() string {
	if len(e.Tokens) == 0 {
		return "failed to parse expression: empty expression"
	}
	parts := make([]string, len(e.Tokens))
	for i, tok := range e.Tokens {
		parts[i] = tok.String()
	}
	return fmt.Sprintf("failed to parse expression at line %d: %s",
		e.Tokens[0].Line, strings.Join(parts, ", "))
}

func (e *UnparsableExpressionError) Unwrap() error {
	return ErrUnparsableExpression
}

func unparsable(tokens []lexer.Token) error {
	return &UnparsableExpressionError{Tokens: tokens}
}

// Parser walks the top level of a token list.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse builds the syntax tree for a whole source file. The root is always
// a Namespace node whose children are the methods and top-level calls.
func Parse(tokens []lexer.Token) (*ast.Node, error) {
	if len(tokens) < 2 || tokens[0].Type != lexer.NAMESPACE || !tokens[1].IsIdentifier() {
		return nil, ErrMissingNamespace
	}
	if err := checkScopes(tokens); err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens, pos: 1}
	name := p.qualifiedName()
	return p.parseTopLevel(name)
}

// checkScopes reports the innermost { left open at the end of the input.
// Stray closing braces are ignored.
func checkScopes(tokens []lexer.Token) error {
	var open []lexer.Token
	for _, tok := range tokens {
		switch tok.Type {
		case lexer.LBRACE:
			open = append(open, tok)
		case lexer.RBRACE:
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
	}
	if len(open) > 0 {
		tok := open[len(open)-1]
		return fmt.Errorf("%w: { at line %d, col %d", ErrUnterminatedScope, tok.Line, tok.Column)
	}
	return nil
}

// qualifiedName reads a possibly dotted namespace name such as My.App.
func (p *Parser) qualifiedName() string {
	name := p.tokens[p.pos].Value
	p.pos++
	for p.pos+1 < len(p.tokens) && p.tokens[p.pos].Type == lexer.DOT && p.tokens[p.pos+1].IsIdentifier() {
		name += "." + p.tokens[p.pos+1].Value
		p.pos += 2
	}
	return name
}

func (p *Parser) parseTopLevel(name string) (*ast.Node, error) {
	root := ast.New(ast.Namespace, name)

	for !p.atEnd() {
		switch {
		case p.match(lexer.TYPE, lexer.IDENTIFIER, lexer.LPAREN):
			end, ok := findScopeEnd(p.tokens, p.pos)
			if !ok {
				return nil, fmt.Errorf("%w: method %s at line %d", ErrUnterminatedScope,
					p.peekAhead(1).Value, p.peek().Line)
			}
			method, err := parseMethod(p.tokens[p.pos : end+1])
			if err != nil {
				return nil, err
			}
			root.Children = append(root.Children, method)
			p.pos = end + 1

		case p.match(lexer.CLASS, lexer.IDENTIFIER):
			return nil, fmt.Errorf("%w: class declaration %s at line %d", ErrUnsupported,
				p.peekAhead(1).Value, p.peek().Line)

		case p.match(lexer.IDENTIFIER, lexer.LPAREN):
			end := indexOf(p.tokens, p.pos, lexer.SEMI)
			if end < 0 {
				end = len(p.tokens)
			}
			call, err := parseExpression(p.tokens[p.pos:end])
			if err != nil {
				return nil, err
			}
			root.Children = append(root.Children, call)
			p.pos = end + 1

		default:
			p.advance()
		}
	}

	return root, nil
}

// parseMethod builds a Method node from the tokens of a whole declaration,
// from the return type through the closing brace.
func parseMethod(tokens []lexer.Token) (*ast.Node, error) {
	open := indexOf(tokens, 0, lexer.LPAREN)
	closing := indexOf(tokens, open, lexer.RPAREN)
	if open < 0 || closing < 0 {
		return nil, unparsable(tokens)
	}

	method := ast.New(ast.Method, tokens[1].Value)
	for _, tok := range tokens[open+1 : closing] {
		if tok.IsIdentifier() {
			method.Children = append(method.Children, ast.New(ast.MethodArgument, tok.Value))
		}
	}

	bodyStart := indexOf(tokens, closing, lexer.LBRACE)
	if bodyStart < 0 {
		return nil, fmt.Errorf("%w: method %s has no body", ErrUnterminatedScope, tokens[1].Value)
	}
	body, err := parseScope(tokens[bodyStart+1:])
	if err != nil {
		return nil, err
	}
	method.Children = append(method.Children, body...)
	return method, nil
}

// parseScope parses a sequence of statements: a method or branch body.
func parseScope(tokens []lexer.Token) ([]*ast.Node, error) {
	var nodes []*ast.Node

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch tok.Type {
		case lexer.RETURN, lexer.RBRACE, lexer.SEMI:
			i++

		case lexer.COMMENT:
			nodes = append(nodes, ast.New(ast.Comment, tok.Value))
			i++

		default:
			end, err := statementEnd(tokens, i)
			if err != nil {
				return nil, err
			}
			node, err := parseExpression(tokens[i : end+1])
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			i = end + 1
		}
	}

	return groupAssignments(nodes), nil
}

// statementEnd finds the index of the last token of the statement starting
// at start. A statement normally ends at the next semicolon; when a { comes
// first the statement is a block and ends at its matching }.
func statementEnd(tokens []lexer.Token, start int) (int, error) {
	semi := indexOf(tokens, start, lexer.SEMI)
	brace := indexOf(tokens, start, lexer.LBRACE)

	if brace >= 0 && (semi < 0 || brace < semi) {
		end, ok := findScopeEnd(tokens, start)
		if !ok {
			return 0, fmt.Errorf("%w: block at line %d", ErrUnterminatedScope, tokens[start].Line)
		}
		return end, nil
	}
	if semi >= 0 {
		return semi, nil
	}
	if rbrace := indexOf(tokens, start, lexer.RBRACE); rbrace > start {
		return rbrace - 1, nil
	}
	return len(tokens) - 1, nil
}

// groupAssignments wraps every run of two or more adjacent assignments in
// one unnamed Assignment so they render as a single binding block.
func groupAssignments(nodes []*ast.Node) []*ast.Node {
	grouped := make([]*ast.Node, 0, len(nodes))

	for i := 0; i < len(nodes); {
		if nodes[i].Kind != ast.Assignment {
			grouped = append(grouped, nodes[i])
			i++
			continue
		}

		j := i + 1
		for j < len(nodes) && nodes[j].Kind == ast.Assignment {
			j++
		}
		if j-i == 1 {
			grouped = append(grouped, nodes[i])
		} else {
			run := make([]*ast.Node, j-i)
			copy(run, nodes[i:j])
			grouped = append(grouped, ast.New(ast.Assignment, "", run...))
		}
		i = j
	}

	return grouped
}

// findScopeEnd returns the index of the } that brings the brace counter back
// to zero, scanning from start.
func findScopeEnd(tokens []lexer.Token, start int) (int, bool) {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// indexOf returns the index of the first token of type typ at or after
// start, or -1.
func indexOf(tokens []lexer.Token, start int, typ lexer.TokenType) int {
	if start < 0 {
		return -1
	}
	for i := start; i < len(tokens); i++ {
		if tokens[i].Type == typ {
			return i
		}
	}
	return -1
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for i, typ := range types {
		if p.peekAhead(i).Type != typ {
			return false
		}
	}
	return true
}

func (p *Parser) peek() lexer.Token {
	return p.peekAhead(0)
}

func (p *Parser) peekAhead(n int) lexer.Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		return lexer.Token{Type: "EOF"}
	}
	return p.tokens[pos]
}

func (p *Parser) advance() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: "EOF"}
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}
