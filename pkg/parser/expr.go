package parser

import (
	"fmt"

	"github.com/chazu/clove/pkg/ast"
	"github.com/chazu/clove/pkg/lexer"
)

// binaryPrecedence orders the binary operators from loosest to tightest
// binding. Expressions split at the loosest operator outside any brackets,
// taking the rightmost one so chains fold to the left: a - b - c is
// (a - b) - c and a + b * c is a + (b * c).
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"&":  4,
	"==": 5,
	"!=": 5,
	"<":  6,
	">":  6,
	"<=": 6,
	">=": 6,
	"+":  7,
	"-":  7,
	"*":  8,
	"/":  8,
	"%":  8,
}

// parseExpression parses one statement or expression. The forms are tried
// in a fixed order and the first that matches wins.
func parseExpression(tokens []lexer.Token) (*ast.Node, error) {
	if n := len(tokens); n > 0 && tokens[n-1].Type == lexer.SEMI {
		tokens = tokens[:n-1]
	}
	if len(tokens) == 0 {
		return nil, unparsable(tokens)
	}

	if len(tokens) == 1 {
		if !tokens[0].IsLiteral() {
			return nil, unparsable(tokens)
		}
		return ast.New(ast.Literal, tokens[0].Value), nil
	}

	first, last := tokens[0], len(tokens)-1

	if first.Type == lexer.RETURN {
		return parseExpression(tokens[1:])
	}

	if first.Type == lexer.LPAREN && matchingClose(tokens, 0) == last {
		return parseExpression(tokens[1:last])
	}

	if first.IsBranch(ast.BranchIf) {
		return parseIf(tokens)
	}

	if first.IsBranch(ast.BranchElse) {
		return parseElse(tokens)
	}

	if i := topLevelIndex(tokens, lexer.ASSIGN); i > 0 && tokens[i-1].IsIdentifier() {
		return parseAssignment(tokens, i)
	}

	if first.IsIdentifier() && tokens[1].Type == lexer.LPAREN && matchingClose(tokens, 1) == last {
		args, err := parseList(tokens[2:last])
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Expression, first.Value, args...), nil
	}

	if first.Type == lexer.LBRACKET && matchingClose(tokens, 0) == last {
		elems, err := parseList(tokens[1:last])
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Collection, "", elems...), nil
	}

	if i := splitPoint(tokens); i >= 0 {
		return parseBinary(tokens, i)
	}

	if first.Type == lexer.NUMERIC_OP && first.Value == "-" {
		operand, err := parseExpression(tokens[1:])
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Expression, "-", operand), nil
	}

	if len(tokens) >= 5 && first.IsIdentifier() && tokens[1].Type == lexer.DOT &&
		tokens[2].IsIdentifier() && tokens[3].Type == lexer.LPAREN && matchingClose(tokens, 3) == last {
		args, err := parseList(tokens[4:last])
		if err != nil {
			return nil, err
		}
		children := append([]*ast.Node{ast.New(ast.Literal, first.Value)}, args...)
		return ast.New(ast.Expression, tokens[2].Value, children...), nil
	}

	return nil, unparsable(tokens)
}

// parseIf handles `if (cond) { body }`. The condition becomes the first
// child of the Branch node, followed by the body statements.
func parseIf(tokens []lexer.Token) (*ast.Node, error) {
	if len(tokens) < 2 || tokens[1].Type != lexer.LPAREN {
		return nil, unparsable(tokens)
	}
	closing := matchingClose(tokens, 1)
	if closing < 0 {
		return nil, unparsable(tokens)
	}

	cond, err := parseExpression(tokens[2:closing])
	if err != nil {
		return nil, err
	}
	body, err := parseScope(skipBrace(tokens[closing+1:]))
	if err != nil {
		return nil, err
	}

	return ast.New(ast.Branch, ast.BranchIf, append([]*ast.Node{cond}, body...)...), nil
}

// parseElse handles `else { body }` and `else if (...) { ... }`. The
// latter becomes an else branch holding a single if branch.
func parseElse(tokens []lexer.Token) (*ast.Node, error) {
	rest := tokens[1:]
	if rest[0].IsBranch(ast.BranchIf) {
		inner, err := parseIf(rest)
		if err != nil {
			return nil, err
		}
		return ast.New(ast.Branch, ast.BranchElse, inner), nil
	}

	body, err := parseScope(skipBrace(rest))
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Branch, ast.BranchElse, body...), nil
}

// parseAssignment builds `name = value`. The type keyword of a declaration
// such as `int x = 1` is dropped.
func parseAssignment(tokens []lexer.Token, op int) (*ast.Node, error) {
	opTok := tokens[op]
	if opTok.IsCompoundAssign() {
		return nil, fmt.Errorf("%w: compound assignment %s at line %d, col %d",
			ErrUnsupported, opTok.Value, opTok.Line, opTok.Column)
	}
	value, err := parseExpression(tokens[op+1:])
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Assignment, tokens[op-1].Value, value), nil
}

// parseBinary splits tokens at the operator index op.
func parseBinary(tokens []lexer.Token, op int) (*ast.Node, error) {
	left, err := parseExpression(tokens[:op])
	if err != nil {
		return nil, err
	}
	right, err := parseExpression(tokens[op+1:])
	if err != nil {
		return nil, err
	}

	opTok := tokens[op]
	if opTok.Type == lexer.EQUALITY {
		value := opTok.Value
		if value == "==" {
			value = "="
		}
		return ast.New(ast.EqualityCheck, value, left, right), nil
	}
	return ast.New(ast.Expression, opTok.Value, left, right), nil
}

// parseList parses comma-separated arguments or collection elements. Only
// commas outside nested brackets separate items, and a trailing comma is
// allowed.
func parseList(tokens []lexer.Token) ([]*ast.Node, error) {
	var items []*ast.Node
	start := 0
	depth := 0

	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) {
			depth += nesting(tokens[i])
			if depth != 0 || tokens[i].Type != lexer.COMMA {
				continue
			}
		} else if start == len(tokens) {
			break
		}

		item, err := parseExpression(tokens[start:i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		start = i + 1
	}

	return items, nil
}

// splitPoint returns the index of the operator a binary expression splits
// at, or -1. Operators inside brackets and unary operators are skipped.
func splitPoint(tokens []lexer.Token) int {
	best, bestPrec := -1, 0
	depth := 0

	for i, tok := range tokens {
		depth += nesting(tok)
		if depth != 0 || i == 0 {
			continue
		}
		switch tok.Type {
		case lexer.NUMERIC_OP, lexer.BOOLEAN_OP, lexer.EQUALITY:
		default:
			continue
		}
		if tokens[i-1].IsOperator() {
			continue
		}
		prec := binaryPrecedence[tok.Value]
		if best < 0 || prec <= bestPrec {
			best, bestPrec = i, prec
		}
	}

	return best
}

// topLevelIndex returns the first token of type typ outside any brackets.
func topLevelIndex(tokens []lexer.Token, typ lexer.TokenType) int {
	depth := 0
	for i, tok := range tokens {
		depth += nesting(tok)
		if depth == 0 && tok.Type == typ {
			return i
		}
	}
	return -1
}

// matchingClose returns the index of the bracket closing the one at open,
// or -1.
func matchingClose(tokens []lexer.Token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		depth += nesting(tokens[i])
		if depth == 0 {
			return i
		}
	}
	return -1
}

// nesting is +1 for opening brackets, -1 for closing ones.
func nesting(tok lexer.Token) int {
	switch tok.Type {
	case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
		return 1
	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
		return -1
	}
	return 0
}

func skipBrace(tokens []lexer.Token) []lexer.Token {
	if len(tokens) > 0 && tokens[0].Type == lexer.LBRACE {
		return tokens[1:]
	}
	return tokens
}
