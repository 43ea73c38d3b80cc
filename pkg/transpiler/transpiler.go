// Package transpiler runs the whole translation pipeline: scan, parse,
// validate, generate and reindent.
package transpiler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/chazu/clove/pkg/ast"
	"github.com/chazu/clove/pkg/codegen"
	"github.com/chazu/clove/pkg/format"
	"github.com/chazu/clove/pkg/lexer"
	"github.com/chazu/clove/pkg/parser"
)

// Stage names reported by StageError.
const (
	StageScan     = "scan"
	StageParse    = "parse"
	StageValidate = "validate"
	StageCache    = "cache"
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Cache stores finished translations by key.
type Cache interface {
	Get(key string) (string, bool, error)
	Put(key, output string) error
}

// Options configures a Translator. The zero value indents with four
// spaces and does not cache. A width of zero only means no indentation
// when IndentChar is set.
type Options struct {
	IndentChar  rune
	IndentWidth int
	Cache       Cache
}

// Translator converts source text into formatted S-expression text.
type Translator struct {
	opts      Options
	formatter *format.Formatter
}

// New creates a Translator.
func New(opts Options) *Translator {
	if opts.IndentChar == 0 {
		opts.IndentChar = format.DefaultIndentChar
		if opts.IndentWidth == 0 {
			opts.IndentWidth = format.DefaultIndentWidth
		}
	}
	return &Translator{
		opts:      opts,
		formatter: format.New(opts.IndentChar, opts.IndentWidth),
	}
}

// Translate runs the full pipeline on src. When a cache is configured a
// stored translation of the same source and layout is returned instead.
func (t *Translator) Translate(src string) (string, error) {
	key := t.Key(src)
	if t.opts.Cache != nil {
		out, ok, err := t.opts.Cache.Get(key)
		if err != nil {
			return "", &StageError{Stage: StageCache, Err: err}
		}
		if ok {
			return out, nil
		}
	}

	root, err := t.Tree(src)
	if err != nil {
		return "", err
	}
	out := t.Render(root)

	if t.opts.Cache != nil {
		if err := t.opts.Cache.Put(key, out); err != nil {
			return "", &StageError{Stage: StageCache, Err: err}
		}
	}
	return out, nil
}

// Tokens runs the scanner only.
func (t *Translator) Tokens(src string) ([]lexer.Token, error) {
	tokens, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, &StageError{Stage: StageScan, Err: err}
	}
	return tokens, nil
}

// Tree scans and parses src and validates the resulting tree.
func (t *Translator) Tree(src string) (*ast.Node, error) {
	tokens, err := t.Tokens(src)
	if err != nil {
		return nil, err
	}
	root, err := parser.Parse(tokens)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}
	if err := root.Validate(); err != nil {
		return nil, &StageError{Stage: StageValidate, Err: err}
	}
	return root, nil
}

// Emit validates a tree built elsewhere, for example decoded from JSON,
// and renders it.
func (t *Translator) Emit(root *ast.Node) (string, error) {
	if err := root.Validate(); err != nil {
		return "", &StageError{Stage: StageValidate, Err: err}
	}
	return t.Render(root), nil
}

// Render generates and reindents a tree that has already been validated.
func (t *Translator) Render(root *ast.Node) string {
	return t.formatter.Reindent(codegen.Generate(root).Code)
}

// Key identifies a translation of src under this Translator's layout.
func (t *Translator) Key(src string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%c:%d:", t.opts.IndentChar, t.opts.IndentWidth)
	h.Write([]byte(src))
	return hex.EncodeToString(h.Sum(nil))
}
