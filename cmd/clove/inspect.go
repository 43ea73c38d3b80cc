package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/chazu/clove/pkg/ast"
	"github.com/chazu/clove/pkg/lexer"
)

var (
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "print tokens as a JSON array",
	}
	spewFlag = cli.BoolFlag{
		Name:  "spew",
		Usage: "dump the Go values of the tree instead of JSON",
	}

	tokensCommand = cli.Command{
		Action:    tokens,
		Name:      "tokens",
		Usage:     "Show the tokens of a source file or stdin",
		ArgsUsage: "[file]",
		Flags:     []cli.Flag{jsonFlag},
	}
	astCommand = cli.Command{
		Action:    tree,
		Name:      "ast",
		Usage:     "Show the syntax tree of a source file",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{spewFlag},
	}
	emitCommand = cli.Command{
		Action:    emit,
		Name:      "emit",
		Usage:     "Translate a JSON syntax tree read from stdin or a file",
		ArgsUsage: "[tree.json]",
	}
)

func outWriter(ctx *cli.Context) io.Writer {
	if ctx.App.Writer != nil {
		return ctx.App.Writer
	}
	return os.Stdout
}

// readSource reads the single file argument of an inspection command.
func readSource(ctx *cli.Context) (string, string, error) {
	if ctx.NArg() != 1 {
		return "", "", usageError("clove %s <file>", ctx.Command.Name)
	}
	file := ctx.Args().First()
	content, err := os.ReadFile(file)
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return file, string(content), nil
}

// sourceLexer scans the file argument of the tokens command, or stdin when
// there is none.
func sourceLexer(ctx *cli.Context) (string, *lexer.Lexer, error) {
	if ctx.NArg() == 0 {
		l, err := lexer.NewFromReader(stdin)
		return "<stdin>", l, err
	}
	file, src, err := readSource(ctx)
	if err != nil {
		return "", nil, err
	}
	return file, lexer.New(src), nil
}

func tokens(ctx *cli.Context) error {
	file, l, err := sourceLexer(ctx)
	if err != nil {
		return err
	}
	w := outWriter(ctx)

	if ctx.Bool(jsonFlag.Name) {
		out, err := l.TokenizeJSON()
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		fmt.Fprintln(w, out)
		return nil
	}

	toks, err := l.Tokenize()
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Line", "Col", "Type", "Value"})
	table.SetAutoWrapText(false)
	for _, tok := range toks {
		table.Append([]string{
			strconv.Itoa(tok.Line),
			strconv.Itoa(tok.Column),
			string(tok.Type),
			tok.Value,
		})
	}
	table.Render()
	return nil
}

func tree(ctx *cli.Context) error {
	file, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	translator, _, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	root, err := translator.Tree(src)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	w := outWriter(ctx)
	if ctx.Bool(spewFlag.Name) {
		spew.Fdump(w, root)
		return nil
	}
	data, err := ast.MarshalIndent(root)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func emit(ctx *cli.Context) error {
	var r io.Reader = stdin
	if ctx.NArg() > 0 {
		f, err := os.Open(ctx.Args().First())
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	root, err := ast.Parse(r)
	if err != nil {
		return err
	}
	translator, _, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := translator.Emit(root)
	if err != nil {
		return err
	}
	_, err = io.WriteString(outWriter(ctx), out)
	return err
}
