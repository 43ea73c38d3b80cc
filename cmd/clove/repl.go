package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
	"gopkg.in/urfave/cli.v1"

	"github.com/chazu/clove/pkg/transpiler"
)

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var replCommand = cli.Command{
	Action: repl,
	Name:   "repl",
	Usage:  "Translate snippets interactively",
	Description: `
Each entry is read until its braces balance and then translated. Entries
that do not start with a namespace are placed in namespace user. When
stdin is not a terminal the whole input is translated as one source.`,
}

func repl(ctx *cli.Context) error {
	translator, _, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	w := outWriter(ctx)
	if !isTerminal() {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		out, err := translator.Translate(wrapSnippet(string(src)))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return runInteractive(ctx, translator, w)
}

func runInteractive(ctx *cli.Context, translator *transpiler.Translator, w io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := historyFile()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}

	var entry strings.Builder
	for {
		prompt := "clove> "
		if entry.Len() > 0 {
			prompt = "...    "
		}
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			entry.Reset()
			fmt.Fprintln(errWriter(ctx))
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if entry.Len() == 0 && strings.TrimSpace(input) == "" {
			continue
		}

		entry.WriteString(input)
		entry.WriteByte('\n')
		if !balanced(entry.String()) {
			continue
		}

		snippet := entry.String()
		entry.Reset()
		line.AppendHistory(strings.TrimSpace(snippet))

		out, err := translator.Translate(wrapSnippet(snippet))
		if err != nil {
			printError(errWriter(ctx), err)
			continue
		}
		fmt.Fprint(w, out)
	}

	if historyPath != "" {
		if f, err := os.Create(historyPath); err == nil {
			defer f.Close()
			_, _ = line.WriteHistory(f)
		}
	}
	return nil
}

// wrapSnippet places src in a namespace unless it declares one.
func wrapSnippet(src string) string {
	if strings.HasPrefix(strings.TrimSpace(src), "namespace") {
		return src
	}
	return "namespace user {\n" + src + "\n}\n"
}

// balanced reports whether every { in src has been closed.
func balanced(src string) bool {
	return strings.Count(src, "{") <= strings.Count(src, "}")
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".clove_history")
}
