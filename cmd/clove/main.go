// Clove translates curly-brace source files into S-expression programs.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"
)

const versionStr = "0.3.0"

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	indentCharFlag = cli.StringFlag{
		Name:  "indent-char",
		Usage: `indentation character: a single character, "space" or "tab"`,
	}
	indentWidthFlag = cli.IntFlag{
		Name:  "indent-width",
		Usage: "indentation characters per nesting level",
	}
	cacheFlag = cli.StringFlag{
		Name:  "cache",
		Usage: "SQLite database caching translations",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "trace each pipeline stage on stderr",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "disable coloured diagnostics",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "clove"
	app.Usage = "translate curly-brace source into S-expressions"
	app.Version = versionStr
	app.ArgsUsage = "[FILES...]"
	app.Flags = []cli.Flag{
		configFileFlag,
		indentCharFlag,
		indentWidthFlag,
		cacheFlag,
		verboseFlag,
		noColorFlag,
	}
	app.Commands = []cli.Command{
		translateCommand,
		tokensCommand,
		astCommand,
		emitCommand,
		replCommand,
		serveCommand,
		cacheCommand,
		dumpConfigCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		if ctx.GlobalBool(noColorFlag.Name) {
			color.NoColor = true
		}
		return nil
	}
	// Without a command, translate the named files (or stdin) to stdout.
	app.Action = translate
	return app
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		printError(app.ErrWriter, err)
		os.Exit(1)
	}
}

func errWriter(ctx *cli.Context) io.Writer {
	if ctx.App.ErrWriter != nil {
		return ctx.App.ErrWriter
	}
	return os.Stderr
}

func usageError(format string, args ...interface{}) error {
	return fmt.Errorf("usage: "+format, args...)
}
