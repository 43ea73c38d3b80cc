package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/urfave/cli.v1"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabel  = color.New(color.FgYellow, color.Bold).SprintFunc()
	traceLabel = color.New(color.FgCyan).SprintFunc()
)

// printError reports err on w, one line per error when several files failed.
func printError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			fmt.Fprintf(w, "%s %v\n", errorLabel("error:"), e)
		}
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorLabel("error:"), err)
}

func warnf(ctx *cli.Context, format string, args ...interface{}) {
	fmt.Fprintf(errWriter(ctx), "%s %s\n", warnLabel("warning:"), fmt.Sprintf(format, args...))
}

// tracef prints only with --verbose.
func tracef(ctx *cli.Context, format string, args ...interface{}) {
	if !ctx.GlobalBool(verboseFlag.Name) {
		return
	}
	fmt.Fprintf(errWriter(ctx), "%s %s\n", traceLabel("clove:"), fmt.Sprintf(format, args...))
}
