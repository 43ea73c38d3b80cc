package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/urfave/cli.v1"

	"github.com/chazu/clove/pkg/codegen"
	"github.com/chazu/clove/pkg/config"
	"github.com/chazu/clove/pkg/service"
	"github.com/chazu/clove/pkg/transpiler"
)

var (
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "write the translation of a single input to this file",
	}
	outDirFlag = cli.StringFlag{
		Name:  "out-dir",
		Usage: "write each translation into this directory",
	}
	goPackageFlag = cli.StringFlag{
		Name:  "go-package",
		Usage: "wrap translations in Go source for this package",
	}
	watchFlag = cli.BoolFlag{
		Name:  "watch",
		Usage: "translate again whenever an input changes",
	}
	remoteFlag = cli.StringFlag{
		Name:  "remote",
		Usage: "translate on the clove server at this address",
	}

	translateCommand = cli.Command{
		Action:    translate,
		Name:      "translate",
		Usage:     "Translate source files",
		ArgsUsage: "[FILES...]",
		Flags:     []cli.Flag{outFlag, outDirFlag, goPackageFlag, watchFlag, remoteFlag},
		Description: `
Translates each file and writes the result to --out, into --out-dir, or to
stdout. With no files the source is read from stdin. Failures are reported
per file; the remaining files are still translated.`,
	}
)

// translateFunc turns one named source into output text.
type translateFunc func(name, src string) (string, error)

// job describes where translations go.
type job struct {
	translate translateFunc
	out       string
	outDir    string
	goPackage string
	w         io.Writer
}

func translate(ctx *cli.Context) error {
	translator, cfg, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	j, closeRemote, err := newJob(ctx, translator, cfg)
	if err != nil {
		return err
	}
	defer closeRemote()

	files := []string(ctx.Args())
	if len(files) == 0 {
		if ctx.Bool(watchFlag.Name) {
			return usageError("--watch needs input files")
		}
		src, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		return j.run("<stdin>", string(src))
	}
	if j.out != "" && len(files) > 1 {
		return usageError("--out takes a single input, use --out-dir for %d files", len(files))
	}

	err = j.runFiles(ctx, files)
	if !ctx.Bool(watchFlag.Name) {
		return err
	}
	if err != nil {
		printError(errWriter(ctx), err)
	}
	return watch(ctx, files, func(file string) {
		if err := j.runFile(ctx, file); err != nil {
			printError(errWriter(ctx), err)
		}
	})
}

func newJob(ctx *cli.Context, translator *transpiler.Translator, cfg config.Config) (*job, func(), error) {
	j := &job{
		out:       ctx.String(outFlag.Name),
		outDir:    cfg.Output.Dir,
		goPackage: cfg.Output.GoPackage,
		w:         outWriter(ctx),
		translate: func(name, src string) (string, error) {
			return translator.Translate(src)
		},
	}
	if ctx.IsSet(outDirFlag.Name) {
		j.outDir = ctx.String(outDirFlag.Name)
	}
	if ctx.IsSet(goPackageFlag.Name) {
		j.goPackage = ctx.String(goPackageFlag.Name)
	}

	addr := ctx.String(remoteFlag.Name)
	if addr == "" {
		return j, func() {}, nil
	}
	client, err := service.Dial(addr)
	if err != nil {
		return nil, nil, err
	}
	tracef(ctx, "translating on %s", addr)
	j.translate = func(name, src string) (string, error) {
		rctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return client.Translate(rctx, name, src)
	}
	return j, func() { client.Close() }, nil
}

// runFiles translates every file and collects the failures.
func (j *job) runFiles(ctx *cli.Context, files []string) error {
	var result *multierror.Error
	for _, file := range files {
		if err := j.runFile(ctx, file); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (j *job) runFile(ctx *cli.Context, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	tracef(ctx, "translating %s (%d bytes)", file, len(src))
	return j.run(file, string(src))
}

// run translates src and writes the result to its destination.
func (j *job) run(name, src string) error {
	out, err := j.translate(name, src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	ext := ".clj"
	if j.goPackage != "" {
		out, err = codegen.GenerateBundle(j.goPackage, filepath.Base(name), &codegen.Result{Code: out})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		ext = ".go"
	}

	dest := j.out
	if dest == "" && j.outDir != "" {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		dest = filepath.Join(j.outDir, base+ext)
	}
	if dest == "" {
		_, err := io.WriteString(j.w, out)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
