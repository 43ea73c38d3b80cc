package main

import (
	"errors"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/chazu/clove/pkg/cache"
	"github.com/chazu/clove/pkg/config"
	"github.com/chazu/clove/pkg/transpiler"
)

// loadConfig reads the --config file over the defaults and applies the
// global flags on top.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		var err error
		if cfg, err = config.Load(file); err != nil {
			return cfg, err
		}
		tracef(ctx, "loaded config %s", file)
	}

	if ctx.GlobalIsSet(indentCharFlag.Name) {
		cfg.Indent.Char = indentChar(ctx.GlobalString(indentCharFlag.Name))
	}
	if ctx.GlobalIsSet(indentWidthFlag.Name) {
		cfg.Indent.Width = ctx.GlobalInt(indentWidthFlag.Name)
	}
	if ctx.GlobalIsSet(cacheFlag.Name) {
		cfg.Cache.Path = ctx.GlobalString(cacheFlag.Name)
	}
	return cfg, cfg.Validate()
}

// indentChar accepts the names of the two usual indentation characters.
func indentChar(s string) string {
	switch s {
	case "space":
		return " "
	case "tab", `\t`:
		return "\t"
	}
	return s
}

// setup builds a Translator from the configuration. The returned cleanup
// closes the cache, if one was opened.
func setup(ctx *cli.Context) (*transpiler.Translator, config.Config, func(), error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, cfg, nil, err
	}

	opts := transpiler.Options{
		IndentChar:  cfg.IndentRune(),
		IndentWidth: cfg.Indent.Width,
	}
	cleanup := func() {}
	if cc := cacheConfig(cfg); cc != nil {
		c, err := cache.Open(cc)
		if err != nil {
			return nil, cfg, nil, err
		}
		tracef(ctx, "using cache %s", c.Path())
		opts.Cache = c
		cleanup = func() {
			if err := c.Close(); err != nil {
				warnf(ctx, "closing cache: %v", err)
			}
		}
	}
	return transpiler.New(opts), cfg, cleanup, nil
}

var errNoCache = errors.New("no translation cache configured: use --cache, [Cache] Path or $" + cache.EnvPath)

// cacheConfig resolves the cache database from the configuration, then
// the environment. It returns nil when caching is off.
func cacheConfig(cfg config.Config) *cache.Config {
	path := cfg.Cache.Path
	if path == "" {
		path = os.Getenv(cache.EnvPath)
	}
	if path == "" {
		return nil
	}
	return &cache.Config{Path: path, Size: cfg.Cache.Size}
}
