package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/chazu/clove/pkg/cache"
	"github.com/chazu/clove/pkg/config"
)

var (
	olderThanFlag = cli.DurationFlag{
		Name:  "older-than",
		Usage: "remove translations older than this",
		Value: 30 * 24 * time.Hour,
	}

	cacheCommand = cli.Command{
		Name:  "cache",
		Usage: "Inspect the translation cache",
		Subcommands: []cli.Command{
			{
				Action: cacheList,
				Name:   "list",
				Usage:  "List stored translations",
			},
			{
				Action: cachePrune,
				Name:   "prune",
				Usage:  "Remove old translations",
				Flags:  []cli.Flag{olderThanFlag},
			},
			{
				Action: cacheClear,
				Name:   "clear",
				Usage:  "Remove every translation",
			},
		},
	}

	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		Description: `The dumpconfig command shows configuration values after flags are applied.`,
	}
)

// openCache opens the cache that translate writes to.
func openCache(ctx *cli.Context) (*cache.Cache, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	cc := cacheConfig(cfg)
	if cc == nil {
		return nil, errNoCache
	}
	return cache.Open(cc)
}

// shortKey abbreviates a cache key for display.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

func cacheList(ctx *cli.Context) error {
	c, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	entries, err := c.Entries()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(outWriter(ctx))
	table.SetHeader([]string{"ID", "Key", "Created", "Bytes"})
	for _, e := range entries {
		table.Append([]string{
			e.ID,
			shortKey(e.Key),
			e.CreatedAt.Local().Format(time.RFC3339),
			strconv.Itoa(len(e.Output)),
		})
	}
	table.SetFooter([]string{"", "", "Total", strconv.Itoa(len(entries))})
	table.Render()
	return nil
}

func cachePrune(ctx *cli.Context) error {
	c, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Prune(time.Now().Add(-ctx.Duration(olderThanFlag.Name)))
	if err != nil {
		return err
	}
	fmt.Fprintf(outWriter(ctx), "removed %d translation(s) from %s\n", n, c.Path())
	return nil
}

func cacheClear(ctx *cli.Context) error {
	c, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(outWriter(ctx), "cleared %s\n", c.Path())
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = outWriter(ctx).Write(out)
	return err
}
