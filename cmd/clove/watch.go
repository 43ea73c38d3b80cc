package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rjeczalik/notify"
	"gopkg.in/urfave/cli.v1"
)

// watch calls fn with the input path each time one of files is written,
// until interrupted.
func watch(ctx *cli.Context, files []string, fn func(file string)) error {
	inputs := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		inputs[abs] = file
		dirs[filepath.Dir(abs)] = true
	}

	events := make(chan notify.EventInfo, 16)
	for dir := range dirs {
		if err := notify.Watch(dir, events, notify.Write, notify.Create, notify.Rename); err != nil {
			notify.Stop(events)
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	defer notify.Stop(events)

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(errWriter(ctx), "watching %d file(s), press Ctrl-C to stop\n", len(files))
	watchLoop(sctx, events, inputs, fn)
	return nil
}

// watchLoop dispatches events for known inputs until ctx is done or events
// is closed.
func watchLoop(ctx context.Context, events <-chan notify.EventInfo, inputs map[string]string, fn func(file string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ei, ok := <-events:
			if !ok {
				return
			}
			if file, known := inputs[ei.Path()]; known {
				fn(file)
			}
		}
	}
}
