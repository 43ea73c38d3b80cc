package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"gopkg.in/urfave/cli.v1"

	"github.com/chazu/clove/pkg/service"
)

var (
	addrFlag = cli.StringFlag{
		Name:  "addr",
		Usage: "listen address (default from config, 127.0.0.1:7450)",
	}

	serveCommand = cli.Command{
		Action: serve,
		Name:   "serve",
		Usage:  "Serve translations over gRPC",
		Flags:  []cli.Flag{addrFlag},
		Description: `
Runs the clove.Translator gRPC service until interrupted. Server reflection
is enabled, and "clove translate --remote ADDR" is a client.`,
	}
)

func serve(ctx *cli.Context) error {
	translator, cfg, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := cfg.Service.Addr
	if ctx.IsSet(addrFlag.Name) {
		addr = ctx.String(addrFlag.Name)
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv, err := service.NewServer(translator, grpc.UnaryInterceptor(traceInterceptor(ctx)))
	if err != nil {
		lis.Close()
		return err
	}

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error {
		fmt.Fprintf(errWriter(ctx), "serving %s on %s\n", service.ServiceName, lis.Addr())
		return srv.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		srv.Stop()
		return nil
	})
	return g.Wait()
}

// traceInterceptor reports each call with --verbose.
func traceInterceptor(ctx *cli.Context) grpc.UnaryServerInterceptor {
	return func(rctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(rctx, req)
		if err != nil {
			tracef(ctx, "%s failed after %v: %v", info.FullMethod, time.Since(start), err)
		} else {
			tracef(ctx, "%s took %v", info.FullMethod, time.Since(start))
		}
		return resp, err
	}
}
