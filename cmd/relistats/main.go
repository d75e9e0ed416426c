package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yasi-python/relistats/pkg/cli"
	"github.com/yasi-python/relistats/pkg/metrics"
)

func main() {
	metrics.MustRegister()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := cli.NewRootCmd()
	root.SetContext(ctx)
	code := cli.Execute(root)
	cancel()
	os.Exit(code)
}
