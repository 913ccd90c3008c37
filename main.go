package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ytget/modelfetch/internal/cli"
	"github.com/ytget/modelfetch/internal/config"
	"github.com/ytget/modelfetch/internal/console"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	// Cancel the download on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx, os.Args[1:], cli.Dependencies{
		Version:  version,
		Console:  console.Stdio(),
		Settings: config.Load(),
	})

	stop()
	os.Exit(code)
}
