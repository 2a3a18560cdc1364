package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jeongminsang/stylex/cli"
	"github.com/jeongminsang/stylex/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:])

	stop()

	if err != nil {
		log.Debug("run failed", slog.Any("error", err))
		cli.Diagnose(os.Stderr, err)
		os.Exit(1)
	}
}
