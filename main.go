package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lucasz92/zenitwms-sub000/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
